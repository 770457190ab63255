package httpapi

import (
	"context"
	"io"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/services"
)

// The interfaces below are the subsets of the services package the
// handlers use.

type Authenticator interface {
	Register(ctx context.Context, userName string, password []byte) (*models.User, error)
	Login(ctx context.Context, userName string, password []byte) (string, error)
	UserNameFromToken(token string) (string, error)
}

type Reviewer interface {
	Next(ctx context.Context, kind models.ItemKind, userName string, previousID int64) (models.Reviewable, error)
	SetStatus(ctx context.Context, kind models.ItemKind, userName string, id int64, ready int) error
	CountReviewedInWindow(ctx context.Context, kind models.ItemKind, userName string) (int, error)
}

type Vocabulary interface {
	Get(ctx context.Context, userName string, id int64) (*models.Syllable, error)
	List(ctx context.Context, userName string, q services.ListQuery) ([]*models.Syllable, error)
	Save(ctx context.Context, userName string, item *models.Syllable) (*models.Syllable, error)
	InText(ctx context.Context, userName string, text string) ([]*models.Syllable, error)
}

type VocabularyImporter interface {
	Import(ctx context.Context, userName string, r io.Reader, cfg services.ImportConfig) (*services.ImportResult, error)
}

type Phrases interface {
	Get(ctx context.Context, userName string, id int64) (*models.Phrase, error)
	List(ctx context.Context, userName string, ready *int) ([]*models.Phrase, error)
	Save(ctx context.Context, userName string, p *models.Phrase) (*models.Phrase, error)
}

type Progress interface {
	Bounds(ctx context.Context, userName string, bookID int64) (*models.Bounds, error)
	SavePosition(ctx context.Context, userName string, bookID int64, paragraph int) error
	ListBooks(ctx context.Context, userName string) ([]*models.BookStats, error)
	Book(ctx context.Context, userName string, bookID int64) (*models.BookStats, error)
	LastOpened(ctx context.Context, userName string) (*models.Book, error)
	Paragraph(ctx context.Context, userName string, bookID int64, paragraph int) ([]models.Sentence, error)
}

type BookImporter interface {
	ImportText(ctx context.Context, userName, name, text string) (*models.Book, error)
	ImportURL(ctx context.Context, userName, rawURL string) (*models.Book, error)
}

type Layout interface {
	StartPage(ctx context.Context, userName string) (*models.PageView, error)
	RecordTransition(ctx context.Context, userName string, tileID *int64, hyperlink string) error
}

type Icons interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (*models.Icon, error)
	Get(ctx context.Context, filename string) (*models.IconBlob, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

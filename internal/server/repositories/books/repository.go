package books

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Book) (*models.Book, error)
	AddSentence(ctx context.Context, s *models.Sentence) error
	Get(ctx context.Context, userID, id int64) (*models.Book, error)
	ParagraphBounds(ctx context.Context, userID, id int64) (*models.Bounds, error)
	UpdatePosition(ctx context.Context, userID, id int64, paragraph int, at time.Time) error
	ListStats(ctx context.Context, userID int64, from, to time.Time) ([]*models.BookStats, error)
	GetStats(ctx context.Context, userID, id int64, from, to time.Time) (*models.BookStats, error)
	LastOpened(ctx context.Context, userID int64) (*models.Book, error)
	Paragraph(ctx context.Context, bookID int64, paragraph int) ([]models.Sentence, error)
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/config"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
)

// ProgressService tracks the reading position in books and derives the
// progress figures shown next to each book.
type ProgressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	window      time.Duration
	now         func() time.Time
}

func NewProgressService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ProgressService {
	return &ProgressService{
		db:          db,
		repomanager: m,
		window:      cfg.ReviewWindow,
		now:         time.Now,
	}
}

// Bounds returns the paragraph range of a book. A book without sentences
// has no bounds and is reported as common.ErrorNotFound.
func (s *ProgressService) Bounds(ctx context.Context, userName string, bookID int64) (*models.Bounds, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	b, err := s.repomanager.Books(s.db).ParagraphBounds(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

// SavePosition moves the bookmark of a book and appends a journal entry in
// one transaction. A paragraph outside the bounds, or a book without
// sentences, yields common.ErrorOutOfRange and changes nothing.
func (s *ProgressService) SavePosition(ctx context.Context, userName string, bookID int64, paragraph int) error {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		books := s.repomanager.Books(tx)

		bounds, err := books.ParagraphBounds(ctx, userID, bookID)
		if err != nil {
			return err
		}
		if bounds == nil || !bounds.Contains(paragraph) {
			return common.ErrorOutOfRange
		}

		now := s.now()
		if err := books.UpdatePosition(ctx, userID, bookID, paragraph, now); err != nil {
			return err
		}
		return s.repomanager.Journal(tx).Append(ctx, &models.JournalEntry{
			UserID:    userID,
			BookID:    bookID,
			Paragraph: paragraph,
			CreatedAt: now,
		})
	})
}

func (s *ProgressService) ListBooks(ctx context.Context, userName string) ([]*models.BookStats, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items, err := s.repomanager.Books(s.db).ListStats(ctx, userID, now.Add(-s.window), now)
	if err != nil {
		return nil, err
	}
	for _, st := range items {
		fillPercentage(st)
	}
	return items, nil
}

func (s *ProgressService) Book(ctx context.Context, userName string, bookID int64) (*models.BookStats, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	now := s.now()
	st, err := s.repomanager.Books(s.db).GetStats(ctx, userID, bookID, now.Add(-s.window), now)
	if err != nil {
		return nil, err
	}
	fillPercentage(st)
	return st, nil
}

// LastOpened returns the most recently updated book, or nil when the user
// has none.
func (s *ProgressService) LastOpened(ctx context.Context, userName string) (*models.Book, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	b, err := s.repomanager.Books(s.db).LastOpened(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Paragraph returns the sentences of one paragraph of an owned book.
func (s *ProgressService) Paragraph(ctx context.Context, userName string, bookID int64, paragraph int) ([]models.Sentence, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	books := s.repomanager.Books(s.db)
	if _, err := books.Get(ctx, userID, bookID); err != nil {
		return nil, err
	}
	return books.Paragraph(ctx, bookID, paragraph)
}

func fillPercentage(st *models.BookStats) {
	st.ReadPercentage = models.ComputeReadPercentage(st.CurrentParagraph, st.MinParagraph, st.MaxParagraph)
}

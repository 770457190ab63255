package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/config"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
)

// reviewQueue is the part of the phrase and vocabulary repositories that
// does not depend on the item type.
type reviewQueue interface {
	SetReady(ctx context.Context, userID, id int64, ready int) error
	MarkViewed(ctx context.Context, userID, id int64, at time.Time) error
	CountViewedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error)
}

// ReviewService keeps one review queue per user and item kind. The next
// item is the unlearned one viewed least recently; never viewed items come
// first and ties go to the lower id.
//
// Two concurrent Next calls of the same user may return the same item.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	window      time.Duration
	now         func() time.Time
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ReviewService {
	return &ReviewService{
		db:          db,
		repomanager: m,
		window:      cfg.ReviewWindow,
		now:         time.Now,
	}
}

func (s *ReviewService) queue(kind models.ItemKind, db dbx.DBTX) (reviewQueue, error) {
	switch kind {
	case models.KindPhrase:
		return s.repomanager.Phrases(db), nil
	case models.KindSyllable:
		return s.repomanager.Syllables(db), nil
	}
	return nil, fmt.Errorf("%w: unknown item kind %q", common.ErrorValidation, kind)
}

// Next marks previousID as reviewed (when non-zero) and returns the next
// item of the queue, both in one transaction. It returns (nil, nil) when no
// unlearned items remain. An unknown previousID is common.ErrorNotFound and
// leaves the queue untouched.
func (s *ReviewService) Next(ctx context.Context, kind models.ItemKind, userName string, previousID int64) (models.Reviewable, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	if _, err := s.queue(kind, s.db); err != nil {
		return nil, err
	}

	var next models.Reviewable
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if previousID != 0 {
			q, _ := s.queue(kind, tx)
			if err := q.MarkViewed(ctx, userID, previousID, s.now()); err != nil {
				return err
			}
		}

		item, err := s.nextUnlearned(ctx, tx, kind, userID)
		if err != nil {
			return err
		}
		next = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (s *ReviewService) nextUnlearned(ctx context.Context, tx dbx.DBTX, kind models.ItemKind, userID int64) (models.Reviewable, error) {
	switch kind {
	case models.KindPhrase:
		p, err := s.repomanager.Phrases(tx).NextUnlearned(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		repo := s.repomanager.Syllables(tx)
		item, err := repo.NextUnlearned(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if item.Examples, err = repo.ListExamples(ctx, item.ID); err != nil {
			return nil, err
		}
		return item, nil
	}
}

// SetStatus sets the ready flag; review counters are not touched.
func (s *ReviewService) SetStatus(ctx context.Context, kind models.ItemKind, userName string, id int64, ready int) error {
	if ready != common.ReadyLearning && ready != common.ReadyLearned {
		return fmt.Errorf("%w: ready must be 0 or 1", common.ErrorValidation)
	}
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return err
	}
	q, err := s.queue(kind, s.db)
	if err != nil {
		return err
	}
	return q.SetReady(ctx, userID, id, ready)
}

// CountReviewedInWindow counts items whose last view falls within the
// rolling window ending now.
func (s *ReviewService) CountReviewedInWindow(ctx context.Context, kind models.ItemKind, userName string) (int, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return 0, err
	}
	q, err := s.queue(kind, s.db)
	if err != nil {
		return 0, err
	}
	now := s.now()
	return q.CountViewedBetween(ctx, userID, now.Add(-s.window), now)
}

package phrases

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID, id int64) (*models.Phrase, error)
	List(ctx context.Context, userID int64, ready *int) ([]*models.Phrase, error)
	Create(ctx context.Context, p *models.Phrase) (*models.Phrase, error)
	Update(ctx context.Context, p *models.Phrase) error
	SetReady(ctx context.Context, userID, id int64, ready int) error
	MarkViewed(ctx context.Context, userID, id int64, at time.Time) error
	NextUnlearned(ctx context.Context, userID int64) (*models.Phrase, error)
	CountViewedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error)
}

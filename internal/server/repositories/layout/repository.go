package layout

import (
	"context"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

type Repository interface {
	DefaultPage(ctx context.Context, userID int64) (*models.Page, error)
	PageRows(ctx context.Context, userID, pageID int64) ([]models.Row, error)
	RowTiles(ctx context.Context, userID, rowID int64) ([]models.PlacedTile, error)
	AddTransition(ctx context.Context, t *models.Transition) error
}

package icons

import (
	"context"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, icon *models.Icon) (*models.Icon, error)
	GetByFilename(ctx context.Context, filename string) (*models.Icon, error)
}

package users

import (
	"context"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByName(ctx context.Context, userName string) (*models.User, error)
}

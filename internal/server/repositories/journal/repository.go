package journal

import (
	"context"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, e *models.JournalEntry) error
}

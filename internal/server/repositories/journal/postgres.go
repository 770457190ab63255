// Package journal appends reading-position events. Entries are never
// updated or deleted.
package journal

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.JournalEntry) error {
	query :=
		`INSERT INTO reading_journal (user_id, id_book, id_paragraph, dt)
		 VALUES ($1, $2, $3, $4)
		 RETURNING row_id`

	if err := r.db.QueryRowContext(ctx, query, e.UserID, e.BookID, e.Paragraph, e.CreatedAt).Scan(&e.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

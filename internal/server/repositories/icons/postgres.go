// Package icons stores metadata of uploaded icons. The binary content is
// kept in object storage under StorageKey.
package icons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, icon *models.Icon) (*models.Icon, error) {
	query :=
		`INSERT INTO user_icons (filename, content_type, storage_key)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, icon.Filename, icon.ContentType, icon.StorageKey).
		Scan(&icon.ID, &icon.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return icon, nil
}

func (r *PostgresRepository) GetByFilename(ctx context.Context, filename string) (*models.Icon, error) {
	query := `SELECT id, filename, content_type, storage_key, created_at FROM user_icons WHERE filename = $1`

	icon := &models.Icon{}
	err := r.db.QueryRowContext(ctx, query, filename).
		Scan(&icon.ID, &icon.Filename, &icon.ContentType, &icon.StorageKey, &icon.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return icon, nil
}

// Package layout reads the tile-based home page and logs clicks on it.
package layout

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

// DefaultPage returns the page flagged as default, falling back to the one
// with the lowest index.
func (r *PostgresRepository) DefaultPage(ctx context.Context, userID int64) (*models.Page, error) {
	query :=
		`SELECT page_id, user_id, page_name, "index", "default" FROM hp_pages
		 WHERE user_id = $1
		 ORDER BY "default" DESC, "index", page_id
		 LIMIT 1`

	p := &models.Page{}
	var isDefault int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Index, &isDefault)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.IsDefault = isDefault == 1
	return p, nil
}

func (r *PostgresRepository) PageRows(ctx context.Context, userID, pageID int64) ([]models.Row, error) {
	query :=
		`SELECT r.row_id, r.user_id, r.row_name, r.row_type, pr.row_index
		 FROM hp_page_rows pr JOIN hp_rows r ON r.row_id = pr.row_id
		 WHERE pr.page_id = $1 AND pr.user_id = $2 AND r.user_id = $2
		 ORDER BY pr.row_index, pr.id`

	rows, err := r.db.QueryContext(ctx, query, pageID, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]models.Row, 0)
	for rows.Next() {
		var row models.Row
		if err := rows.Scan(&row.ID, &row.UserID, &row.Name, &row.Type, &row.Index); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) RowTiles(ctx context.Context, userID, rowID int64) ([]models.PlacedTile, error) {
	query :=
		`SELECT rt.id, rt.row_id, rt.tile_index,
		        t.tile_id, t.user_id, t.name, t.hyperlink, t.onclick, t.icon, t.color
		 FROM hp_row_tiles rt JOIN hp_tiles t ON t.tile_id = rt.tile_id
		 WHERE rt.row_id = $1 AND rt.user_id = $2 AND t.user_id = $2
		 ORDER BY rt.tile_index, rt.id`

	rows, err := r.db.QueryContext(ctx, query, rowID, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]models.PlacedTile, 0)
	for rows.Next() {
		var (
			pt                 models.PlacedTile
			hyperlink, onclick sql.NullString
		)
		if err := rows.Scan(&pt.PlacementID, &pt.RowID, &pt.TileIndex,
			&pt.ID, &pt.UserID, &pt.Name, &hyperlink, &onclick, &pt.Icon, &pt.Color); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if hyperlink.Valid {
			pt.Hyperlink = &hyperlink.String
		}
		if onclick.Valid {
			pt.OnClick = &onclick.String
		}
		items = append(items, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) AddTransition(ctx context.Context, t *models.Transition) error {
	query :=
		`INSERT INTO hp_transitions (user_id, tile_id, hyperlink, dt)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, t.UserID, t.TileID, t.Hyperlink, t.CreatedAt).Scan(&t.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

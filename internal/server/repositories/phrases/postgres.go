// Package phrases persists free-text phrases and their review state.
package phrases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

const selectColumns = `SELECT id_phrase, user_id, phrase, translation, dt, ready, show_count, last_view FROM phrases`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhrase(s scanner) (*models.Phrase, error) {
	p := &models.Phrase{}
	var lastView sql.NullTime
	if err := s.Scan(&p.ID, &p.UserID, &p.Text, &p.Translation, &p.CreatedAt,
		&p.Ready, &p.ShowCount, &lastView); err != nil {
		return nil, err
	}
	if lastView.Valid {
		t := lastView.Time
		p.LastView = &t
	}
	return p, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Phrase, error) {
	p, err := scanPhrase(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Phrase, error) {
	return r.queryOne(ctx, selectColumns+` WHERE id_phrase = $1 AND user_id = $2`, id, userID)
}

// List returns the user's phrases, newest first. A nil ready returns both
// learned and unlearned phrases.
func (r *PostgresRepository) List(ctx context.Context, userID int64, ready *int) ([]*models.Phrase, error) {
	query := selectColumns + ` WHERE user_id = $1 AND ($2::smallint IS NULL OR ready = $2) ORDER BY dt DESC, id_phrase DESC`

	var readyArg any
	if ready != nil {
		readyArg = *ready
	}

	rows, err := r.db.QueryContext(ctx, query, userID, readyArg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Phrase, 0)
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Phrase) (*models.Phrase, error) {
	query :=
		`INSERT INTO phrases (user_id, phrase, translation, ready, show_count, last_view)
		 VALUES ($1, $2, $3, 0, 0, NULL)
		 RETURNING id_phrase, dt`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Text, p.Translation).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.ReviewState = models.ReviewState{}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Phrase) error {
	query := `UPDATE phrases SET phrase = $1, translation = $2 WHERE id_phrase = $3 AND user_id = $4`
	return r.exec(ctx, query, p.Text, p.Translation, p.ID, p.UserID)
}

func (r *PostgresRepository) SetReady(ctx context.Context, userID, id int64, ready int) error {
	query := `UPDATE phrases SET ready = $1 WHERE id_phrase = $2 AND user_id = $3`
	return r.exec(ctx, query, ready, id, userID)
}

func (r *PostgresRepository) MarkViewed(ctx context.Context, userID, id int64, at time.Time) error {
	query := `UPDATE phrases SET last_view = $1, show_count = show_count + 1 WHERE id_phrase = $2 AND user_id = $3`
	return r.exec(ctx, query, at, id, userID)
}

// NextUnlearned returns the unlearned phrase viewed least recently. Never
// viewed phrases come first, ties are broken by id.
func (r *PostgresRepository) NextUnlearned(ctx context.Context, userID int64) (*models.Phrase, error) {
	query := selectColumns + ` WHERE user_id = $1 AND ready = 0 ORDER BY last_view ASC NULLS FIRST, id_phrase ASC LIMIT 1`
	return r.queryOne(ctx, query, userID)
}

func (r *PostgresRepository) CountViewedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM phrases WHERE user_id = $1 AND last_view BETWEEN $2 AND $3`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

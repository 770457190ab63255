// Package books persists books, their sentences and the aggregated reading
// statistics derived from sentences and the reading journal.
package books

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

// statsQuery joins every book with its paragraph bounds and the span of
// paragraphs touched in the journal between $2 and $3.
const statsQuery = `SELECT b.id_book, b.user_id, b.book_name, b.current_paragraph, b.dt,
		bnd.min_p, bnd.max_p, COALESCE(j.span, 0)
	 FROM books b
	 LEFT JOIN (SELECT id_book, MIN(id_paragraph) AS min_p, MAX(id_paragraph) AS max_p
	            FROM sentences GROUP BY id_book) bnd ON bnd.id_book = b.id_book
	 LEFT JOIN (SELECT id_book, MAX(id_paragraph) - MIN(id_paragraph) AS span
	            FROM reading_journal
	            WHERE user_id = $1 AND dt BETWEEN $2 AND $3
	            GROUP BY id_book) j ON j.id_book = b.id_book
	 WHERE b.user_id = $1`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func scanBook(s scanner) (*models.Book, error) {
	b := &models.Book{}
	var (
		current sql.NullInt64
		dt      sql.NullTime
	)
	if err := s.Scan(&b.ID, &b.UserID, &b.Name, &current, &dt); err != nil {
		return nil, err
	}
	b.CurrentParagraph = nullInt(current)
	b.UpdatedAt = nullTime(dt)
	return b, nil
}

func scanStats(s scanner) (*models.BookStats, error) {
	st := &models.BookStats{}
	var (
		current, minP, maxP sql.NullInt64
		dt                  sql.NullTime
	)
	if err := s.Scan(&st.ID, &st.UserID, &st.Name, &current, &dt, &minP, &maxP, &st.ReadInWindow); err != nil {
		return nil, err
	}
	st.CurrentParagraph = nullInt(current)
	st.UpdatedAt = nullTime(dt)
	st.MinParagraph = nullInt(minP)
	st.MaxParagraph = nullInt(maxP)
	return st, nil
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	query :=
		`INSERT INTO books (user_id, book_name, current_paragraph, dt)
		 VALUES ($1, $2, NULL, NULL)
		 RETURNING id_book`

	if err := r.db.QueryRowContext(ctx, query, b.UserID, b.Name).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	b.CurrentParagraph = nil
	b.UpdatedAt = nil
	return b, nil
}

func (r *PostgresRepository) AddSentence(ctx context.Context, s *models.Sentence) error {
	query :=
		`INSERT INTO sentences (id_book, id_paragraph, sequence, sentence)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id_sentence`

	if err := r.db.QueryRowContext(ctx, query, s.BookID, s.Paragraph, s.Sequence, s.Text).Scan(&s.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Book, error) {
	query := `SELECT id_book, user_id, book_name, current_paragraph, dt FROM books WHERE id_book = $1 AND user_id = $2`

	b, err := scanBook(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// ParagraphBounds returns nil bounds for an owned book without sentences
// and common.ErrorNotFound when the book is missing or foreign.
func (r *PostgresRepository) ParagraphBounds(ctx context.Context, userID, id int64) (*models.Bounds, error) {
	query :=
		`SELECT MIN(s.id_paragraph), MAX(s.id_paragraph)
		 FROM books b LEFT JOIN sentences s ON s.id_book = b.id_book
		 WHERE b.id_book = $1 AND b.user_id = $2
		 GROUP BY b.id_book`

	var minP, maxP sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&minP, &maxP); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !minP.Valid || !maxP.Valid {
		return nil, nil
	}
	return &models.Bounds{Min: int(minP.Int64), Max: int(maxP.Int64)}, nil
}

func (r *PostgresRepository) UpdatePosition(ctx context.Context, userID, id int64, paragraph int, at time.Time) error {
	query := `UPDATE books SET current_paragraph = $1, dt = $2 WHERE id_book = $3 AND user_id = $4`

	res, err := r.db.ExecContext(ctx, query, paragraph, at, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) ListStats(ctx context.Context, userID int64, from, to time.Time) ([]*models.BookStats, error) {
	query := statsQuery + ` ORDER BY b.dt DESC NULLS LAST, b.id_book`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.BookStats, 0)
	for rows.Next() {
		st, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) GetStats(ctx context.Context, userID, id int64, from, to time.Time) (*models.BookStats, error) {
	query := statsQuery + ` AND b.id_book = $4`

	st, err := scanStats(r.db.QueryRowContext(ctx, query, userID, from, to, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return st, nil
}

func (r *PostgresRepository) LastOpened(ctx context.Context, userID int64) (*models.Book, error) {
	query :=
		`SELECT id_book, user_id, book_name, current_paragraph, dt FROM books
		 WHERE user_id = $1
		 ORDER BY dt DESC NULLS LAST, id_book DESC
		 LIMIT 1`

	b, err := scanBook(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// Paragraph does not check ownership; callers resolve the book first.
func (r *PostgresRepository) Paragraph(ctx context.Context, bookID int64, paragraph int) ([]models.Sentence, error) {
	query :=
		`SELECT id_sentence, id_book, id_paragraph, sequence, sentence FROM sentences
		 WHERE id_book = $1 AND id_paragraph = $2
		 ORDER BY sequence, id_sentence`

	rows, err := r.db.QueryContext(ctx, query, bookID, paragraph)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]models.Sentence, 0)
	for rows.Next() {
		var s models.Sentence
		if err := rows.Scan(&s.ID, &s.BookID, &s.Paragraph, &s.Sequence, &s.Text); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

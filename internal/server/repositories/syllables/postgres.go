// Package syllables persists vocabulary items together with their ordered
// example sentences.
package syllables

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

const selectColumns = `SELECT syllable_id, user_id, word, transcription, translations, examples, ready, show_count, last_view FROM syllables`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSyllable(s scanner) (*models.Syllable, error) {
	item := &models.Syllable{}
	var (
		transcription, translations, examples sql.NullString
		lastView                              sql.NullTime
	)
	if err := s.Scan(&item.ID, &item.UserID, &item.Word, &transcription, &translations, &examples,
		&item.Ready, &item.ShowCount, &lastView); err != nil {
		return nil, err
	}
	item.Transcription = nullString(transcription)
	item.Translations = nullString(translations)
	item.ExamplesText = nullString(examples)
	if lastView.Valid {
		t := lastView.Time
		item.LastView = &t
	}
	return item, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Syllable, error) {
	item, err := scanSyllable(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Syllable, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Syllable, 0)
	for rows.Next() {
		item, err := scanSyllable(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Syllable, error) {
	return r.queryOne(ctx, selectColumns+` WHERE syllable_id = $1 AND user_id = $2`, id, userID)
}

func (r *PostgresRepository) GetByWord(ctx context.Context, userID int64, word string) (*models.Syllable, error) {
	return r.queryOne(ctx, selectColumns+` WHERE user_id = $1 AND word = $2`, userID, word)
}

func (r *PostgresRepository) List(ctx context.Context, userID int64, f Filter) ([]*models.Syllable, error) {
	query := selectColumns + ` WHERE user_id = $1
		 AND ($2::smallint IS NULL OR ready = $2)
		 AND ($3 = '' OR word ILIKE '%' || $3 || '%' ESCAPE '\')
		 ORDER BY word, syllable_id
		 OFFSET $4 LIMIT $5`

	var ready any
	if f.Ready != nil {
		ready = *f.Ready
	}
	return r.queryMany(ctx, query, userID, ready, likeEscaper.Replace(f.WordPart), f.Offset, f.Limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindUnlearnedByWords returns the user's unlearned items whose word is one
// of words, ordered by word.
func (r *PostgresRepository) FindUnlearnedByWords(ctx context.Context, userID int64, words []string) ([]*models.Syllable, error) {
	if len(words) == 0 {
		return []*models.Syllable{}, nil
	}
	query := selectColumns + ` WHERE user_id = $1 AND ready = 0 AND lower(word) = ANY($2) ORDER BY word, syllable_id`
	return r.queryMany(ctx, query, userID, words)
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Syllable) (*models.Syllable, error) {
	query :=
		`INSERT INTO syllables (user_id, word, transcription, translations, examples, ready, show_count, last_view)
		 VALUES ($1, $2, $3, $4, $5, 0, 0, NULL)
		 RETURNING syllable_id`

	err := r.db.QueryRowContext(ctx, query, s.UserID, s.Word, s.Transcription, s.Translations, s.ExamplesText).Scan(&s.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.ReviewState = models.ReviewState{}
	return s, nil
}

// Update rewrites the descriptive fields only; review state is changed by
// SetReady and MarkViewed.
func (r *PostgresRepository) Update(ctx context.Context, s *models.Syllable) error {
	query :=
		`UPDATE syllables SET word = $1, transcription = $2, translations = $3, examples = $4
		 WHERE syllable_id = $5 AND user_id = $6`

	res, err := r.db.ExecContext(ctx, query, s.Word, s.Transcription, s.Translations, s.ExamplesText, s.ID, s.UserID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) SetReady(ctx context.Context, userID, id int64, ready int) error {
	query := `UPDATE syllables SET ready = $1 WHERE syllable_id = $2 AND user_id = $3`
	return r.exec(ctx, query, ready, id, userID)
}

func (r *PostgresRepository) MarkViewed(ctx context.Context, userID, id int64, at time.Time) error {
	query := `UPDATE syllables SET last_view = $1, show_count = show_count + 1 WHERE syllable_id = $2 AND user_id = $3`
	return r.exec(ctx, query, at, id, userID)
}

func (r *PostgresRepository) NextUnlearned(ctx context.Context, userID int64) (*models.Syllable, error) {
	query := selectColumns + ` WHERE user_id = $1 AND ready = 0 ORDER BY last_view ASC NULLS FIRST, syllable_id ASC LIMIT 1`
	return r.queryOne(ctx, query, userID)
}

func (r *PostgresRepository) CountViewedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM syllables WHERE user_id = $1 AND last_view BETWEEN $2 AND $3`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

const selectExampleColumns = `SELECT paragraph_id, syllable_id, example, translate, sequence FROM syllable_paragraphs`

func (r *PostgresRepository) ListExamples(ctx context.Context, syllableID int64) ([]models.Example, error) {
	query := selectExampleColumns + `
		 WHERE syllable_id = $1 ORDER BY sequence, paragraph_id`

	examples := make([]models.Example, 0)
	err := r.queryExamples(ctx, func(ex models.Example) {
		examples = append(examples, ex)
	}, query, syllableID)
	if err != nil {
		return nil, err
	}
	return examples, nil
}

// ListExamplesFor loads the examples of several items in one query, keyed
// by item id and ordered by sequence.
func (r *PostgresRepository) ListExamplesFor(ctx context.Context, syllableIDs []int64) (map[int64][]models.Example, error) {
	out := make(map[int64][]models.Example, len(syllableIDs))
	if len(syllableIDs) == 0 {
		return out, nil
	}
	query := selectExampleColumns + `
		 WHERE syllable_id = ANY($1) ORDER BY syllable_id, sequence, paragraph_id`

	err := r.queryExamples(ctx, func(ex models.Example) {
		out[ex.SyllableID] = append(out[ex.SyllableID], ex)
	}, query, syllableIDs)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) queryExamples(ctx context.Context, add func(models.Example), query string, args ...any) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ex        models.Example
			translate sql.NullString
		)
		if err := rows.Scan(&ex.ID, &ex.SyllableID, &ex.Text, &translate, &ex.Sequence); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		ex.Translation = nullString(translate)
		add(ex)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateExample(ctx context.Context, ex *models.Example) (*models.Example, error) {
	query :=
		`INSERT INTO syllable_paragraphs (syllable_id, example, translate, sequence)
		 VALUES ($1, $2, $3, $4)
		 RETURNING paragraph_id`

	if err := r.db.QueryRowContext(ctx, query, ex.SyllableID, ex.Text, ex.Translation, ex.Sequence).Scan(&ex.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ex, nil
}

func (r *PostgresRepository) UpdateExample(ctx context.Context, ex *models.Example) error {
	query :=
		`UPDATE syllable_paragraphs SET example = $1, translate = $2, sequence = $3
		 WHERE paragraph_id = $4 AND syllable_id = $5`
	return r.exec(ctx, query, ex.Text, ex.Translation, ex.Sequence, ex.ID, ex.SyllableID)
}

func (r *PostgresRepository) DeleteExample(ctx context.Context, syllableID, id int64) error {
	query := `DELETE FROM syllable_paragraphs WHERE paragraph_id = $1 AND syllable_id = $2`
	return r.exec(ctx, query, id, syllableID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

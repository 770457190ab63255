package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
	"github.com/xuri/excelize/v2"
)

// ImportConfig names the spreadsheet columns (by letter) holding each field.
type ImportConfig struct {
	SheetName                string
	WordColumn               string
	TranscriptionColumn      string
	TranslationsColumn       string
	ExampleColumn            string
	ExampleTranslationColumn string
	// StartRow is 1-based; rows above it are headers.
	StartRow int
}

func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:                "Sheet1",
		WordColumn:               "A",
		TranscriptionColumn:      "B",
		TranslationsColumn:       "C",
		ExampleColumn:            "D",
		ExampleTranslationColumn: "E",
		StartRow:                 2,
	}
}

type ImportResult struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// VocabularyImporter loads vocabulary items from an xlsx workbook. Words the
// user already has are updated, others are created.
type VocabularyImporter struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	vocabulary  *VocabularyService
}

func NewVocabularyImporter(db *sql.DB, m repomanager.RepositoryManager) *VocabularyImporter {
	return &VocabularyImporter{db: db, repomanager: m, vocabulary: NewVocabularyService(db, m)}
}

type columnIndex struct {
	word, transcription, translations, example, exampleTranslation int
}

func (c ImportConfig) indexes() (columnIndex, error) {
	var idx columnIndex
	for _, col := range []struct {
		name string
		dst  *int
	}{
		{c.WordColumn, &idx.word},
		{c.TranscriptionColumn, &idx.transcription},
		{c.TranslationsColumn, &idx.translations},
		{c.ExampleColumn, &idx.example},
		{c.ExampleTranslationColumn, &idx.exampleTranslation},
	} {
		if col.name == "" {
			*col.dst = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(col.name)
		if err != nil {
			return idx, fmt.Errorf("%w: column %q: %v", common.ErrorValidation, col.name, err)
		}
		*col.dst = n - 1
	}
	if idx.word < 0 {
		return idx, fmt.Errorf("%w: word column is required", common.ErrorValidation)
	}
	return idx, nil
}

// Import reads the workbook from r. Row-level problems are collected in
// the result; only unreadable input or a database failure aborts the run.
func (im *VocabularyImporter) Import(ctx context.Context, userName string, r io.Reader, cfg ImportConfig) (*ImportResult, error) {
	idx, err := cfg.indexes()
	if err != nil {
		return nil, err
	}
	userID, err := resolveUserID(ctx, im.repomanager.Users(im.db), userName)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		word := strings.TrimSpace(cell(row, idx.word))
		if word == "" {
			result.Skipped++
			continue
		}
		result.Processed++

		item := &models.Syllable{
			UserID:        userID,
			Word:          word,
			Transcription: optional(cell(row, idx.transcription)),
			Translations:  optional(cell(row, idx.translations)),
		}
		if ex := strings.TrimSpace(cell(row, idx.example)); ex != "" {
			item.Examples = []models.Example{{Text: ex, Translation: optional(cell(row, idx.exampleTranslation))}}
		}

		created, err := im.upsert(ctx, item)
		if err != nil {
			if errors.Is(err, common.ErrorValidation) || errors.Is(err, common.ErrorAlreadyExists) {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			return result, fmt.Errorf("row %d: %w", i+1, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// upsert writes one item in its own transaction. Examples of an existing
// item are kept and the imported example is appended when its text is new.
func (im *VocabularyImporter) upsert(ctx context.Context, item *models.Syllable) (bool, error) {
	created := false
	err := dbx.WithTx(ctx, im.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := im.repomanager.Syllables(tx)

		existing, err := repo.GetByWord(ctx, item.UserID, item.Word)
		if errors.Is(err, common.ErrorNotFound) {
			created = true
			_, err = im.vocabulary.save(ctx, repo, item)
			return err
		}
		if err != nil {
			return err
		}

		examples, err := repo.ListExamples(ctx, existing.ID)
		if err != nil {
			return err
		}
		for _, ex := range item.Examples {
			if !hasExample(examples, ex.Text) {
				ex.Sequence = len(examples)
				examples = append(examples, ex)
			}
		}

		existing.Transcription = coalesce(item.Transcription, existing.Transcription)
		existing.Translations = coalesce(item.Translations, existing.Translations)
		existing.Examples = examples
		_, err = im.vocabulary.save(ctx, repo, existing)
		return err
	})
	return created, err
}

func hasExample(examples []models.Example, text string) bool {
	for _, ex := range examples {
		if ex.Text == text {
			return true
		}
	}
	return false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func coalesce(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

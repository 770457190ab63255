package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/netx"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
	"github.com/go-shiori/go-readability"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t\r]*\n`)

// BookImportService turns plain text or a web article into a book with
// numbered paragraphs and sentences.
type BookImportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	client      *http.Client
}

func NewBookImportService(db *sql.DB, m repomanager.RepositoryManager) *BookImportService {
	return &BookImportService{
		db:          db,
		repomanager: m,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// ImportText stores text as a new book. Paragraphs are separated by blank
// lines and numbered from 1; sentence sequence restarts in every paragraph.
func (s *BookImportService) ImportText(ctx context.Context, userName, name, text string) (*models.Book, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: book name is required", common.ErrorValidation)
	}
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("%w: book has no text", common.ErrorValidation)
	}

	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}

	var book *models.Book
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Books(tx)

		var err error
		book, err = repo.Create(ctx, &models.Book{UserID: userID, Name: name})
		if err != nil {
			return err
		}
		for i, p := range paragraphs {
			for j, sentence := range p {
				if err := repo.AddSentence(ctx, &models.Sentence{
					BookID:    book.ID,
					Paragraph: i + 1,
					Sequence:  j,
					Text:      sentence,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// ImportURL downloads a page, extracts the readable article and imports it
// under the article title.
func (s *BookImportService) ImportURL(ctx context.Context, userName, rawURL string) (*models.Book, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", common.ErrorValidation, rawURL)
	}

	body, err := netx.FetchPage(ctx, s.client, u.String(), netx.MaxPageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	name := strings.TrimSpace(article.Title)
	if name == "" {
		name = u.Host + u.Path
	}
	return s.ImportText(ctx, userName, name, article.TextContent)
}

// SplitParagraphs splits text into paragraphs of sentences, dropping empty
// ones.
func SplitParagraphs(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out [][]string
	for _, block := range paragraphBreak.Split(text, -1) {
		block = strings.Join(strings.Fields(block), " ")
		if block == "" {
			continue
		}
		if sentences := SplitSentences(block); len(sentences) > 0 {
			out = append(out, sentences)
		}
	}
	return out
}

// SplitSentences breaks a paragraph after runs of terminal punctuation
// (optionally followed by closing quotes or brackets) that precede a space.
func SplitSentences(paragraph string) []string {
	runes := []rune(paragraph)
	var (
		out   []string
		start int
	)
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && (isTerminal(runes[end]) || isCloser(runes[end])) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
		i = end - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '»', '”', '’':
		return true
	}
	return false
}

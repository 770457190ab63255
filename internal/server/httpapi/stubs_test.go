package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/logging"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/services"
	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const (
	testCookie = "lingobook_session"
	goodToken  = "good-token"
)

type stubAuth struct{}

func (stubAuth) Register(_ context.Context, name string, _ []byte) (*models.User, error) {
	if name == "alice" {
		return nil, common.ErrorAlreadyExists
	}
	return &models.User{ID: 3, UUID: "u-3", UserName: name}, nil
}

func (stubAuth) Login(_ context.Context, name string, password []byte) (string, error) {
	if name == "alice" && string(password) == "secret" {
		return goodToken, nil
	}
	return "", common.ErrorUnauthorized
}

func (stubAuth) UserNameFromToken(token string) (string, error) {
	if token == goodToken {
		return "alice", nil
	}
	return "", common.ErrInvalidToken
}

type stubReview struct {
	item     models.Reviewable
	err      error
	count    int
	previous int64
	kind     models.ItemKind
	ready    int
}

func (s *stubReview) Next(_ context.Context, kind models.ItemKind, _ string, previousID int64) (models.Reviewable, error) {
	s.kind, s.previous = kind, previousID
	return s.item, s.err
}

func (s *stubReview) SetStatus(_ context.Context, kind models.ItemKind, _ string, _ int64, ready int) error {
	s.kind, s.ready = kind, ready
	return s.err
}

func (s *stubReview) CountReviewedInWindow(context.Context, models.ItemKind, string) (int, error) {
	return s.count, nil
}

type stubVocabulary struct {
	query services.ListQuery
	saved *models.Syllable
	err   error
}

func (s *stubVocabulary) Get(_ context.Context, _ string, id int64) (*models.Syllable, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Syllable{ID: id, Word: "cat"}, nil
}

func (s *stubVocabulary) List(_ context.Context, _ string, q services.ListQuery) ([]*models.Syllable, error) {
	s.query = q
	return []*models.Syllable{}, s.err
}

func (s *stubVocabulary) Save(_ context.Context, _ string, item *models.Syllable) (*models.Syllable, error) {
	s.saved = item
	if s.err != nil {
		return nil, s.err
	}
	if item.ID == 0 {
		item.ID = 42
	}
	return item, nil
}

func (s *stubVocabulary) InText(_ context.Context, _ string, text string) ([]*models.Syllable, error) {
	if strings.Contains(text, "cat") {
		return []*models.Syllable{{ID: 1, Word: "cat"}}, nil
	}
	return []*models.Syllable{}, nil
}

type stubImporter struct {
	cfg  services.ImportConfig
	body []byte
}

func (s *stubImporter) Import(_ context.Context, _ string, r io.Reader, cfg services.ImportConfig) (*services.ImportResult, error) {
	s.cfg = cfg
	s.body, _ = io.ReadAll(r)
	return &services.ImportResult{Processed: 1, Created: 1, Errors: []string{}}, nil
}

type stubPhrases struct {
	saved *models.Phrase
	ready *int
}

func (s *stubPhrases) Get(_ context.Context, _ string, id int64) (*models.Phrase, error) {
	if id == 404 {
		return nil, common.ErrorNotFound
	}
	return &models.Phrase{ID: id, Text: "hello"}, nil
}

func (s *stubPhrases) List(_ context.Context, _ string, ready *int) ([]*models.Phrase, error) {
	s.ready = ready
	return []*models.Phrase{}, nil
}

func (s *stubPhrases) Save(_ context.Context, _ string, p *models.Phrase) (*models.Phrase, error) {
	s.saved = p
	if p.ID == 0 {
		p.ID = 7
	}
	return p, nil
}

type stubProgress struct {
	last      *models.Book
	saveErr   error
	paragraph int
}

func (s *stubProgress) Bounds(context.Context, string, int64) (*models.Bounds, error) {
	return &models.Bounds{Min: 1, Max: 9}, nil
}

func (s *stubProgress) SavePosition(_ context.Context, _ string, _ int64, paragraph int) error {
	s.paragraph = paragraph
	return s.saveErr
}

func (s *stubProgress) ListBooks(context.Context, string) ([]*models.BookStats, error) {
	return []*models.BookStats{{Book: models.Book{ID: 1, Name: "Dune"}, ReadPercentage: 50}}, nil
}

func (s *stubProgress) Book(_ context.Context, _ string, id int64) (*models.BookStats, error) {
	return &models.BookStats{Book: models.Book{ID: id}}, nil
}

func (s *stubProgress) LastOpened(context.Context, string) (*models.Book, error) {
	return s.last, nil
}

func (s *stubProgress) Paragraph(_ context.Context, _ string, id int64, n int) ([]models.Sentence, error) {
	return []models.Sentence{{BookID: id, Paragraph: n, Text: "One."}}, nil
}

type stubBooks struct {
	url, name, text string
}

func (s *stubBooks) ImportText(_ context.Context, _ string, name, text string) (*models.Book, error) {
	s.name, s.text = name, text
	return &models.Book{ID: 3, Name: name}, nil
}

func (s *stubBooks) ImportURL(_ context.Context, _ string, rawURL string) (*models.Book, error) {
	s.url = rawURL
	if strings.HasPrefix(rawURL, "ftp:") {
		return nil, common.ErrorValidation
	}
	return &models.Book{ID: 4, Name: "Article"}, nil
}

type stubLayout struct {
	tileID    *int64
	hyperlink string
}

func (s *stubLayout) StartPage(context.Context, string) (*models.PageView, error) {
	return &models.PageView{Page: models.Page{ID: 1, Name: "Home"}, Rows: []models.RowView{}}, nil
}

func (s *stubLayout) RecordTransition(_ context.Context, _ string, tileID *int64, hyperlink string) error {
	if tileID == nil && hyperlink == "" {
		return common.ErrorValidation
	}
	s.tileID, s.hyperlink = tileID, hyperlink
	return nil
}

var iconTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type stubIcons struct {
	uploaded    []byte
	contentType string
	filename    string
}

func (s *stubIcons) Upload(_ context.Context, filename, contentType string, data []byte) (*models.Icon, error) {
	s.filename, s.contentType, s.uploaded = filename, contentType, data
	return &models.Icon{ID: 1, Filename: filename, ContentType: contentType, CreatedAt: iconTime}, nil
}

func (s *stubIcons) Get(_ context.Context, filename string) (*models.IconBlob, error) {
	if filename != "books.png" {
		return nil, common.ErrorNotFound
	}
	return &models.IconBlob{ContentType: "image/png", Data: []byte("png"), CreatedAt: iconTime}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type testEnv struct {
	router     *gin.Engine
	review     *stubReview
	vocabulary *stubVocabulary
	importer   *stubImporter
	phrases    *stubPhrases
	progress   *stubProgress
	books      *stubBooks
	layout     *stubLayout
	icons      *stubIcons
}

func newTestEnv(t *testing.T, pingErr error) *testEnv {
	t.Helper()
	env := &testEnv{
		review:     &stubReview{},
		vocabulary: &stubVocabulary{},
		importer:   &stubImporter{},
		phrases:    &stubPhrases{},
		progress:   &stubProgress{},
		books:      &stubBooks{},
		layout:     &stubLayout{},
		icons:      &stubIcons{},
	}
	logger := logging.NewSlogLogger(slog.New(logging.NewSlogHandler(io.Discard, "text", slog.LevelDebug)))
	env.router = NewRouter(RouterConfig{
		Logger:         logger,
		Cookie:         CookieConfig{Name: testCookie, TTL: time.Hour},
		AllowedOrigins: []string{"http://localhost:3000"},
		Auth:           stubAuth{},
		Review:         env.review,
		Vocabulary:     env.vocabulary,
		Importer:       env.importer,
		Phrases:        env.phrases,
		Progress:       env.progress,
		Books:          env.books,
		Layout:         env.layout,
		Icons:          env.icons,
		DB:             stubPinger{err: pingErr},
	})
	return env
}

// do sends an authenticated request unless token is empty.
func (e *testEnv) do(method, target, token string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

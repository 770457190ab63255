package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/config"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/books"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/icons"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/journal"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/layout"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/phrases"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/syllables"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(i int) *int              { return &i }
func strPtr(s string) *string        { return &s }

// --- users ---

type fakeUsers struct {
	users.Repository
	byName    map[string]*models.User
	getErr    error
	createErr error
}

func (f *fakeUsers) GetUserByName(_ context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = int64(len(f.byName) + 1)
	f.byName[u.UserName] = u
	return u, nil
}

// --- phrases ---

type fakePhrases struct {
	phrases.Repository
	items  []*models.Phrase
	err    error
	marked []int64
}

func (f *fakePhrases) find(userID, id int64) *models.Phrase {
	for _, p := range f.items {
		if p.ID == id && p.UserID == userID {
			return p
		}
	}
	return nil
}

func (f *fakePhrases) Get(_ context.Context, userID, id int64) (*models.Phrase, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p := f.find(userID, id); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakePhrases) List(_ context.Context, userID int64, ready *int) ([]*models.Phrase, error) {
	out := []*models.Phrase{}
	for _, p := range f.items {
		if p.UserID == userID && (ready == nil || p.Ready == *ready) {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakePhrases) Create(_ context.Context, p *models.Phrase) (*models.Phrase, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = int64(len(f.items) + 100)
	p.ReviewState = models.ReviewState{}
	f.items = append(f.items, p)
	return p, nil
}

func (f *fakePhrases) Update(_ context.Context, p *models.Phrase) error {
	cur := f.find(p.UserID, p.ID)
	if cur == nil {
		return common.ErrorNotFound
	}
	cur.Text, cur.Translation = p.Text, p.Translation
	return nil
}

func (f *fakePhrases) SetReady(_ context.Context, userID, id int64, ready int) error {
	p := f.find(userID, id)
	if p == nil {
		return common.ErrorNotFound
	}
	p.Ready = ready
	return nil
}

func (f *fakePhrases) MarkViewed(_ context.Context, userID, id int64, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	p := f.find(userID, id)
	if p == nil {
		return common.ErrorNotFound
	}
	p.ShowCount++
	p.LastView = timePtr(at)
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakePhrases) NextUnlearned(_ context.Context, userID int64) (*models.Phrase, error) {
	var cands []*models.Phrase
	for _, p := range f.items {
		if p.UserID == userID && p.Ready == common.ReadyLearning {
			cands = append(cands, p)
		}
	}
	if len(cands) == 0 {
		return nil, common.ErrorNotFound
	}
	sort.Slice(cands, func(i, j int) bool {
		return lessByView(cands[i].LastView, cands[j].LastView, cands[i].ID, cands[j].ID)
	})
	cp := *cands[0]
	return &cp, nil
}

func (f *fakePhrases) CountViewedBetween(_ context.Context, userID int64, from, to time.Time) (int, error) {
	n := 0
	for _, p := range f.items {
		if p.UserID == userID && p.LastView != nil && !p.LastView.Before(from) && !p.LastView.After(to) {
			n++
		}
	}
	return n, f.err
}

// lessByView orders NULLS FIRST by last view, then by id.
func lessByView(a, b *time.Time, idA, idB int64) bool {
	switch {
	case a == nil && b != nil:
		return true
	case a != nil && b == nil:
		return false
	case a != nil && b != nil && !a.Equal(*b):
		return a.Before(*b)
	}
	return idA < idB
}

// --- syllables ---

type fakeSyllables struct {
	syllables.Repository
	items    []*models.Syllable
	examples []models.Example
	nextExID int64
	lastList syllables.Filter
	words    []string
	exErr    error

	batchLoads int
}

func (f *fakeSyllables) find(userID, id int64) *models.Syllable {
	for _, s := range f.items {
		if s.ID == id && s.UserID == userID {
			return s
		}
	}
	return nil
}

func (f *fakeSyllables) Get(_ context.Context, userID, id int64) (*models.Syllable, error) {
	if s := f.find(userID, id); s != nil {
		cp := *s
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSyllables) GetByWord(_ context.Context, userID int64, word string) (*models.Syllable, error) {
	for _, s := range f.items {
		if s.UserID == userID && s.Word == word {
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSyllables) List(_ context.Context, userID int64, flt syllables.Filter) ([]*models.Syllable, error) {
	f.lastList = flt
	out := []*models.Syllable{}
	for _, s := range f.items {
		if s.UserID == userID && strings.Contains(s.Word, flt.WordPart) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSyllables) FindUnlearnedByWords(_ context.Context, userID int64, words []string) ([]*models.Syllable, error) {
	f.words = words
	set := map[string]bool{}
	for _, w := range words {
		set[w] = true
	}
	out := []*models.Syllable{}
	for _, s := range f.items {
		if s.UserID == userID && s.Ready == 0 && set[strings.ToLower(s.Word)] {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}

func (f *fakeSyllables) Create(_ context.Context, s *models.Syllable) (*models.Syllable, error) {
	for _, cur := range f.items {
		if cur.UserID == s.UserID && cur.Word == s.Word {
			return nil, common.ErrorAlreadyExists
		}
	}
	s.ID = int64(len(f.items) + 1)
	s.ReviewState = models.ReviewState{}
	stored := *s
	stored.Examples = nil
	f.items = append(f.items, &stored)
	return s, nil
}

func (f *fakeSyllables) Update(_ context.Context, s *models.Syllable) error {
	cur := f.find(s.UserID, s.ID)
	if cur == nil {
		return common.ErrorNotFound
	}
	cur.Word, cur.Transcription, cur.Translations, cur.ExamplesText = s.Word, s.Transcription, s.Translations, s.ExamplesText
	return nil
}

func (f *fakeSyllables) SetReady(_ context.Context, userID, id int64, ready int) error {
	s := f.find(userID, id)
	if s == nil {
		return common.ErrorNotFound
	}
	s.Ready = ready
	return nil
}

func (f *fakeSyllables) MarkViewed(_ context.Context, userID, id int64, at time.Time) error {
	s := f.find(userID, id)
	if s == nil {
		return common.ErrorNotFound
	}
	s.ShowCount++
	s.LastView = timePtr(at)
	return nil
}

func (f *fakeSyllables) NextUnlearned(_ context.Context, userID int64) (*models.Syllable, error) {
	var cands []*models.Syllable
	for _, s := range f.items {
		if s.UserID == userID && s.Ready == 0 {
			cands = append(cands, s)
		}
	}
	if len(cands) == 0 {
		return nil, common.ErrorNotFound
	}
	sort.Slice(cands, func(i, j int) bool {
		return lessByView(cands[i].LastView, cands[j].LastView, cands[i].ID, cands[j].ID)
	})
	cp := *cands[0]
	return &cp, nil
}

func (f *fakeSyllables) CountViewedBetween(_ context.Context, userID int64, from, to time.Time) (int, error) {
	n := 0
	for _, s := range f.items {
		if s.UserID == userID && s.LastView != nil && !s.LastView.Before(from) && !s.LastView.After(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeSyllables) ListExamples(_ context.Context, syllableID int64) ([]models.Example, error) {
	out := []models.Example{}
	for _, ex := range f.examples {
		if ex.SyllableID == syllableID {
			out = append(out, ex)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (f *fakeSyllables) ListExamplesFor(ctx context.Context, syllableIDs []int64) (map[int64][]models.Example, error) {
	f.batchLoads++
	if f.exErr != nil {
		return nil, f.exErr
	}
	out := make(map[int64][]models.Example, len(syllableIDs))
	for _, id := range syllableIDs {
		exs, _ := f.ListExamples(ctx, id)
		if len(exs) > 0 {
			out[id] = exs
		}
	}
	return out, nil
}

func (f *fakeSyllables) CreateExample(_ context.Context, ex *models.Example) (*models.Example, error) {
	if f.exErr != nil {
		return nil, f.exErr
	}
	f.nextExID++
	ex.ID = 1000 + f.nextExID
	f.examples = append(f.examples, *ex)
	return ex, nil
}

func (f *fakeSyllables) UpdateExample(_ context.Context, ex *models.Example) error {
	for i := range f.examples {
		if f.examples[i].ID == ex.ID && f.examples[i].SyllableID == ex.SyllableID {
			f.examples[i] = *ex
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeSyllables) DeleteExample(_ context.Context, syllableID, id int64) error {
	for i := range f.examples {
		if f.examples[i].ID == id && f.examples[i].SyllableID == syllableID {
			f.examples = append(f.examples[:i], f.examples[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- books & journal ---

type fakeBooks struct {
	books.Repository
	items     []*models.Book
	sentences []models.Sentence
	stats     []*models.BookStats
	statsFrom time.Time
	statsTo   time.Time
	addErr    error
}

func (f *fakeBooks) find(userID, id int64) *models.Book {
	for _, b := range f.items {
		if b.ID == id && b.UserID == userID {
			return b
		}
	}
	return nil
}

func (f *fakeBooks) Create(_ context.Context, b *models.Book) (*models.Book, error) {
	b.ID = int64(len(f.items) + 1)
	f.items = append(f.items, b)
	return b, nil
}

func (f *fakeBooks) AddSentence(_ context.Context, s *models.Sentence) error {
	if f.addErr != nil {
		return f.addErr
	}
	s.ID = int64(len(f.sentences) + 1)
	f.sentences = append(f.sentences, *s)
	return nil
}

func (f *fakeBooks) Get(_ context.Context, userID, id int64) (*models.Book, error) {
	if b := f.find(userID, id); b != nil {
		return b, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBooks) ParagraphBounds(_ context.Context, userID, id int64) (*models.Bounds, error) {
	if f.find(userID, id) == nil {
		return nil, common.ErrorNotFound
	}
	var b *models.Bounds
	for _, s := range f.sentences {
		if s.BookID != id {
			continue
		}
		if b == nil {
			b = &models.Bounds{Min: s.Paragraph, Max: s.Paragraph}
		}
		b.Min = min(b.Min, s.Paragraph)
		b.Max = max(b.Max, s.Paragraph)
	}
	return b, nil
}

func (f *fakeBooks) UpdatePosition(_ context.Context, userID, id int64, paragraph int, at time.Time) error {
	b := f.find(userID, id)
	if b == nil {
		return common.ErrorNotFound
	}
	b.CurrentParagraph = intPtr(paragraph)
	b.UpdatedAt = timePtr(at)
	return nil
}

func (f *fakeBooks) ListStats(_ context.Context, userID int64, from, to time.Time) ([]*models.BookStats, error) {
	f.statsFrom, f.statsTo = from, to
	out := []*models.BookStats{}
	for _, st := range f.stats {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeBooks) GetStats(ctx context.Context, userID, id int64, from, to time.Time) (*models.BookStats, error) {
	all, _ := f.ListStats(ctx, userID, from, to)
	for _, st := range all {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBooks) LastOpened(_ context.Context, userID int64) (*models.Book, error) {
	var last *models.Book
	for _, b := range f.items {
		if b.UserID != userID || b.UpdatedAt == nil {
			continue
		}
		if last == nil || b.UpdatedAt.After(*last.UpdatedAt) {
			last = b
		}
	}
	if last == nil {
		return nil, common.ErrorNotFound
	}
	return last, nil
}

func (f *fakeBooks) Paragraph(_ context.Context, bookID int64, paragraph int) ([]models.Sentence, error) {
	out := []models.Sentence{}
	for _, s := range f.sentences {
		if s.BookID == bookID && s.Paragraph == paragraph {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeJournal struct {
	journal.Repository
	entries []models.JournalEntry
	err     error
}

func (f *fakeJournal) Append(_ context.Context, e *models.JournalEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *e)
	return nil
}

// --- layout & icons ---

type fakeLayout struct {
	layout.Repository
	page        *models.Page
	rows        []models.Row
	tiles       map[int64][]models.PlacedTile
	transitions []models.Transition
}

func (f *fakeLayout) DefaultPage(_ context.Context, userID int64) (*models.Page, error) {
	if f.page == nil || f.page.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return f.page, nil
}

func (f *fakeLayout) PageRows(_ context.Context, _, _ int64) ([]models.Row, error) {
	return f.rows, nil
}

func (f *fakeLayout) RowTiles(_ context.Context, _, rowID int64) ([]models.PlacedTile, error) {
	return f.tiles[rowID], nil
}

func (f *fakeLayout) AddTransition(_ context.Context, t *models.Transition) error {
	f.transitions = append(f.transitions, *t)
	return nil
}

type fakeIcons struct {
	icons.Repository
	byName    map[string]*models.Icon
	createErr error
}

func (f *fakeIcons) Create(_ context.Context, icon *models.Icon) (*models.Icon, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	icon.ID = int64(len(f.byName) + 1)
	icon.CreatedAt = fixedNow
	f.byName[icon.Filename] = icon
	return icon, nil
}

func (f *fakeIcons) GetByFilename(_ context.Context, filename string) (*models.Icon, error) {
	if icon, ok := f.byName[filename]; ok {
		return icon, nil
	}
	return nil, common.ErrorNotFound
}

// --- manager ---

type fakeRepoManager struct {
	users     *fakeUsers
	phrases   *fakePhrases
	syllables *fakeSyllables
	books     *fakeBooks
	journal   *fakeJournal
	layout    *fakeLayout
	icons     *fakeIcons
}

// newFakeRepoManager seeds two users, alice (1) and bob (2).
func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: &fakeUsers{byName: map[string]*models.User{
			"alice": {ID: 1, UserName: "alice"},
			"bob":   {ID: 2, UserName: "bob"},
		}},
		phrases:   &fakePhrases{},
		syllables: &fakeSyllables{},
		books:     &fakeBooks{},
		journal:   &fakeJournal{},
		layout:    &fakeLayout{tiles: map[int64][]models.PlacedTile{}},
		icons:     &fakeIcons{byName: map[string]*models.Icon{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return m.users }
func (m *fakeRepoManager) Phrases(dbx.DBTX) phrases.Repository        { return m.phrases }
func (m *fakeRepoManager) Syllables(dbx.DBTX) syllables.Repository    { return m.syllables }
func (m *fakeRepoManager) Books(dbx.DBTX) books.Repository            { return m.books }
func (m *fakeRepoManager) Journal(dbx.DBTX) journal.Repository        { return m.journal }
func (m *fakeRepoManager) Layout(dbx.DBTX) layout.Repository          { return m.layout }
func (m *fakeRepoManager) Icons(dbx.DBTX) icons.Repository            { return m.icons }

package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/syllables"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// wordPattern matches word characters of any script plus inner apostrophes
// and hyphens; Tokenize trims those at either end.
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_'-]+`)

// ListQuery selects a page of vocabulary items. A nil Ready lists both
// states; a zero Limit means DefaultListLimit.
type ListQuery struct {
	Ready    *int
	WordPart string
	Offset   int
	Limit    int
}

// VocabularyService manages vocabulary items and their examples.
type VocabularyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewVocabularyService(db *sql.DB, m repomanager.RepositoryManager) *VocabularyService {
	return &VocabularyService{db: db, repomanager: m}
}

func (s *VocabularyService) Get(ctx context.Context, userName string, id int64) (*models.Syllable, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	repo := s.repomanager.Syllables(s.db)
	item, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item.Examples, err = repo.ListExamples(ctx, item.ID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *VocabularyService) List(ctx context.Context, userName string, q ListQuery) ([]*models.Syllable, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	if q.Ready != nil && *q.Ready != common.ReadyLearning && *q.Ready != common.ReadyLearned {
		return nil, fmt.Errorf("%w: ready must be 0 or 1", common.ErrorValidation)
	}
	f := syllables.Filter{
		Ready:    q.Ready,
		WordPart: strings.TrimSpace(q.WordPart),
		Offset:   max(q.Offset, 0),
		Limit:    q.Limit,
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	f.Limit = min(f.Limit, MaxListLimit)

	repo := s.repomanager.Syllables(s.db)
	items, err := repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if err := attachExamples(ctx, repo, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachExamples fills Examples of every item with a single query.
func attachExamples(ctx context.Context, repo syllables.Repository, items []*models.Syllable) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	byItem, err := repo.ListExamplesFor(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		it.Examples = byItem[it.ID]
		if it.Examples == nil {
			it.Examples = []models.Example{}
		}
	}
	return nil
}

// Save creates the item when it has no id and otherwise updates it in
// place. On update the example list is reconciled by id: matching examples
// are updated, missing ones deleted and id-less ones inserted. Review state
// is never changed here.
func (s *VocabularyService) Save(ctx context.Context, userName string, item *models.Syllable) (*models.Syllable, error) {
	item.Word = strings.TrimSpace(item.Word)
	if item.Word == "" {
		return nil, fmt.Errorf("%w: word is required", common.ErrorValidation)
	}
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	item.UserID = userID

	var saved *models.Syllable
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		saved, err = s.save(ctx, s.repomanager.Syllables(tx), item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *VocabularyService) save(ctx context.Context, repo syllables.Repository, item *models.Syllable) (*models.Syllable, error) {
	incoming := item.Examples

	if item.ID == 0 {
		created, err := repo.Create(ctx, item)
		if err != nil {
			return nil, err
		}
		for i := range incoming {
			incoming[i].ID = 0
			incoming[i].SyllableID = created.ID
			if _, err := repo.CreateExample(ctx, &incoming[i]); err != nil {
				return nil, err
			}
		}
		created.Examples = incoming
		return created, nil
	}

	current, err := repo.Get(ctx, item.UserID, item.ID)
	if err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := reconcileExamples(ctx, repo, item.ID, incoming); err != nil {
		return nil, err
	}

	current.Word = item.Word
	current.Transcription = item.Transcription
	current.Translations = item.Translations
	current.ExamplesText = item.ExamplesText
	if current.Examples, err = repo.ListExamples(ctx, item.ID); err != nil {
		return nil, err
	}
	return current, nil
}

func reconcileExamples(ctx context.Context, repo syllables.Repository, syllableID int64, incoming []models.Example) error {
	existing, err := repo.ListExamples(ctx, syllableID)
	if err != nil {
		return err
	}

	stale := make(map[int64]struct{}, len(existing))
	for _, ex := range existing {
		stale[ex.ID] = struct{}{}
	}

	for i := range incoming {
		ex := &incoming[i]
		ex.SyllableID = syllableID
		if ex.ID == 0 {
			if _, err := repo.CreateExample(ctx, ex); err != nil {
				return err
			}
			continue
		}
		if _, ok := stale[ex.ID]; !ok {
			return fmt.Errorf("example %d: %w", ex.ID, common.ErrorNotFound)
		}
		if err := repo.UpdateExample(ctx, ex); err != nil {
			return err
		}
		delete(stale, ex.ID)
	}

	ids := make([]int64, 0, len(stale))
	for id := range stale {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := repo.DeleteExample(ctx, syllableID, id); err != nil {
			return err
		}
	}
	return nil
}

// InText returns the user's unlearned items whose word occurs in text.
// Matching is case-insensitive on whole words.
func (s *VocabularyService) InText(ctx context.Context, userName string, text string) ([]*models.Syllable, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	repo := s.repomanager.Syllables(s.db)
	items, err := repo.FindUnlearnedByWords(ctx, userID, Tokenize(text))
	if err != nil {
		return nil, err
	}
	if err := attachExamples(ctx, repo, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Tokenize returns the distinct lowercased words of text in order of first
// appearance.
func Tokenize(text string) []string {
	matches := wordPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		w := strings.ToLower(strings.TrimFunc(m, isWordEdge))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// isWordEdge reports runes allowed inside a word but not at its ends.
func isWordEdge(r rune) bool {
	return r == '\'' || r == '-'
}

package syllables

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
)

// Filter narrows List. A nil Ready matches both states and an empty
// WordPart matches every word.
type Filter struct {
	Ready    *int
	WordPart string
	Offset   int
	Limit    int
}

type Repository interface {
	Get(ctx context.Context, userID, id int64) (*models.Syllable, error)
	GetByWord(ctx context.Context, userID int64, word string) (*models.Syllable, error)
	List(ctx context.Context, userID int64, f Filter) ([]*models.Syllable, error)
	FindUnlearnedByWords(ctx context.Context, userID int64, words []string) ([]*models.Syllable, error)
	Create(ctx context.Context, s *models.Syllable) (*models.Syllable, error)
	Update(ctx context.Context, s *models.Syllable) error
	SetReady(ctx context.Context, userID, id int64, ready int) error
	MarkViewed(ctx context.Context, userID, id int64, at time.Time) error
	NextUnlearned(ctx context.Context, userID int64) (*models.Syllable, error)
	CountViewedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error)

	ListExamples(ctx context.Context, syllableID int64) ([]models.Example, error)
	ListExamplesFor(ctx context.Context, syllableIDs []int64) (map[int64][]models.Example, error)
	CreateExample(ctx context.Context, ex *models.Example) (*models.Example, error)
	UpdateExample(ctx context.Context, ex *models.Example) error
	DeleteExample(ctx context.Context, syllableID, id int64) error
}

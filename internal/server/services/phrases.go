package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
)

type PhraseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPhraseService(db *sql.DB, m repomanager.RepositoryManager) *PhraseService {
	return &PhraseService{db: db, repomanager: m}
}

func (s *PhraseService) Get(ctx context.Context, userName string, id int64) (*models.Phrase, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Phrases(s.db).Get(ctx, userID, id)
}

func (s *PhraseService) List(ctx context.Context, userName string, ready *int) ([]*models.Phrase, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	if ready != nil && *ready != common.ReadyLearning && *ready != common.ReadyLearned {
		return nil, fmt.Errorf("%w: ready must be 0 or 1", common.ErrorValidation)
	}
	return s.repomanager.Phrases(s.db).List(ctx, userID, ready)
}

// Save creates the phrase when it has no id and otherwise updates its text
// and translation. Review state is left as is.
func (s *PhraseService) Save(ctx context.Context, userName string, p *models.Phrase) (*models.Phrase, error) {
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return nil, fmt.Errorf("%w: phrase is required", common.ErrorValidation)
	}
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	p.UserID = userID

	repo := s.repomanager.Phrases(s.db)
	if p.ID == 0 {
		return repo.Create(ctx, p)
	}
	if err := repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return repo.Get(ctx, userID, p.ID)
}

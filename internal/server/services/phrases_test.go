package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseService(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewPhraseService(db, rm)
	ctx := context.Background()

	created, err := s.Save(ctx, "alice", &models.Phrase{Text: " break a leg ", Translation: "good luck"})
	require.NoError(t, err)
	assert.Equal(t, "break a leg", created.Text)
	assert.Nil(t, created.LastView)

	rm.phrases.find(1, created.ID).ShowCount = 2

	updated, err := s.Save(ctx, "alice", &models.Phrase{ID: created.ID, Text: "break a leg!", Translation: "удачи"})
	require.NoError(t, err)
	assert.Equal(t, "удачи", updated.Translation)
	assert.Equal(t, 2, updated.ShowCount)

	got, err := s.Get(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "break a leg!", got.Text)

	_, err = s.Get(ctx, "bob", created.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Save(ctx, "bob", &models.Phrase{ID: created.ID, Text: "mine now"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Save(ctx, "alice", &models.Phrase{Text: ""})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestPhraseService_List(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.phrases.items = []*models.Phrase{
		{ID: 1, UserID: 1, ReviewState: models.ReviewState{Ready: 1}},
		{ID: 2, UserID: 1},
		{ID: 3, UserID: 2},
	}
	s := NewPhraseService(db, rm)
	ctx := context.Background()

	all, err := s.List(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	learned, err := s.List(ctx, "alice", intPtr(1))
	require.NoError(t, err)
	require.Len(t, learned, 1)
	assert.Equal(t, int64(1), learned[0].ID)

	_, err = s.List(ctx, "alice", intPtr(-1))
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.List(ctx, "mallory", nil)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

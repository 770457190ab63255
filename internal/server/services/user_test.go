package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/cryptox"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap argon2 parameters keep the tests fast
var testHashParams = cryptox.Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 8, KeyLen: 16}

func newTestUserService(t *testing.T) (*UserService, *fakeRepoManager) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewUserService(db, rm, testConfig())
	s.hashParams = testHashParams
	return s, rm
}

func TestResolve(t *testing.T) {
	s, _ := newTestUserService(t)

	id, err := s.Resolve(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	_, err = s.Resolve(context.Background(), "mallory")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestResolve_RepoError(t *testing.T) {
	s, rm := newTestUserService(t)
	rm.users.getErr = errBoom{}

	_, err := s.Resolve(context.Background(), "bob")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, errBoom{})
}

func TestRegisterAndLogin(t *testing.T) {
	s, rm := newTestUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "  carol ", []byte("pa55"))
	require.NoError(t, err)
	assert.Equal(t, "carol", u.UserName)
	assert.NotEmpty(t, u.UUID)
	assert.NotContains(t, rm.users.byName["carol"].PasswordHash, "pa55")

	token, err := s.Login(ctx, "carol", []byte("pa55"))
	require.NoError(t, err)

	name, err := s.UserNameFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "carol", name)
}

func TestRegister_Duplicate(t *testing.T) {
	s, _ := newTestUserService(t)

	_, err := s.Register(context.Background(), "alice", []byte("x"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newTestUserService(t)

	_, err := s.Register(context.Background(), " ", []byte("x"))
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Register(context.Background(), "dave", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRegister_RepoError(t *testing.T) {
	s, rm := newTestUserService(t)
	rm.users.createErr = errBoom{}

	_, err := s.Register(context.Background(), "dave", []byte("x"))
	assert.ErrorContains(t, err, "error creating user")
}

func TestLogin_Failures(t *testing.T) {
	s, rm := newTestUserService(t)
	rm.users.byName["erin"] = &models.User{ID: 5, UserName: "erin", PasswordHash: cryptox.HashPassword([]byte("right"), testHashParams)}
	rm.users.byName["broken"] = &models.User{ID: 6, UserName: "broken", PasswordHash: "not-a-hash"}
	ctx := context.Background()

	_, err := s.Login(ctx, "erin", []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "nobody", []byte("right"))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "broken", []byte("right"))
	assert.ErrorIs(t, err, common.ErrorInternal)

	rm.users.getErr = errBoom{}
	_, err = s.Login(ctx, "erin", []byte("right"))
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestUserNameFromToken_Invalid(t *testing.T) {
	s, _ := newTestUserService(t)

	_, err := s.UserNameFromToken("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

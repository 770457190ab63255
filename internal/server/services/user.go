package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/cryptox"
	"github.com/dmitrijs2005/lingobook/internal/server/auth"
	"github.com/dmitrijs2005/lingobook/internal/server/config"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// UserService is the user directory: it resolves names to ids, registers
// accounts and issues session tokens.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	sessionTTL  time.Duration
	hashParams  cryptox.Params
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		sessionTTL:  cfg.SessionTTL,
		hashParams:  cryptox.DefaultParams,
	}
}

// Resolve returns the id of userName or common.ErrorUnauthorized.
func (s *UserService) Resolve(ctx context.Context, userName string) (int64, error) {
	return resolveUserID(ctx, s.repomanager.Users(s.db), userName)
}

func (s *UserService) Register(ctx context.Context, userName string, password []byte) (*models.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || len(password) == 0 {
		return nil, common.ErrorValidation
	}

	user := &models.User{
		UUID:         uuid.NewString(),
		UserName:     userName,
		PasswordHash: cryptox.HashPassword(password, s.hashParams),
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the password and returns a signed session token. Unknown
// users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName string, password []byte) (string, error) {
	user, err := s.repomanager.Users(s.db).GetUserByName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep timing close to the existing-user path
			_ = cryptox.HashPassword(password, s.hashParams)
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", common.ErrorInternal
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.UserName, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *UserService) UserNameFromToken(token string) (string, error) {
	return auth.GetUserNameFromToken(token, s.jwtSecret)
}

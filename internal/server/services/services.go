// Package services contains server-side business logic. Services hold the
// connection pool and a RepositoryManager; mutations run in a transaction
// through dbx.WithTx with repositories bound to that transaction.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/users"
)

// resolveUserID maps a user name to its id. An unknown name is an
// authorization failure, never a silent no-op.
func resolveUserID(ctx context.Context, repo users.Repository, userName string) (int64, error) {
	if userName == "" {
		return 0, common.ErrorUnauthorized
	}
	u, err := repo.GetUserByName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrorUnauthorized
		}
		return 0, fmt.Errorf("resolve user: %w", err)
	}
	return u.ID, nil
}

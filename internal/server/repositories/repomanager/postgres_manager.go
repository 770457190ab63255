// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/migrations"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/books"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/icons"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/journal"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/layout"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/phrases"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/syllables"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Phrases(db dbx.DBTX) phrases.Repository {
	return phrases.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Syllables(db dbx.DBTX) syllables.Repository {
	return syllables.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Books(db dbx.DBTX) books.Repository {
	return books.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Journal(db dbx.DBTX) journal.Repository {
	return journal.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Layout(db dbx.DBTX) layout.Repository {
	return layout.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Icons(db dbx.DBTX) icons.Repository {
	return icons.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations in order.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lingobook/internal/dbx"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/books"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/icons"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/journal"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/layout"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/phrases"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/syllables"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the pool or an
// open transaction, so services choose the scope of each unit of work.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Phrases(db dbx.DBTX) phrases.Repository
	Syllables(db dbx.DBTX) syllables.Repository
	Books(db dbx.DBTX) books.Repository
	Journal(db dbx.DBTX) journal.Repository
	Layout(db dbx.DBTX) layout.Repository
	Icons(db dbx.DBTX) icons.Repository
}

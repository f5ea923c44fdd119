package repomanager

import (
	"context"
	"database/sql"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/dbx"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/repositories/conversations"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so that services
// can use the same constructors with a *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Conversations(db dbx.DBTX) conversations.Repository
}

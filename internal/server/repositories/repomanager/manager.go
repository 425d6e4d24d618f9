package repomanager

import (
	"context"
	"database/sql"

	"github.com/rlocatelli9/daily-diet-api/internal/dbx"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/meals"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/sessions"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can run
// them either directly on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Meals(db dbx.DBTX) meals.Repository
}

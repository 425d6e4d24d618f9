// Package repomanager hands out the PostgreSQL repositories of the diet
// service and applies the embedded goose schema.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rlocatelli9/daily-diet-api/internal/dbx"
	"github.com/rlocatelli9/daily-diet-api/internal/server/migrations"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/meals"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/sessions"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/users"
)

const (
	gooseDialect  = "pgx"
	versionsTable = "diet_schema_versions"
)

// gooseUpContext is replaced in tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type postgresManager struct{}

// NewPostgresRepositoryManager returns the manager used by the server.
func NewPostgresRepositoryManager() RepositoryManager {
	return postgresManager{}
}

func (postgresManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (postgresManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (postgresManager) Meals(db dbx.DBTX) meals.Repository {
	return meals.NewPostgresRepository(db)
}

// RunMigrations brings the users, meals and sessions tables up to the latest
// embedded version.
func (postgresManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetTableName(versionsTable)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose dialect %q: %w", gooseDialect, err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply diet schema: %w", err)
	}
	return nil
}

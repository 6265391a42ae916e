// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/gastrolog/internal/dbx"
	"github.com/dmitrijs2005/gastrolog/internal/server/migrations"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/safelist"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Logs returns a logs.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Logs(db dbx.DBTX) logs.Repository {
	return logs.NewPostgresRepository(db)
}

// SafeList returns a safelist.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) SafeList(db dbx.DBTX) safelist.Repository {
	return safelist.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
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

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

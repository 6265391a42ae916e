package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/safelist"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db := newDB(t)
	m := NewPostgresRepositoryManager()

	assert.IsType(t, &logs.PostgresRepository{}, m.Logs(db))
	assert.IsType(t, &safelist.PostgresRepository{}, m.SafeList(db))
}

func TestRunMigrations_Success(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom }

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	require.ErrorIs(t, err, boom)
}

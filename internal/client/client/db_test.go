package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "gastrolog.db"))
	require.NoError(t, err)
	defer db.Close()

	require.True(t, tableExists(t, db, "goose_db_version"))
	require.True(t, tableExists(t, db, "kv"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "gastrolog.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "kv"))
}

func TestInitDatabase_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "gastrolog.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('safe_list', '["egg"]')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	var v string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = 'safe_list'`).Scan(&v))
	require.Equal(t, `["egg"]`, v)
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gastrolog/internal/dbx"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/safelist"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// build them over either the pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Logs(db dbx.DBTX) logs.Repository
	SafeList(db dbx.DBTX) safelist.Repository
}

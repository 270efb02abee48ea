package repomanager

import (
	"context"
	"database/sql"

	"github.com/qrfoundry/qrfoundry/internal/dbx"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/entries"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/records"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/scans"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/tokens"
)

// RepositoryManager vends repository implementations for one backend.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Scans(db dbx.DBTX) scans.Repository
	Records(db dbx.DBTX) records.Repository
}

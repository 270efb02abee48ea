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

// MemoryRepositoryManager vends the in-process repositories. The same
// instances are returned on every call so services share state.
type MemoryRepositoryManager struct {
	entries *entries.MemoryRepository
	tokens  *tokens.MemoryRepository
	scans   *scans.MemoryRepository
	records *records.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		entries: entries.NewMemoryRepository(),
		tokens:  tokens.NewMemoryRepository(),
		scans:   scans.NewMemoryRepository(),
		records: records.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return m.entries
}

func (m *MemoryRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return m.tokens
}

func (m *MemoryRepositoryManager) Scans(db dbx.DBTX) scans.Repository {
	return m.scans
}

func (m *MemoryRepositoryManager) Records(db dbx.DBTX) records.Repository {
	return m.records
}

// Package records provides read access to the application records
// Value-mode entries reference.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/dbx"
)

// PostgresRepository reads record fields from the records table, where
// each row stores its fields as a jsonb document.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetField returns the named field of the record as text, verbatim.
// A missing record yields common.ErrorNotFound; a missing field yields
// an empty string.
func (r *PostgresRepository) GetField(ctx context.Context, recordType, recordID, field string) (string, error) {
	query := `SELECT COALESCE(data ->> $3, '') FROM records WHERE record_type = $1 AND record_id = $2`
	var value string
	err := r.db.QueryRowContext(ctx, query, recordType, recordID, field).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

// Exists reports whether the (type, id) record is present.
func (r *PostgresRepository) Exists(ctx context.Context, recordType, recordID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM records WHERE record_type = $1 AND record_id = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, recordType, recordID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

// Package entries provides repositories for logical entry persistence.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/dbx"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `id, mode, link_type, custom_route, target_url, target_type, target_id, target_action,
		source_type, source_id, source_field, manual_content, label_text, computed_content, created_at, updated_at`

// Create inserts a new entry, assigning an ID when none is set.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	query := `
		INSERT INTO entries (id, mode, link_type, custom_route, target_url, target_type, target_id, target_action,
			source_type, source_id, source_field, manual_content, label_text, computed_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.Mode, entry.LinkType, entry.CustomRoute, entry.TargetURL,
		entry.TargetType, entry.TargetID, entry.TargetAction,
		entry.SourceType, entry.SourceID, entry.SourceField,
		entry.ManualContent, entry.LabelText, entry.ComputedContent,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// Get returns the entry with the given ID, or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByTarget returns the URL-mode entry pointing at the given record,
// or common.ErrorNotFound. Used by the find-or-create generation flow.
func (r *PostgresRepository) FindByTarget(ctx context.Context, targetType, targetID string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE mode = 'URL' AND target_type = $1 AND target_id = $2
		ORDER BY created_at LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, targetType, targetID))
}

// UpdateComputedContent persists the derived content field.
func (r *PostgresRepository) UpdateComputedContent(ctx context.Context, id string, content string) error {
	query := `UPDATE entries SET computed_content = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Entry, error) {
	e := &models.Entry{}
	err := row.Scan(
		&e.ID, &e.Mode, &e.LinkType, &e.CustomRoute, &e.TargetURL,
		&e.TargetType, &e.TargetID, &e.TargetAction,
		&e.SourceType, &e.SourceID, &e.SourceField,
		&e.ManualContent, &e.LabelText, &e.ComputedContent,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

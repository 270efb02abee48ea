// Package tokens provides repositories for resolver token persistence,
// including the conditional-write consume that closes the concurrent
// use-count race.
package tokens

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

// PostgresRepository implements token storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tokenColumns = `id, entry_id, token, destination, status, expires_on, max_uses, use_count, rate_limit_per_min, last_used_on, created_at`

// Create inserts a new token, assigning an ID when none is set.
func (r *PostgresRepository) Create(ctx context.Context, token *models.Token) (*models.Token, error) {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	query := `
		INSERT INTO tokens (id, entry_id, token, destination, status, expires_on, max_uses, use_count, rate_limit_per_min)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		token.ID, token.EntryID, token.Token, token.Destination, token.Status,
		token.ExpiresOn, token.MaxUses, token.UseCount, token.RateLimitPerMin,
	).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// GetByID returns the token with the given ID, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByToken returns the token with the given token string. The token
// column carries a unique index, so this is an O(1) lookup.
func (r *PostgresRepository) GetByToken(ctx context.Context, tokenString string) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE token = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tokenString))
}

// LatestActive returns the most recently created Active token for the
// entry, or common.ErrorNotFound.
func (r *PostgresRepository) LatestActive(ctx context.Context, entryID string) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens
		WHERE entry_id = $1 AND status = 'Active'
		ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, entryID))
}

// ConsumeUse is the atomic consume: a single UPDATE whose predicate
// re-checks status, use cap and expiry in-store. Two concurrent calls
// against a token with one remaining use cannot both pass the predicate,
// which is the property a read-then-write sequence would violate.
func (r *PostgresRepository) ConsumeUse(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		UPDATE tokens
		SET use_count = use_count + 1, last_used_on = $2
		WHERE id = $1
		  AND status = 'Active'
		  AND (max_uses = 0 OR use_count < max_uses)
		  AND (expires_on IS NULL OR expires_on > $2)
	`
	res, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// SetStatus updates a token's lifecycle status.
func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.TokenStatus) error {
	query := `UPDATE tokens SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
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

// RevokeAllActive flips every Active token of the entry to Revoked and
// returns how many rows changed.
func (r *PostgresRepository) RevokeAllActive(ctx context.Context, entryID string) (int, error) {
	query := `UPDATE tokens SET status = 'Revoked' WHERE entry_id = $1 AND status = 'Active'`
	res, err := r.db.ExecContext(ctx, query, entryID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return int(n), nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Token, error) {
	t := &models.Token{}
	err := row.Scan(
		&t.ID, &t.EntryID, &t.Token, &t.Destination, &t.Status,
		&t.ExpiresOn, &t.MaxUses, &t.UseCount, &t.RateLimitPerMin,
		&t.LastUsedOn, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

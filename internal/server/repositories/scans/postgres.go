// Package scans provides repositories for the append-only scan audit
// trail.
package scans

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/qrfoundry/qrfoundry/internal/dbx"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// PostgresRepository implements scan log storage over a dbx.DBTX.
// Appends are plain single-row inserts: writes for different tokens
// never serialize against one another.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts one scan record. The display sequence is derived from
// a bigserial number, formatted YYYYMM-number for human sorting.
func (r *PostgresRepository) Append(ctx context.Context, rec *models.ScanRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	query := `
		INSERT INTO scan_logs (id, token_id, token_hash, scanned_at, caller, ip, user_agent, referer, resolved_url, result, use_count_at_scan)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING number
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.TokenID, rec.TokenHash, rec.ScannedAt, rec.User,
		rec.IP, rec.UserAgent, rec.Referer, rec.ResolvedURL, rec.Result, rec.UseCountAtScan,
	).Scan(&rec.Number)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rec.Seq = fmt.Sprintf("%s-%06d", rec.ScannedAt.Format("200601"), rec.Number)
	return nil
}

// ListByToken returns up to limit records for the token, newest first.
func (r *PostgresRepository) ListByToken(ctx context.Context, tokenID string, limit int) ([]*models.ScanRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, number, token_id, token_hash, scanned_at, caller, ip, user_agent, referer, resolved_url, result, use_count_at_scan
		FROM scan_logs
		WHERE token_id = $1
		ORDER BY scanned_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, tokenID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ScanRecord
	for rows.Next() {
		var rec models.ScanRecord
		if err := rows.Scan(
			&rec.ID, &rec.Number, &rec.TokenID, &rec.TokenHash, &rec.ScannedAt,
			&rec.User, &rec.IP, &rec.UserAgent, &rec.Referer, &rec.ResolvedURL,
			&rec.Result, &rec.UseCountAtScan,
		); err != nil {
			return nil, err
		}
		rec.Seq = fmt.Sprintf("%s-%06d", rec.ScannedAt.Format("200601"), rec.Number)
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

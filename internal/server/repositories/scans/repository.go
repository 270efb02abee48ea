package scans

import (
	"context"

	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// Repository appends and queries the scan audit trail. Append assigns
// the record's display sequence; records are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, rec *models.ScanRecord) error
	ListByToken(ctx context.Context, tokenID string, limit int) ([]*models.ScanRecord, error)
}

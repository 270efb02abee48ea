package entries

import (
	"context"

	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// Repository persists logical entries. UpdateComputedContent is the only
// write the encoding resolver performs: exactly one field update per
// successful compute call.
type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Get(ctx context.Context, id string) (*models.Entry, error)
	FindByTarget(ctx context.Context, targetType, targetID string) (*models.Entry, error)
	UpdateComputedContent(ctx context.Context, id string, content string) error
}

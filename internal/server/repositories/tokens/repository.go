package tokens

import (
	"context"
	"time"

	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// Repository persists resolver tokens. ConsumeUse is the only mutation
// of use_count and must be a single conditional write: it increments the
// counter and stamps last_used_on only if the row is still Active, under
// its use cap and unexpired at the moment of the write. It reports false
// when the predicate rejected the row (lost race, exhausted, expired or
// no longer active) without distinguishing why; callers re-read and
// classify.
type Repository interface {
	Create(ctx context.Context, token *models.Token) (*models.Token, error)
	GetByID(ctx context.Context, id string) (*models.Token, error)
	GetByToken(ctx context.Context, tokenString string) (*models.Token, error)
	LatestActive(ctx context.Context, entryID string) (*models.Token, error)
	ConsumeUse(ctx context.Context, id string, now time.Time) (bool, error)
	SetStatus(ctx context.Context, id string, status models.TokenStatus) error
	RevokeAllActive(ctx context.Context, entryID string) (int, error)
}

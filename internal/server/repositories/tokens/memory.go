package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-process Repository. ConsumeUse
// performs its check-and-increment under the lock, preserving the same
// at-most-N guarantee the postgres predicate provides.
type MemoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*models.Token
	byToken map[string]string // token string -> id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.Token),
		byToken: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, token *models.Token) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	token.CreatedAt = time.Now().UTC()
	cp := *token
	r.byID[token.ID] = &cp
	r.byToken[token.Token] = token.ID
	return token, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryRepository) GetByToken(ctx context.Context, tokenString string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byToken[tokenString]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *MemoryRepository) LatestActive(ctx context.Context, entryID string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Token
	for _, t := range r.byID {
		if t.EntryID != entryID || t.Status != models.TokenActive {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, common.ErrorNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *MemoryRepository) ConsumeUse(ctx context.Context, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if !t.Usable(now) {
		return false, nil
	}
	t.UseCount++
	used := now
	t.LastUsedOn = &used
	return true, nil
}

func (r *MemoryRepository) SetStatus(ctx context.Context, id string, status models.TokenStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	t.Status = status
	return nil
}

func (r *MemoryRepository) RevokeAllActive(ctx context.Context, entryID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.byID {
		if t.EntryID == entryID && t.Status == models.TokenActive {
			t.Status = models.TokenRevoked
			n++
		}
	}
	return n, nil
}

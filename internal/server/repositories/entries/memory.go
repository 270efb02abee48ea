package entries

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-process Repository used by
// tests and the in-memory repository manager.
type MemoryRepository struct {
	mu      sync.Mutex
	entries map[string]*models.Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]*models.Entry)}
}

func (r *MemoryRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	cp := *entry
	r.entries[entry.ID] = &cp
	return entry, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *MemoryRepository) FindByTarget(ctx context.Context, targetType, targetID string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *models.Entry
	for _, e := range r.entries {
		if e.Mode != models.ModeURL || e.TargetType != targetType || e.TargetID != targetID {
			continue
		}
		if found == nil || e.CreatedAt.Before(found.CreatedAt) {
			found = e
		}
	}
	if found == nil {
		return nil, common.ErrorNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *MemoryRepository) UpdateComputedContent(ctx context.Context, id string, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return common.ErrorNotFound
	}
	e.ComputedContent = content
	e.UpdatedAt = time.Now().UTC()
	return nil
}

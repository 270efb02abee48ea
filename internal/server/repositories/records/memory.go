package records

import (
	"context"
	"sync"

	"github.com/qrfoundry/qrfoundry/internal/common"
)

// MemoryRepository is a mutex-guarded in-process record store keyed by
// (type, id).
type MemoryRepository struct {
	mu   sync.Mutex
	recs map[[2]string]map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{recs: make(map[[2]string]map[string]string)}
}

// Put stores or replaces a record's fields. Test helper.
func (r *MemoryRepository) Put(recordType, recordID string, fields map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	r.recs[[2]string{recordType, recordID}] = cp
}

func (r *MemoryRepository) GetField(ctx context.Context, recordType, recordID, field string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[[2]string{recordType, recordID}]
	if !ok {
		return "", common.ErrorNotFound
	}
	return rec[field], nil
}

func (r *MemoryRepository) Exists(ctx context.Context, recordType, recordID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.recs[[2]string{recordType, recordID}]
	return ok, nil
}

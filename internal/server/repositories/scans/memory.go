package scans

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-process scan log.
type MemoryRepository struct {
	mu   sync.Mutex
	next int64
	recs []*models.ScanRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(ctx context.Context, rec *models.ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.next++
	rec.Number = r.next
	rec.Seq = fmt.Sprintf("%s-%06d", rec.ScannedAt.Format("200601"), rec.Number)
	cp := *rec
	r.recs = append(r.recs, &cp)
	return nil
}

func (r *MemoryRepository) ListByToken(ctx context.Context, tokenID string, limit int) ([]*models.ScanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	var result []*models.ScanRecord
	for i := len(r.recs) - 1; i >= 0 && len(result) < limit; i-- {
		if r.recs[i].TokenID == tokenID {
			cp := *r.recs[i]
			result = append(result, &cp)
		}
	}
	return result, nil
}

// All returns a copy of every record, oldest first. Test helper.
func (r *MemoryRepository) All() []*models.ScanRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.ScanRecord, 0, len(r.recs))
	for _, rec := range r.recs {
		cp := *rec
		out = append(out, &cp)
	}
	return out
}

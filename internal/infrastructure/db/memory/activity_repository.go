package memory

import (
	"context"
	"sync"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// ActivityRepository implements ports.ActivityRepository in memory.
type ActivityRepository struct {
	mu      sync.RWMutex
	entries []domain.Activity
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Insert(_ context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = newID()
	r.entries = append(r.entries, *a)
	return nil
}

func (r *ActivityRepository) ListByEngineer(_ context.Context, engineerID string, limit int) ([]*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Activity{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if r.entries[i].EngineerID == engineerID {
			a := r.entries[i]
			out = append(out, &a)
		}
	}
	return out, nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// EngineerRepository implements ports.EngineerRepository in memory.
type EngineerRepository struct {
	mu        sync.RWMutex
	engineers map[string]*domain.Engineer
}

func NewEngineerRepository() *EngineerRepository {
	return &EngineerRepository{engineers: make(map[string]*domain.Engineer)}
}

func (r *EngineerRepository) Create(_ context.Context, e *domain.Engineer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	e.ID = newID()
	e.CreatedAt = now
	e.UpdatedAt = now

	stored := *e
	r.engineers[e.ID] = &stored
	return nil
}

// FindAll returns every engineer in insertion order.
func (r *EngineerRepository) FindAll(_ context.Context) ([]*domain.Engineer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Engineer, 0, len(r.engineers))
	for _, e := range r.engineers {
		c := *e
		out = append(out, &c)
	}
	sortByID(out)
	return out, nil
}

func (r *EngineerRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.Engineer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Engineer, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if e, ok := r.engineers[id]; ok {
			c := *e
			out = append(out, &c)
		}
	}
	sortByID(out)
	return out, nil
}

func (r *EngineerRepository) FindByID(_ context.Context, id string) (*domain.Engineer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engineers[id]
	if !validID(id) || !ok {
		return nil, domain.ErrEngineerNotFound
	}
	c := *e
	return &c, nil
}

func (r *EngineerRepository) Update(_ context.Context, id string, patch domain.EngineerPatch) (*domain.Engineer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.engineers[id]
	if !validID(id) || !ok {
		return nil, domain.ErrEngineerNotFound
	}
	patch.Apply(e)
	e.UpdatedAt = time.Now().UTC()

	c := *e
	return &c, nil
}

func (r *EngineerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engineers[id]; !validID(id) || !ok {
		return domain.ErrEngineerNotFound
	}
	delete(r.engineers, id)
	return nil
}

// ObjectID hex strings sort by creation time.
func sortByID(list []*domain.Engineer) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}

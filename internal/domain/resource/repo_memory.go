package resource

import (
	"context"
	"fmt"
	"sync"
)

type memoryRepo struct {
	mu    sync.RWMutex
	items []Resource
	byID  map[string]int
}

// NewMemoryRepo indexes resources in directory order. Duplicate ids are rejected.
func NewMemoryRepo(resources []Resource) (Repository, error) {
	r := &memoryRepo{
		items: make([]Resource, len(resources)),
		byID:  make(map[string]int, len(resources)),
	}
	copy(r.items, resources)
	for i, res := range r.items {
		if _, dup := r.byID[res.ID]; dup {
			return nil, fmt.Errorf("duplicate resource id %q", res.ID)
		}
		r.byID[res.ID] = i
	}
	return r, nil
}

func (r *memoryRepo) List(_ context.Context) ([]Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Resource, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	res := r.items[i]
	return &res, nil
}

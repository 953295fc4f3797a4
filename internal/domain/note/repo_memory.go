package note

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/casework/casework/pkg/pagination"
)

type memoryRepo struct {
	mu    sync.RWMutex
	notes map[string]*Note
	seq   map[string]int
	next  int
}

func NewMemoryRepo() Repository {
	return &memoryRepo{notes: make(map[string]*Note), seq: make(map[string]int)}
}

func (r *memoryRepo) Create(_ context.Context, n *Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if _, dup := r.notes[n.ID]; dup {
		return fmt.Errorf("note %q already exists", n.ID)
	}
	cp := *n
	r.notes[n.ID] = &cp
	r.seq[n.ID] = r.next
	r.next++
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *memoryRepo) Update(_ context.Context, n *Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[n.ID]; !ok {
		return ErrNotFound
	}
	cp := *n
	r.notes[n.ID] = &cp
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id]; !ok {
		return ErrNotFound
	}
	delete(r.notes, id)
	delete(r.seq, id)
	return nil
}

// List orders by created_at descending, breaking ties newest insert first.
func (r *memoryRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]*Note, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Note
	for _, n := range r.notes {
		if f.ClientID != "" && (n.ClientID == nil || *n.ClientID != f.ClientID) {
			continue
		}
		cp := *n
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return r.seq[items[i].ID] > r.seq[items[j].ID]
	})
	return pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset}), len(items), nil
}

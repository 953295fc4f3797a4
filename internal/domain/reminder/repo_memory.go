package reminder

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
	items []*Reminder
}

func NewMemoryRepo() Repository {
	return &memoryRepo{}
}

func (m *memoryRepo) find(id string) int {
	for i, r := range m.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (m *memoryRepo) Create(_ context.Context, r *Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if m.find(r.ID) >= 0 {
		return fmt.Errorf("reminder %q already exists", r.ID)
	}
	cp := clone(r)
	m.items = append(m.items, cp)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.find(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return clone(m.items[i]), nil
}

func (m *memoryRepo) Update(_ context.Context, r *Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(r.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.items[i] = clone(r)
	return nil
}

func (m *memoryRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Reminder, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f = f.normalized()
	var out []*Reminder
	for _, r := range m.items {
		if f.matches(r) {
			out = append(out, clone(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return pagination.Slice(out, pagination.Params{Limit: limit, Offset: offset}), len(out), nil
}

func clone(r *Reminder) *Reminder {
	cp := *r
	if r.RelatedTo != nil {
		rel := *r.RelatedTo
		cp.RelatedTo = &rel
	}
	if r.Description != nil {
		d := *r.Description
		cp.Description = &d
	}
	return &cp
}

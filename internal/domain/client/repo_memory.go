package client

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/casework/casework/pkg/pagination"
)

type memoryRepo struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewMemoryRepo() Repository {
	return &memoryRepo{clients: make(map[string]*Client)}
}

func (r *memoryRepo) Create(_ context.Context, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, dup := r.clients[c.ID]; dup {
		return fmt.Errorf("client %q already exists", c.ID)
	}
	r.clients[c.ID] = clone(c)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (r *memoryRepo) Search(_ context.Context, query string, limit, offset int) ([]*Client, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// A blank query lists everyone; otherwise it matches as typed.
	active := strings.TrimSpace(query) != ""
	q := strings.ToLower(query)
	var out []*Client
	for _, c := range r.clients {
		if !active || matches(c, q) {
			out = append(out, clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return pagination.Slice(out, pagination.Params{Limit: limit, Offset: offset}), len(out), nil
}

func matches(c *Client, q string) bool {
	if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Gender), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func clone(c *Client) *Client {
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	return &cp
}

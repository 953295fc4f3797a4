package resource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-redis/redis/v8"
)

type memoryFavorites struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

func NewMemoryFavorites() FavoriteStore {
	return &memoryFavorites{sets: make(map[string]map[string]struct{})}
}

func (m *memoryFavorites) Toggle(_ context.Context, userID, resourceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[userID]
	if !ok {
		set = make(map[string]struct{})
		m.sets[userID] = set
	}
	if _, fav := set[resourceID]; fav {
		delete(set, resourceID)
		return false, nil
	}
	set[resourceID] = struct{}{}
	return true, nil
}

func (m *memoryFavorites) IsFavorite(_ context.Context, userID, resourceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sets[userID][resourceID]
	return ok, nil
}

func (m *memoryFavorites) List(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sets[userID]))
	for id := range m.sets[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// redisCmdable is the subset of *redis.Client the favorites store needs.
type redisCmdable interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

type redisFavorites struct {
	c redisCmdable
}

// NewRedisFavorites stores each user's favorites in the set casework:favorites:<user>.
func NewRedisFavorites(c redisCmdable) FavoriteStore {
	return &redisFavorites{c: c}
}

func favoritesKey(userID string) string {
	return "casework:favorites:" + userID
}

// Toggle adds first and removes only when SADD reports the member was already present.
func (r *redisFavorites) Toggle(ctx context.Context, userID, resourceID string) (bool, error) {
	key := favoritesKey(userID)
	added, err := r.c.SAdd(ctx, key, resourceID).Result()
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	if added == 1 {
		return true, nil
	}
	if err := r.c.SRem(ctx, key, resourceID).Err(); err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return false, nil
}

func (r *redisFavorites) IsFavorite(ctx context.Context, userID, resourceID string) (bool, error) {
	ok, err := r.c.SIsMember(ctx, favoritesKey(userID), resourceID).Result()
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return ok, nil
}

func (r *redisFavorites) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.c.SMembers(ctx, favoritesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

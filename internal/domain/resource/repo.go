package resource

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("resource not found")

// Repository serves the resource directory. Resources are reference data
// loaded at startup, so the interface is read-only.
type Repository interface {
	List(ctx context.Context) ([]Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
}

// FavoriteStore keeps each user's set of favorite resource ids.
type FavoriteStore interface {
	// Toggle flips membership and reports whether the resource is now a favorite.
	Toggle(ctx context.Context, userID, resourceID string) (bool, error)
	IsFavorite(ctx context.Context, userID, resourceID string) (bool, error)
	List(ctx context.Context, userID string) ([]string, error)
}

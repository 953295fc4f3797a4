package note

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("note not found")

// Repository stores notes. List orders by created_at descending; limit <= 0
// returns every match.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id string) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Note, int, error)
}

package reminder

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("reminder not found")

// Repository stores reminders. List orders by due date ascending; limit <= 0
// returns every match.
type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	GetByID(ctx context.Context, id string) (*Reminder, error)
	Update(ctx context.Context, r *Reminder) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Reminder, int, error)
}

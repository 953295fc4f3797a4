package client

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("client not found")

// Repository stores clients. Search matches name, tags and gender
// case-insensitively; a blank query lists everyone ordered by name.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Client, int, error)
}

package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casework/casework/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const clientCols = `id, name, age, gender, tags, last_contact`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Age, &c.Gender, &c.Tags, &c.LastContact)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan client: %w", err)
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO client (id, name, age, gender, tags, last_contact)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Name, c.Age, c.Gender, c.Tags, c.LastContact)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Client, error) {
	return scanClient(r.conn(ctx).QueryRow(ctx, `SELECT `+clientCols+` FROM client WHERE id = $1`, id))
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Client, int, error) {
	where := ""
	args := []interface{}{}
	if strings.TrimSpace(query) != "" {
		where = ` WHERE name ILIKE $1 OR gender ILIKE $1
			OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE $1)`
		args = append(args, "%"+escapeLike(query)+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM client`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	var lim interface{}
	if limit > 0 {
		lim = limit
	}
	n := len(args)
	query = fmt.Sprintf(`SELECT %s FROM client%s ORDER BY lower(name), id LIMIT $%d OFFSET $%d`,
		clientCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, lim, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()

	items := []*Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

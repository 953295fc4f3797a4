package note

import (
	"context"
	"errors"
	"fmt"

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

const noteCols = `id, client_id, title, content, purpose, intervention, follow_up,
	created_at, updated_at, encrypted`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.ClientID, &n.Title, &n.Content, &n.Purpose,
		&n.Intervention, &n.FollowUp, &n.CreatedAt, &n.UpdatedAt, &n.Encrypted)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO case_note (id, client_id, title, content, purpose, intervention,
			follow_up, created_at, updated_at, encrypted)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		n.ID, n.ClientID, n.Title, n.Content, n.Purpose, n.Intervention,
		n.FollowUp, n.CreatedAt, n.UpdatedAt, n.Encrypted)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Note, error) {
	return scanNote(r.conn(ctx).QueryRow(ctx, `SELECT `+noteCols+` FROM case_note WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, n *Note) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE case_note SET content=$2, purpose=$3, intervention=$4, follow_up=$5,
			encrypted=$6, updated_at=$7
		WHERE id = $1`,
		n.ID, n.Content, n.Purpose, n.Intervention, n.FollowUp, n.Encrypted, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM case_note WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Note, int, error) {
	where := ""
	args := []interface{}{}
	if f.ClientID != "" {
		where = " WHERE client_id = $1"
		args = append(args, f.ClientID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM case_note`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	// LIMIT NULL is unbounded.
	var lim interface{}
	if limit > 0 {
		lim = limit
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM case_note%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		noteCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, lim, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	items := []*Note{}
	for rows.Next() {
		item, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

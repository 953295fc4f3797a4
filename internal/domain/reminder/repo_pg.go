package reminder

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

const reminderCols = `id, title, description, due_date, completed, priority,
	related_type, related_id, related_name, created_at`

func scanReminder(row pgx.Row) (*Reminder, error) {
	var rem Reminder
	var priority string
	var relType, relID, relName *string
	err := row.Scan(&rem.ID, &rem.Title, &rem.Description, &rem.DueDate, &rem.Completed,
		&priority, &relType, &relID, &relName, &rem.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan reminder: %w", err)
	}
	rem.Priority = Priority(priority)
	if relType != nil {
		rem.RelatedTo = &RelatedTo{Type: RelatedType(*relType)}
		if relID != nil {
			rem.RelatedTo.ID = *relID
		}
		if relName != nil {
			rem.RelatedTo.Name = *relName
		}
	}
	return &rem, nil
}

func relatedArgs(rem *Reminder) (relType, relID, relName *string) {
	if rem.RelatedTo == nil {
		return nil, nil, nil
	}
	t := string(rem.RelatedTo.Type)
	return &t, &rem.RelatedTo.ID, &rem.RelatedTo.Name
}

func (r *repoPG) Create(ctx context.Context, rem *Reminder) error {
	if rem.ID == "" {
		rem.ID = uuid.NewString()
	}
	relType, relID, relName := relatedArgs(rem)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO reminder (id, title, description, due_date, completed, priority,
			related_type, related_id, related_name, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rem.ID, rem.Title, rem.Description, rem.DueDate, rem.Completed, string(rem.Priority),
		relType, relID, relName, rem.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Reminder, error) {
	return scanReminder(r.conn(ctx).QueryRow(ctx, `SELECT `+reminderCols+` FROM reminder WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rem *Reminder) error {
	relType, relID, relName := relatedArgs(rem)
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE reminder SET title=$2, description=$3, due_date=$4, completed=$5, priority=$6,
			related_type=$7, related_id=$8, related_name=$9
		WHERE id = $1`,
		rem.ID, rem.Title, rem.Description, rem.DueDate, rem.Completed, string(rem.Priority),
		relType, relID, relName)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Reminder, int, error) {
	f = f.normalized()
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.RelatedType != "" {
		add("related_type = $%d", string(f.RelatedType))
	}
	if f.RelatedID != "" {
		add("related_id = $%d", f.RelatedID)
	}
	if f.Completed != nil {
		add("completed = $%d", *f.Completed)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM reminder`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reminders: %w", err)
	}

	var lim interface{}
	if limit > 0 {
		lim = limit
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM reminder%s ORDER BY due_date ASC, created_at ASC LIMIT $%d OFFSET $%d`,
		reminderCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, lim, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	items := []*Reminder{}
	for rows.Next() {
		item, err := scanReminder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

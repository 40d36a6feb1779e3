package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dom "github.com/seowalex/cvwo/internal/domain"
	"github.com/seowalex/cvwo/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, owner_id, title, description, completed, priority, position, due_date, tag_list, created_at, updated_at`

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var (
		t        dom.Task
		priority *int16
		due      *time.Time
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed,
		&priority, &t.Position, &due, &t.TagList, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	if priority != nil {
		p := int(*priority)
		t.Priority = &p
	}
	t.DueDate = dom.DatePtr(due)
	if t.TagList == nil {
		t.TagList = []string{}
	}
	return t, nil
}

func writeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if constraint, ok := utils.UniqueViolation(err); ok {
		return fmt.Errorf("%s: %s: %w", op, constraint, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func priorityArg(p *int) *int16 {
	if p == nil {
		return nil
	}
	v := int16(*p)
	return &v
}

func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r *PGTaskRepo) ListByOwner(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY position, id`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	list := []dom.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`
	t, err := scanTask(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return dom.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, err
}

func (r *PGTaskRepo) PositionBounds(ctx context.Context, ownerID int64) (int, int, bool, error) {
	var lo, hi *int
	err := r.db.QueryRow(ctx,
		`SELECT MIN(position), MAX(position) FROM tasks WHERE owner_id = $1 AND deleted_at IS NULL`,
		ownerID,
	).Scan(&lo, &hi)
	if err != nil {
		return 0, 0, false, fmt.Errorf("position bounds: %w", err)
	}
	if lo == nil || hi == nil {
		return 0, 0, false, nil
	}
	return *lo, *hi, true, nil
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (owner_id, title, description, completed, priority, position, due_date, tag_list)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRow(ctx, query, t.OwnerID, t.Title, t.Description, t.Completed,
		priorityArg(t.Priority), t.Position, t.DueDate.TimePtr(), tagsArg(t.TagList)))
	if err != nil {
		return dom.Task{}, writeErr("create task", err)
	}
	return out, nil
}

func (r *PGTaskRepo) Update(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET title = $3, description = $4, completed = $5, priority = $6,
			position = $7, due_date = $8, tag_list = $9, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRow(ctx, query, t.ID, t.OwnerID, t.Title, t.Description, t.Completed,
		priorityArg(t.Priority), t.Position, t.DueDate.TimePtr(), tagsArg(t.TagList)))
	if err != nil {
		return dom.Task{}, writeErr("update task", err)
	}
	return out, nil
}

func (r *PGTaskRepo) SoftDelete(ctx context.Context, ownerID, id int64) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET deleted_at = $3, updated_at = $3 WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`,
		id, ownerID, now)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

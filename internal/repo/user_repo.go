package repo

import (
	"context"
	"errors"
	"fmt"

	dom "github.com/seowalex/cvwo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, name, password_hash, hide_completed, add_to_bottom, default_sort, created_at`

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func scanUser(row pgx.Row) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.Settings.HideCompleted, &u.Settings.AddToBottom, &u.Settings.Sort, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}

// GetByEmail returns the user by email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return dom.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, err
}

// GetByID returns the user by id.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return dom.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, err
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, hide_completed, add_to_bottom, default_sort)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	out, err := scanUser(r.db.QueryRow(ctx, query, u.Email, u.Name, u.PasswordHash,
		u.Settings.HideCompleted, u.Settings.AddToBottom, u.Settings.Sort))
	if err != nil {
		return dom.User{}, writeErr("create user", err)
	}
	return out, nil
}

// Update stores the user's name and settings.
func (r *PGUserRepo) Update(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		UPDATE users SET name = $2, hide_completed = $3, add_to_bottom = $4, default_sort = $5
		WHERE id = $1
		RETURNING ` + userColumns
	out, err := scanUser(r.db.QueryRow(ctx, query, u.ID, u.Name,
		u.Settings.HideCompleted, u.Settings.AddToBottom, u.Settings.Sort))
	if err != nil {
		return dom.User{}, writeErr("update user", err)
	}
	return out, nil
}

package repo

import (
	"context"
	"errors"

	dom "github.com/seowalex/cvwo/internal/domain"
)

var (
	// ErrNotFound is returned when no live row matches, including rows of
	// another owner.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

// TaskRepo is owner-scoped task storage. Every method takes the owner id and
// never reads or writes rows of another owner.
type TaskRepo interface {
	// ListByOwner returns the owner's live tasks ordered by position.
	ListByOwner(ctx context.Context, ownerID int64) ([]dom.Task, error)
	GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error)
	// PositionBounds returns the lowest and highest position in use;
	// ok is false when the owner has no tasks.
	PositionBounds(ctx context.Context, ownerID int64) (lo, hi int, ok bool, err error)
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	// Update overwrites the mutable attributes of t.ID owned by t.OwnerID.
	Update(ctx context.Context, t dom.Task) (dom.Task, error)
	SoftDelete(ctx context.Context, ownerID, id int64) error
}

// UserRepo provides user persistence.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
	// Update overwrites name and settings.
	Update(ctx context.Context, u dom.User) (dom.User, error)
}

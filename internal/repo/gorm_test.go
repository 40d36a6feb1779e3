package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dom "github.com/seowalex/cvwo/internal/domain"
)

// setupTestDB opens a fresh in-memory SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, users *GormUserRepo, email string) dom.User {
	t.Helper()
	u, err := users.Create(context.Background(), dom.User{Email: email, PasswordHash: "x"})
	require.NoError(t, err)
	return u
}

func TestGormUserRepo(t *testing.T) {
	ctx := context.Background()
	users := NewGormUserRepo(setupTestDB(t))

	alice := createUser(t, users, "alice@example.com")
	assert.NotZero(t, alice.ID)

	_, err := users.Create(ctx, dom.User{Email: "alice@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	alice.Name = "Alice"
	alice.Settings = dom.Settings{HideCompleted: true, AddToBottom: true, Sort: "-priority"}
	updated, err := users.Update(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, alice.Settings, updated.Settings)

	_, err = users.Update(ctx, dom.User{ID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormTaskRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewGormUserRepo(db)
	tasks := NewGormTaskRepo(db)
	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	due := dom.NewDate(2024, time.January, 1)
	prio := 2
	created, err := tasks.Create(ctx, dom.Task{
		OwnerID:  alice.ID,
		Title:    "Call of Cthulhu",
		Priority: &prio,
		Position: 1,
		DueDate:  &due,
		TagList:  []string{"horror", "mythos"},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := tasks.GetByID(ctx, alice.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call of Cthulhu", got.Title)
	assert.Equal(t, []string{"horror", "mythos"}, got.TagList)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2024-01-01", got.DueDate.String())
	require.NotNil(t, got.Priority)
	assert.Equal(t, 2, *got.Priority)

	_, err = tasks.GetByID(ctx, bob.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "other owners must not see the task")
}

func TestGormTaskRepo_PositionUniquePerOwner(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewGormUserRepo(db)
	tasks := NewGormTaskRepo(db)
	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	_, err := tasks.Create(ctx, dom.Task{OwnerID: alice.ID, Title: "a", Position: 1})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, dom.Task{OwnerID: alice.ID, Title: "b", Position: 1})
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = tasks.Create(ctx, dom.Task{OwnerID: bob.ID, Title: "c", Position: 1})
	assert.NoError(t, err)
}

func TestGormTaskRepo_ListBoundsUpdateDelete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewGormUserRepo(db)
	tasks := NewGormTaskRepo(db)
	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	_, _, ok, err := tasks.PositionBounds(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	for i, pos := range []int{5, -2, 3} {
		_, err := tasks.Create(ctx, dom.Task{OwnerID: alice.ID, Title: string(rune('a' + i)), Position: pos})
		require.NoError(t, err)
	}
	_, err = tasks.Create(ctx, dom.Task{OwnerID: bob.ID, Title: "bob", Position: 100})
	require.NoError(t, err)

	list, err := tasks.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{-2, 3, 5}, []int{list[0].Position, list[1].Position, list[2].Position})

	lo, hi, ok, err := tasks.PositionBounds(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -2, lo)
	assert.Equal(t, 5, hi)

	task := list[0]
	task.Title = "renamed"
	task.Completed = true
	task.Priority = nil
	task.TagList = []string{"x"}
	updated, err := tasks.Update(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.Completed)
	assert.Equal(t, []string{"x"}, updated.TagList)

	task.OwnerID = bob.ID
	_, err = tasks.Update(ctx, task)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, tasks.SoftDelete(ctx, bob.ID, task.ID), ErrNotFound)
	require.NoError(t, tasks.SoftDelete(ctx, alice.ID, task.ID))
	assert.ErrorIs(t, tasks.SoftDelete(ctx, alice.ID, task.ID), ErrNotFound)

	list, err = tasks.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// The deleted task's position is free again.
	_, err = tasks.Create(ctx, dom.Task{OwnerID: alice.ID, Title: "reuse", Position: -2})
	assert.NoError(t, err)
}

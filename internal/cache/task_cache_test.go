package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/seowalex/cvwo/internal/domain"
)

func setupTestCache(t *testing.T) (*TaskCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTaskCache(rdb, time.Minute), mr
}

func TestTaskCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)

	list, err := c.GetList(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, list, "miss")

	gen, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, gen)

	due := dom.NewDate(2024, time.February, 29)
	prio := 1
	want := []dom.Task{{ID: 3, OwnerID: 1, Title: "Dagon", Priority: &prio, DueDate: &due, TagList: []string{"sea"}}}
	stored, err := c.SetList(ctx, 1, gen, want)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists("tasks:owner:{1}"))
	assert.Equal(t, time.Minute, mr.TTL("tasks:owner:{1}"))

	got, err := c.GetList(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dagon", got[0].Title)
	assert.Equal(t, "2024-02-29", got[0].DueDate.String())
	assert.Equal(t, 1, *got[0].Priority)

	other, err := c.GetList(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, other, "entries are per owner")

	require.NoError(t, c.Invalidate(ctx, 1))
	got, err = c.GetList(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	gen, err = c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestTaskCache_EmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	c, _ := setupTestCache(t)

	_, err := c.SetList(ctx, 5, 0, nil)
	require.NoError(t, err)
	got, err := c.GetList(ctx, 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTaskCache_SetListAfterWriteIsDiscarded(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)

	gen, err := c.Generation(ctx, 7)
	require.NoError(t, err)

	// A write lands between reading the generation and storing the list.
	require.NoError(t, c.Invalidate(ctx, 7))

	stored, err := c.SetList(ctx, 7, gen, []dom.Task{{ID: 1, OwnerID: 7, Title: "stale"}})
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("tasks:owner:{7}"))

	gen, err = c.Generation(ctx, 7)
	require.NoError(t, err)
	stored, err = c.SetList(ctx, 7, gen, []dom.Task{{ID: 1, OwnerID: 7, Title: "fresh"}})
	require.NoError(t, err)
	assert.True(t, stored)
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "github.com/seowalex/cvwo/internal/domain"

	"github.com/redis/go-redis/v9"
)

// The braces keep an owner's list and generation in one cluster slot.
func listKey(ownerID int64) string {
	return "tasks:owner:{" + strconv.FormatInt(ownerID, 10) + "}"
}

func genKey(ownerID int64) string {
	return listKey(ownerID) + ":gen"
}

// setIfGen stores the list only while the generation still matches ARGV[1].
var setIfGen = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// TaskCache caches each owner's full task list in Redis. Filtering and
// sorting run on the cached snapshot, so one entry per owner covers every
// query.
//
// Every write bumps the owner's generation. A snapshot is stored only if the
// generation read before loading it is still current, so a load that raced
// with a write never lands in the cache.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// Generation returns the owner's current write generation, 0 if never written.
func (c *TaskCache) Generation(ctx context.Context, ownerID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList returns the cached list, or nil on a miss. An owner without tasks
// is cached as an empty, non-nil list.
func (c *TaskCache) GetList(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []dom.Task{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores a list loaded at generation gen. It reports false when a
// write happened since and the list was discarded.
func (c *TaskCache) SetList(ctx context.Context, ownerID, gen int64, list []dom.Task) (bool, error) {
	if list == nil {
		list = []dom.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return false, err
	}
	stored, err := setIfGen.Run(ctx, c.rdb,
		[]string{genKey(ownerID), listKey(ownerID)},
		strconv.FormatInt(gen, 10), b, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// Invalidate bumps the owner's generation and drops the cached list.
func (c *TaskCache) Invalidate(ctx context.Context, ownerID int64) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(ownerID))
		pipe.Del(ctx, listKey(ownerID))
		return nil
	})
	return err
}

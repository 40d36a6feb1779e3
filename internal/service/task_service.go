package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/seowalex/cvwo/internal/cache"
	dom "github.com/seowalex/cvwo/internal/domain"
	"github.com/seowalex/cvwo/internal/query"
	"github.com/seowalex/cvwo/internal/repo"

	"golang.org/x/sync/singleflight"
)

// TaskService implements the owner-scoped task operations. Every method
// takes the owner id of the resolved identity; ownership is part of every
// lookup, so another owner's task is reported as ErrNotFound.
type TaskService struct {
	repo  repo.TaskRepo
	users repo.UserRepo
	cache *cache.TaskCache
	sf    singleflight.Group
	log   *slog.Logger
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, users repo.UserRepo, c *cache.TaskCache, log *slog.Logger) *TaskService {
	return &TaskService{repo: r, users: users, cache: c, log: log}
}

// List returns the owner's tasks filtered and ordered by p. Without sort
// fields the owner's saved default sort applies.
func (s *TaskService) List(ctx context.Context, ownerID int64, p query.Params) ([]dom.Task, error) {
	if len(p.Sort) == 0 {
		p.Sort = s.defaultSort(ctx, ownerID)
	}
	tasks, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return query.Apply(tasks, p), nil
}

func (s *TaskService) defaultSort(ctx context.Context, ownerID int64) []query.SortField {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.log.WarnContext(ctx, "load default sort", "owner_id", ownerID, "err", err)
		}
		return nil
	}
	fields, err := query.ParseSort("sort", u.Settings.Sort)
	if err != nil {
		s.log.WarnContext(ctx, "ignoring saved sort", "owner_id", ownerID, "sort", u.Settings.Sort, "err", err)
		return nil
	}
	return fields
}

// snapshot loads the owner's full task list, through the cache when enabled.
// The returned slice is shared and must not be modified.
//
// Loads are coalesced per owner and write generation, so a request that
// starts after a write never joins a load that began before it.
func (s *TaskService) snapshot(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	if s.cache == nil {
		return s.repo.ListByOwner(ctx, ownerID)
	}
	gen, err := s.cache.Generation(ctx, ownerID)
	if err != nil {
		s.log.WarnContext(ctx, "task cache generation", "owner_id", ownerID, "err", err)
		return s.repo.ListByOwner(ctx, ownerID)
	}

	key := strconv.FormatInt(ownerID, 10) + "@" + strconv.FormatInt(gen, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// Shared by every waiter; one caller going away must not fail the rest.
		ctx := context.WithoutCancel(ctx)

		list, err := s.cache.GetList(ctx, ownerID)
		if err != nil {
			s.log.WarnContext(ctx, "task cache read", "owner_id", ownerID, "err", err)
		}
		if list != nil {
			return list, nil
		}
		list, err = s.repo.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		stored, err := s.cache.SetList(ctx, ownerID, gen, list)
		if err != nil {
			s.log.WarnContext(ctx, "task cache write", "owner_id", ownerID, "err", err)
		} else if !stored {
			s.log.DebugContext(ctx, "task cache write skipped, tasks changed during load", "owner_id", ownerID)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Create stores a new task for the owner. Without an explicit position the
// task goes after the owner's last task when the owner's settings ask for
// it, and before the first one otherwise.
func (s *TaskService) Create(ctx context.Context, ownerID int64, in dom.NewTask) (dom.Task, error) {
	if err := in.Validate(); err != nil {
		return dom.Task{}, err
	}

	position := 0
	if in.Position != nil {
		position = *in.Position
	} else {
		p, err := s.nextPosition(ctx, ownerID)
		if err != nil {
			return dom.Task{}, err
		}
		position = p
	}

	t, err := s.repo.Create(ctx, dom.Task{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Completed:   in.Completed,
		Priority:    in.Priority,
		Position:    position,
		DueDate:     in.DueDate,
		TagList:     dom.NormalizeTags(in.TagList),
	})
	if err != nil {
		return dom.Task{}, positionErr(err)
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

func (s *TaskService) nextPosition(ctx context.Context, ownerID int64) (int, error) {
	lo, hi, ok, err := s.repo.PositionBounds(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	if u.Settings.AddToBottom {
		return hi + 1, nil
	}
	return lo - 1, nil
}

// Update applies a partial update. A tag list in the patch replaces the
// task's whole tag set.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, patch dom.TaskPatch) (dom.Task, error) {
	if err := patch.Validate(); err != nil {
		return dom.Task{}, err
	}
	existing, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return dom.Task{}, err
	}
	t, err := s.repo.Update(ctx, patch.Apply(existing))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, positionErr(err)
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.SoftDelete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, ownerID)
	return nil
}

// The only unique constraint on tasks is (owner_id, position).
func positionErr(err error) error {
	if errors.Is(err, repo.ErrDuplicate) {
		return dom.NewFieldError("position", "is already taken by another task")
	}
	return err
}

func (s *TaskService) invalidateCache(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ownerID); err != nil {
			s.log.WarnContext(ctx, "task cache invalidate", "owner_id", ownerID, "err", err)
		}
	}
}

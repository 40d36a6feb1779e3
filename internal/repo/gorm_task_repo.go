package repo

import (
	"context"
	"time"

	dom "github.com/seowalex/cvwo/internal/domain"

	"gorm.io/gorm"
)

// GormTaskRepo implements TaskRepo with gorm, used with SQLite.
type GormTaskRepo struct {
	db *gorm.DB
}

func NewGormTaskRepo(db *gorm.DB) *GormTaskRepo {
	return &GormTaskRepo{db: db}
}

func (r *GormTaskRepo) ListByOwner(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	var recs []taskRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("position").Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, gormErr("list tasks", err)
	}
	list := make([]dom.Task, len(recs))
	for i := range recs {
		list[i] = recs[i].toDomain()
	}
	return list, nil
}

func (r *GormTaskRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	var rec taskRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&rec).Error
	if err != nil {
		return dom.Task{}, gormErr("get task", err)
	}
	return rec.toDomain(), nil
}

func (r *GormTaskRepo) PositionBounds(ctx context.Context, ownerID int64) (int, int, bool, error) {
	var bounds struct {
		Lo *int
		Hi *int
	}
	err := r.db.WithContext(ctx).Model(&taskRecord{}).
		Select("MIN(position) AS lo, MAX(position) AS hi").
		Where("owner_id = ?", ownerID).
		Scan(&bounds).Error
	if err != nil {
		return 0, 0, false, gormErr("position bounds", err)
	}
	if bounds.Lo == nil || bounds.Hi == nil {
		return 0, 0, false, nil
	}
	return *bounds.Lo, *bounds.Hi, true, nil
}

func (r *GormTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	rec := taskToRecord(t)
	rec.ID = 0
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return dom.Task{}, gormErr("create task", err)
	}
	return rec.toDomain(), nil
}

func (r *GormTaskRepo) Update(ctx context.Context, t dom.Task) (dom.Task, error) {
	rec := taskToRecord(t)
	rec.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&taskRecord{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Select("title", "description", "completed", "priority", "position", "due_date", "tag_list", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		return dom.Task{}, gormErr("update task", res.Error)
	}
	if res.RowsAffected == 0 {
		return dom.Task{}, ErrNotFound
	}
	return r.GetByID(ctx, t.OwnerID, t.ID)
}

func (r *GormTaskRepo) SoftDelete(ctx context.Context, ownerID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&taskRecord{})
	if res.Error != nil {
		return gormErr("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

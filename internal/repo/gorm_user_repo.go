package repo

import (
	"context"

	dom "github.com/seowalex/cvwo/internal/domain"

	"gorm.io/gorm"
)

// GormUserRepo implements UserRepo with gorm, used with SQLite.
type GormUserRepo struct {
	db *gorm.DB
}

func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{db: db}
}

func (r *GormUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		return dom.User{}, gormErr("get user by email", err)
	}
	return rec.toDomain(), nil
}

func (r *GormUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return dom.User{}, gormErr("get user", err)
	}
	return rec.toDomain(), nil
}

func (r *GormUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	rec := userRecord{
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  u.PasswordHash,
		HideCompleted: u.Settings.HideCompleted,
		AddToBottom:   u.Settings.AddToBottom,
		DefaultSort:   u.Settings.Sort,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return dom.User{}, gormErr("create user", err)
	}
	return rec.toDomain(), nil
}

func (r *GormUserRepo) Update(ctx context.Context, u dom.User) (dom.User, error) {
	res := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ?", u.ID).
		Select("name", "hide_completed", "add_to_bottom", "default_sort").
		Updates(&userRecord{
			Name:          u.Name,
			HideCompleted: u.Settings.HideCompleted,
			AddToBottom:   u.Settings.AddToBottom,
			DefaultSort:   u.Settings.Sort,
		})
	if res.Error != nil {
		return dom.User{}, gormErr("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return dom.User{}, ErrNotFound
	}
	return r.GetByID(ctx, u.ID)
}

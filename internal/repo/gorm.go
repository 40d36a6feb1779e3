package repo

import (
	"errors"
	"fmt"
	"time"

	dom "github.com/seowalex/cvwo/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// taskRecord is the gorm model of the tasks table.
type taskRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64  `gorm:"not null;uniqueIndex:idx_tasks_owner_position,where:deleted_at IS NULL"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null;default:''"`
	Completed   bool   `gorm:"not null;default:false"`
	Priority    *int
	Position    int      `gorm:"not null;uniqueIndex:idx_tasks_owner_position,where:deleted_at IS NULL"`
	DueDate     *time.Time
	TagList     []string `gorm:"serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (taskRecord) TableName() string { return "tasks" }

// userRecord is the gorm model of the users table.
type userRecord struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Email         string `gorm:"not null;uniqueIndex"`
	Name          string `gorm:"not null;default:''"`
	PasswordHash  string `gorm:"not null"`
	HideCompleted bool   `gorm:"not null;default:false"`
	AddToBottom   bool   `gorm:"not null;default:false"`
	DefaultSort   string `gorm:"not null;default:''"`
	CreatedAt     time.Time
}

func (userRecord) TableName() string { return "users" }

// OpenSQLite opens a SQLite database through gorm and migrates the schema.
// path may be ":memory:". SQLite serialises writers, so a single connection
// is used, which also keeps an in-memory database alive across queries.
func OpenSQLite(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&userRecord{}, &taskRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return db, nil
}

func gormErr(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (r taskRecord) toDomain() dom.Task {
	tags := r.TagList
	if tags == nil {
		tags = []string{}
	}
	return dom.Task{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    r.Priority,
		Position:    r.Position,
		DueDate:     dom.DatePtr(r.DueDate),
		TagList:     tags,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func taskToRecord(t dom.Task) taskRecord {
	tags := t.TagList
	if tags == nil {
		tags = []string{}
	}
	return taskRecord{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		Position:    t.Position,
		DueDate:     t.DueDate.TimePtr(),
		TagList:     tags,
	}
}

func (r userRecord) toDomain() dom.User {
	return dom.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Settings: dom.Settings{
			HideCompleted: r.HideCompleted,
			AddToBottom:   r.AddToBottom,
			Sort:          r.DefaultSort,
		},
		CreatedAt: r.CreatedAt,
	}
}

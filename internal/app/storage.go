package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seowalex/cvwo/internal/config"
	"github.com/seowalex/cvwo/internal/repo"

	"gorm.io/gorm/logger"
)

// Storage bundles the repositories of the configured driver.
type Storage struct {
	Tasks repo.TaskRepo
	Users repo.UserRepo
	close func()
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects to Postgres (running migrations) or opens SQLite,
// depending on cfg.DB.Driver.
func OpenStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (*Storage, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := newPostgres(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(cfg.DB.DSN); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("storage ready", "driver", cfg.DB.Driver)
		return &Storage{
			Tasks: repo.NewPGTaskRepo(pool),
			Users: repo.NewPGUserRepo(pool),
			close: pool.Close,
		}, nil
	case config.DriverSQLite:
		level := logger.Warn
		if cfg.App.Env == "dev" {
			level = logger.Info
		}
		db, err := repo.OpenSQLite(cfg.DB.SQLitePath, level)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		log.Info("storage ready", "driver", cfg.DB.Driver, "path", cfg.DB.SQLitePath)
		return &Storage{
			Tasks: repo.NewGormTaskRepo(db),
			Users: repo.NewGormUserRepo(db),
			close: func() { _ = sqlDB.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
}

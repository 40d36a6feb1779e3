// Command seed fills the configured database with two demo users and
// twenty random tasks each. Re-running it leaves existing users alone.
package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/seowalex/cvwo/internal/app"
	"github.com/seowalex/cvwo/internal/config"
	dom "github.com/seowalex/cvwo/internal/domain"
	"github.com/seowalex/cvwo/internal/logging"
	"github.com/seowalex/cvwo/internal/service"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	demoPassword = "password"
	tasksPerUser = 20
)

var demoUsers = []struct{ email, name string }{
	{"alice@example.com", "Alice"},
	{"bob@example.com", "Bob"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error", "text").Error("config", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.App.LogLevel, cfg.App.LogFormat)
	ctx := context.Background()

	storage, err := app.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Error("open storage", "err", err)
		os.Exit(1)
	}
	defer storage.Close()

	users := service.NewUserService(storage.Users)
	tasks := service.NewTaskService(storage.Tasks, storage.Users, nil, log)
	faker := gofakeit.New(0)

	for _, du := range demoUsers {
		u, err := users.Register(ctx, du.email, demoPassword, du.name)
		if errors.Is(err, service.ErrEmailTaken) {
			log.Info("user exists, skipping", "email", du.email)
			continue
		}
		if err != nil {
			log.Error("register", "email", du.email, "err", err)
			os.Exit(1)
		}

		positions := make([]int, tasksPerUser)
		for i := range positions {
			positions[i] = i + 1
		}
		faker.ShuffleInts(positions)

		for _, pos := range positions {
			if _, err := tasks.Create(ctx, u.ID, randomTask(faker, pos)); err != nil {
				log.Error("create task", "email", du.email, "err", err)
				os.Exit(1)
			}
		}
		log.Info("seeded user", "email", du.email, "tasks", tasksPerUser)
	}
}

func randomTask(f *gofakeit.Faker, position int) dom.NewTask {
	priority := f.IntRange(dom.PriorityHigh, dom.PriorityLow)
	now := time.Now()
	due := dom.DateOf(f.DateRange(now.AddDate(0, -1, 0), now.AddDate(0, 2, 0)))

	tags := make([]string, f.IntRange(1, 3))
	for i := range tags {
		tags[i] = strings.ToLower(f.Noun())
	}

	return dom.NewTask{
		Title:       strings.TrimSuffix(f.Sentence(f.IntRange(3, 6)), "."),
		Description: f.Paragraph(1, 3, 8, " "),
		Completed:   f.Bool(),
		Priority:    &priority,
		Position:    &position,
		DueDate:     &due,
		TagList:     tags,
	}
}

// @title           cvwo tasks API
// @version         1.0
// @description     Personal task manager: JSON:API task resources with search, tags and sorting.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seowalex/cvwo/internal/app"
	"github.com/seowalex/cvwo/internal/config"
	"github.com/seowalex/cvwo/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error", "text").Error("config", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.App.LogLevel, cfg.App.LogFormat)
	log.Info("config loaded", "env", cfg.App.Env, "db_driver", cfg.DB.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("app init", "err", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		log.Error("http server", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	if err := application.Close(shutdownCtx); err != nil {
		log.Error("app close", "err", err)
	}
}

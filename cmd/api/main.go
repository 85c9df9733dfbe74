package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nickcheng/taskapp-backend/internal/api"
	"github.com/nickcheng/taskapp-backend/internal/auth"
	"github.com/nickcheng/taskapp-backend/internal/config"
	"github.com/nickcheng/taskapp-backend/internal/db"
	"github.com/nickcheng/taskapp-backend/internal/logger"
	"github.com/nickcheng/taskapp-backend/internal/mailer"
	"github.com/nickcheng/taskapp-backend/internal/metrics"
	"github.com/nickcheng/taskapp-backend/internal/middleware"
	"github.com/nickcheng/taskapp-backend/internal/repository/postgres"
	"github.com/nickcheng/taskapp-backend/internal/services"
	"github.com/nickcheng/taskapp-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret)
	mail := mailer.New(cfg.SendgridAPIKey, cfg.MailFrom)

	userSvc := services.NewUserService(repos.Users, repos.Tasks, tm, mail, wp)
	taskSvc := services.NewTaskService(repos.Tasks, wp)
	gate := middleware.NewAuthMiddleware(tm, repos.Users)

	metrics.Init()
	r := api.NewRouter(cfg, userSvc, taskSvc, gate)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

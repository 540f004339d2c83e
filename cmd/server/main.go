package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/lmittmann/tint"

	"learnsync-go/config"
	"learnsync-go/internal/achievement"
	"learnsync-go/internal/auth"
	"learnsync-go/internal/library"
	"learnsync-go/internal/notification"
	"learnsync-go/internal/progress"
	"learnsync-go/internal/server"
	"learnsync-go/internal/youtube"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := runMigrations(cfg); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	mailer, err := notification.NewSMTPMailer(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	pusher := notification.NewWebPusher(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)

	notificationStore := notification.NewPostgresStore(db)
	dispatcher := notification.NewDispatcher(notificationStore, mailer, pusher, cfg.AppBaseURL, logger)
	notificationHandler := notification.NewHandler(notificationStore, dispatcher)

	achievementStore := achievement.NewPostgresStore(db)
	achievementService := achievement.NewService(achievementStore, dispatcher, logger)

	progressStore := progress.NewPostgresStore(db)
	progressService := progress.NewService(progressStore, achievementService, logger)
	progressHandler := progress.NewHandler(progressService)

	libraryStore := library.NewPostgresStore(db)
	libraryService := library.NewService(libraryStore, youtube.NewClient(cfg.YouTubeAPIKey), logger)
	libraryHandler := library.NewHandler(libraryService)

	authService := auth.NewService(db, []byte(cfg.JWTSecret), cfg.JWTExpiration)
	authHandler := auth.NewHandler(authService)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: server.New(
			authService, authHandler, libraryHandler,
			progressHandler, notificationHandler,
			cfg.CronSecret, logger,
		).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(environment string) *slog.Logger {
	if environment == "development" {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

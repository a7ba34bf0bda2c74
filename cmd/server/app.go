package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dlourenco/taskman/internal/api"
	"github.com/dlourenco/taskman/internal/api/middleware"
	"github.com/dlourenco/taskman/internal/config"
	"github.com/dlourenco/taskman/internal/notification"
	"github.com/dlourenco/taskman/internal/platform/logger"
	"github.com/dlourenco/taskman/internal/platform/postgres"
	"github.com/dlourenco/taskman/internal/service"
	"github.com/dlourenco/taskman/internal/service/auth"
	"github.com/dlourenco/taskman/internal/store"
	"github.com/dlourenco/taskman/migrations"
)

const shutdownTimeout = 10 * time.Second

// application holds the wired dependency graph for the server process.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	router http.Handler
}

// newApplication loads configuration and wires every layer: database,
// stores, services, handlers, and the router.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	userStore := postgres.NewUserStore(db, log)
	sessionStore := postgres.NewSessionStore(db, log)
	taskStore := postgres.NewTaskStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	hasher := auth.NewBcryptHasher()

	var notifier notification.Notifier
	if cfg.Mail.SendGridAPIKey != "" {
		notifier = notification.NewSendGridNotifier(cfg.Mail.SendGridAPIKey, cfg.Mail.FromAddress, log)
	} else {
		log.Info("no mail API key configured, account emails disabled")
		notifier = notification.NewNopNotifier(log)
	}

	userService := service.NewUserService(
		store.NewSQLTxRunner(db),
		userStore, sessionStore, taskStore,
		jwtService, hasher, hasher, notifier, log,
	)
	taskService := service.NewTaskService(taskStore, log)

	router := api.NewRouter(api.RouterDeps{
		UserHandler: api.NewUserHandler(userService, log),
		TaskHandler: api.NewTaskHandler(taskService, log),
		AuthMw:      middleware.NewAuthMiddleware(jwtService, sessionStore, userStore),
	})

	return &application{
		cfg:    cfg,
		logger: log,
		db:     db,
		router: router,
	}, nil
}

// Migrate applies any pending embedded migrations.
func (a *application) Migrate() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(a.db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	a.logger.Info("database migrations up to date")
	return nil
}

// Run serves HTTP until the context is canceled or a termination signal
// arrives, then shuts down gracefully.
func (a *application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", slog.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Close releases the application's resources.
func (a *application) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

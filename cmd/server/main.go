// Command noteboard-server starts the noteboard HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avolkhin/noteboard/internal/config"
	"github.com/avolkhin/noteboard/internal/limiter"
	"github.com/avolkhin/noteboard/internal/migrate"
	"github.com/avolkhin/noteboard/internal/repository/postgres"
	"github.com/avolkhin/noteboard/internal/server/httpapi"
	"github.com/avolkhin/noteboard/internal/service"
	"github.com/avolkhin/noteboard/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves the HTTP API
// until interrupted.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Address),
		zap.String("env", cfg.Env),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// A broken store link at startup is fatal; never serve without it.
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	noteRepo := postgres.NewNoteRepo(db)

	lim := limiter.NewPGWithQuerier(db.Pool, 15*time.Minute, 5, 15*time.Minute)

	// Services
	codec, err := token.NewCodec([]byte(cfg.JWTKey), cfg.TokenTTL)
	if err != nil {
		logger.Fatal("token codec", zap.Error(err))
	}
	authSvc := service.NewAuthService(userRepo, codec, lim)
	noteSvc := service.NewNoteService(noteRepo, userRepo)

	api := httpapi.New(authSvc, noteSvc, codec, httpapi.BootstrapCreds{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	}, cfg.IsProduction(), logger)

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}

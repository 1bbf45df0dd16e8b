package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kriedko/tastepulse/internal/app"
	"github.com/kriedko/tastepulse/internal/auth"
	"github.com/kriedko/tastepulse/internal/config"
	"github.com/kriedko/tastepulse/internal/logging"
	"github.com/kriedko/tastepulse/internal/server"
	"github.com/kriedko/tastepulse/internal/store"
	"github.com/kriedko/tastepulse/internal/stream"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(srv *server.Server, closeStore func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		closeStore()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "backend", cfg.StoreBackend)

	openCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	submissionStore, closeStore, err := store.Open(openCtx, cfg, clock)
	cancel()
	if err != nil {
		slog.Error("Failed to open submission store", "error", err)
		os.Exit(1)
	}

	appSvc := app.NewService(submissionStore, clock)
	authSvc := auth.NewService(cfg.SessionSecret, cfg.AdminUser, cfg.AdminPass, cfg.AdminToken, cfg.SessionMaxAge, clock)
	notifier := stream.NewNotifier(appSvc, clock, cfg.StreamPollInterval, cfg.StreamPingInterval, cfg.StreamMaxLifetime, slog.Default())

	srv := server.NewServer(cfg, appSvc, authSvc, notifier, clock)

	done := runGracefulShutdown(srv, closeStore)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

package main

import (
	"AdminAPI/internal/config"
	"AdminAPI/internal/db"
	"AdminAPI/internal/endpoint"
	"AdminAPI/internal/handler"
	"AdminAPI/internal/logger"
	"AdminAPI/internal/resolver"
	"AdminAPI/internal/router"
	"AdminAPI/internal/store"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := initLogger(cfg); err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	// PostgreSQL
	if err := db.InitPostgres(cfg.PostgresDSN); err != nil {
		logger.Error("postgres_init_failed", map[string]any{"error": err.Error()})
		return err
	}
	defer db.ClosePostgres()
	logger.Info("postgres_connected", nil)

	// Redis is optional; the in-process cache still applies without it.
	if err := db.InitRedis(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis_unreachable", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
	} else if db.RDB != nil {
		if err := flushCache(ctx); err != nil {
			logger.Warn("cache_flush_failed", map[string]any{"error": err.Error()})
		}
	}
	defer db.CloseRedis()

	endpoints, err := endpoint.LoadDir(cfg.EndpointsDir)
	if err != nil {
		logger.Error("registry_init_failed", map[string]any{"error": err.Error()})
		return err
	}
	logger.Info("endpoints_initialized", map[string]any{"endpoints": endpoints.Names()})

	st := store.NewCached(store.NewPostgres(db.Pool, cfg.FetchCap), db.RDB, cfg.Cache.TTL, cfg.Cache.LocalMaxBytes)
	h := handler.New(resolver.New(endpoints, st))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(h, cfg.CORS),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() {
		logger.Info("server_start", map[string]any{"port": cfg.Port})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", map[string]any{"error": err.Error()})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server_stopped", nil)
	return nil
}

// flushCache drops collections cached by a previous process.
func flushCache(ctx context.Context) error {
	return store.Flush(ctx, db.RDB)
}

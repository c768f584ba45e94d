package main

import (
	"AdminAPI/internal/config"
	"AdminAPI/internal/db"
	"AdminAPI/internal/logger"
	"AdminAPI/internal/resolver"
	"AdminAPI/internal/store"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "adminapi",
	Short: "Read-only list, export and stats API over JSON document collections",
	Long: `AdminAPI serves filtered, searched, sorted and paginated views of document
collections stored in Postgres. Endpoints are declared as YAML files.

Examples:
  # Apply pending migrations, then serve
  adminapi migrate
  adminapi serve -d

  # Try a query against a local JSON file
  adminapi run --endpoint persons --data persons.json --query "status=active&sortBy=-age"`,
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations from MIGRATIONS_DIR",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := initLogger(cfg); err != nil {
			return err
		}
		return db.Migrate(cfg.PostgresDSN, cfg.MigrationsDir)
	},
}

var flushCacheCmd = &cobra.Command{
	Use:   "flush-cache",
	Short: "Drop cached collections from Redis",
	Long: `flush-cache removes every cached collection from Redis, or only one collection
of one tenant when --collection is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := initLogger(cfg); err != nil {
			return err
		}
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is not set")
		}
		if err := db.InitRedis(cmd.Context(), cfg.RedisAddr); err != nil {
			return err
		}
		defer db.CloseRedis()
		if flushCollection != "" {
			if err := store.Evict(cmd.Context(), db.RDB, flushTenant, flushCollection); err != nil {
				return err
			}
			logger.Info("cache_evicted", map[string]any{"tenant": flushTenant, "collection": flushCollection})
			return nil
		}
		if err := flushCache(cmd.Context()); err != nil {
			return err
		}
		logger.Info("cache_flushed", nil)
		return nil
	},
}

var (
	flushTenant     string
	flushCollection string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	flushCacheCmd.Flags().StringVar(&flushTenant, "tenant", resolver.DefaultTenant, "tenant of --collection")
	flushCacheCmd.Flags().StringVar(&flushCollection, "collection", "", "evict only this collection")
	rootCmd.AddCommand(serveCmd, migrateCmd, flushCacheCmd, runCmd)
}

func initLogger(cfg *config.Config) error {
	if err := logger.Init(cfg.LogDir); err != nil {
		return fmt.Errorf("log init failed: %w", err)
	}
	logger.SetDebug(debug)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

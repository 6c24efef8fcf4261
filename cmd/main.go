package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/team-manager/config"
	"github.com/Dosada05/team-manager/db"
)

var rootCmd = &cobra.Command{
	Use:   "teammgr",
	Short: "Sports team management API",
	Long: `teammgr serves a JSON API for managing sports teams: players, training
plans, training records, statistics and a food calorie log.

COMMANDS:

  teammgr serve     # start the HTTP server (default)
  teammgr migrate   # create the database schema
  teammgr seed      # insert the default sports

Configuration is read from the environment (and a .env file if present).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// openDatabase загружает конфигурацию и подключается к базе данных.
func openDatabase() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, conn, nil
}

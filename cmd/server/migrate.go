package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(command string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			return runMigrations(cmd.Context(), cfg, log, command, cmd.OutOrStdout())
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs, RunE: run("up")},
		&cobra.Command{Use: "down", Short: "Roll back the latest migration", Args: cobra.NoArgs, RunE: run("down")},
		&cobra.Command{Use: "status", Short: "Show applied and pending migrations", Args: cobra.NoArgs, RunE: run("status")},
	)
	return cmd
}

// runMigrations executes one migration command against the configured
// database. Status output goes to out.
func runMigrations(ctx context.Context, cfg *config.Config, log *slog.Logger, command string, out io.Writer) error {
	// correlation ID ties together all logs of one migration run
	log = log.With(
		slog.String("correlation_id", uuid.NewString()),
		slog.String("component", "migrations"),
		slog.String("command", command),
	)
	start := time.Now()

	db, err := sqlstore.Open(ctx, dbOptions(cfg.Database))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	m, err := sqlstore.NewMigrator(db, log)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		err = m.Up(ctx)
	case "down":
		err = m.Down(ctx)
	case "status":
		var statuses []sqlstore.MigrationStatus
		statuses, err = m.Status(ctx)
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Fprintf(out, "%-8s %05d %s\n", state, s.Version, s.Name)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		log.Error("migration command failed", slog.String("error", err.Error()))
		return err
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	log.Info("migration command completed",
		slog.Int64("version", version),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func dbOptions(cfg config.DatabaseConfig) sqlstore.Options {
	return sqlstore.Options{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
	}
}

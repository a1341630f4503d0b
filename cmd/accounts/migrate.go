package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/soundwave/accounts-api/internal/infrastructure/db/postgres"
	"github.com/soundwave/accounts-api/internal/pkg/config"
	"github.com/soundwave/accounts-api/pkg/logger"
)

// NewMigrateCmd creates the migrate subcommand and its up/down/status children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage PostgreSQL schema migrations",
		Long:  `Apply, roll back or inspect the embedded PostgreSQL migrations.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(ctx context.Context, cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Up(ctx); err != nil {
				return err
			}
			return printVersion(ctx, cmd, m)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withMigrator(func(ctx context.Context, cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Down(ctx); err != nil {
				return err
			}
			return printVersion(ctx, cmd, m)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the state of every migration",
		RunE: withMigrator(func(ctx context.Context, _ *cobra.Command, m *postgres.Migrator) error {
			return m.Status(ctx)
		}),
	})

	return cmd
}

type migratorFunc func(ctx context.Context, cmd *cobra.Command, m *postgres.Migrator) error

func withMigrator(fn migratorFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.Load(ctx)
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.DriverPostgres {
			return fmt.Errorf("migrate: STORE_DRIVER is %q, migrations only apply to %q", cfg.StoreDriver, config.DriverPostgres)
		}

		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "accounts-api"})

		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN()})
		if err != nil {
			return err
		}
		defer pool.Close()

		m, err := postgres.NewMigrator(pool, log)
		if err != nil {
			return err
		}
		defer m.Close()

		return fn(ctx, cmd, m)
	}
}

func printVersion(ctx context.Context, cmd *cobra.Command, m *postgres.Migrator) error {
	v, err := m.Version(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("schema version: %d\n", v)
	return nil
}

// migrateUp applies pending migrations on an open pool. Used by serve when
// AUTO_MIGRATE is enabled.
func migrateUp(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	m, err := postgres.NewMigrator(pool, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(ctx); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

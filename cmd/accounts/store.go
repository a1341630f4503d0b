package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/soundwave/accounts-api/internal/core/ports"
	mongostore "github.com/soundwave/accounts-api/internal/infrastructure/db/mongo"
	"github.com/soundwave/accounts-api/internal/infrastructure/db/postgres"
	"github.com/soundwave/accounts-api/internal/pkg/config"
)

// openStore connects the configured credential store. The returned close
// function releases its connections.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.AccountRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := mongostore.Disconnect(client, cfg.ShutdownTimeout); err != nil {
				log.Error().Err(err).Msg("mongo disconnect failed")
			}
		}

		repo := mongostore.NewAccountRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repo, closeFn, nil

	default:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN()})
		if err != nil {
			return nil, nil, err
		}

		if cfg.AutoMigrate {
			if err := migrateUp(ctx, pool, log); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return postgres.NewAccountRepository(pool), pool.Close, nil
	}
}

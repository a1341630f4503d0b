package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soundwave/accounts-api/internal/api"
	"github.com/soundwave/accounts-api/internal/infrastructure/security"
	"github.com/soundwave/accounts-api/internal/pkg/config"
	"github.com/soundwave/accounts-api/pkg/logger"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server. The credential store is chosen with
STORE_DRIVER; PostgreSQL migrations run first unless AUTO_MIGRATE=false.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts-api",
	})

	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open credential store")
		return err
	}
	defer closeStore()

	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	e := api.NewRouter(api.Deps{
		Accounts:  repo,
		Hasher:    hasher,
		Logger:    log,
		StoreName: cfg.StoreDriver,
	})

	srv := &http.Server{
		Addr:    net.JoinHostPort("", cfg.Port),
		Handler: e,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.StoreDriver).
			Int("bcrypt_cost", hasher.Cost()).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited")
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"patient-management-service/internal/adapters"
	"patient-management-service/internal/api"
	"patient-management-service/internal/services"
	"patient-management-service/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}
	cmd.Flags().String("host", "127.0.0.1", "Listen host (overrides HOST)")
	cmd.Flags().Int("port", 8000, "Listen port (overrides PORT)")
	return cmd
}

func runServer(cmd *cobra.Command) error {
	cfg, logger, repo, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error().Err(err).Msg("closing store")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := validation.New(cfg.AllowedEmailDomains)
	queue := adapters.NewInMemoryQueueAdapter(logger)

	events := services.NewEventService(queue, logger)
	if err := events.Start(ctx); err != nil {
		return err
	}
	snapshots := services.NewSnapshotService(repo, cfg.SnapshotPath, cfg.SnapshotInterval, logger)
	if err := snapshots.Start(ctx); err != nil {
		return err
	}

	deps := api.Dependencies{
		Patients:    services.NewPatientService(repo, queue, v, logger),
		Transfers:   services.NewTransferService(repo, logger),
		Events:      events,
		Exporter:    adapters.NewExcelExporter(),
		Validator:   v,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.AuthEnabled() {
		deps.Auth = services.NewAuthService(cfg.JWTSecret, cfg.AdminUsername, cfg.AdminPasswordHash, cfg.TokenTTL, logger)
	} else {
		logger.Warn().Msg("JWT_SECRET not set, mutating routes are unauthenticated")
	}
	app := api.NewApp(deps)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Str("store", cfg.StoreBackend).
			Bool("auth", cfg.AuthEnabled()).
			Msg("starting server")
		serverErr <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error().Err(err).Msg("server stopped")
		}
		shutdownBackground(logger, snapshots, events, queue)
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownBackground(logger, snapshots, events, queue)
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
		return err
	}
	if err := <-serverErr; err != nil {
		logger.Debug().Err(err).Msg("listener returned")
	}
	logger.Info().Msg("server exited")
	return nil
}

// shutdownBackground stops the snapshot job, closes event streams and drains
// the queue. Closing the streams lets open /events requests finish before the
// HTTP server waits on them.
func shutdownBackground(logger zerolog.Logger, snapshots services.SnapshotServiceContract, events services.EventServiceContract, queue adapters.QueueAdapter) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := snapshots.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("stopping snapshot job")
	}
	if err := events.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("stopping event stream")
	}
	if err := queue.GlobalStop(ctx); err != nil {
		logger.Error().Err(err).Msg("stopping queue")
	}
}

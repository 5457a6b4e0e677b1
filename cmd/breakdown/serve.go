package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bilgisen/breakdown/internal/api"
	"github.com/bilgisen/breakdown/internal/bootstrap"
	"github.com/bilgisen/breakdown/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup("")
	if err != nil {
		return err
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("Starting application...")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Info().Msg("Closing services...")
		if err := svc.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing services")
		}
	}()

	go svc.Feeds.Run(ctx)

	app := api.NewApp(api.NewHandlers(cfg, svc.Content, svc.Feeds, svc.Guard))

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
	return nil
}

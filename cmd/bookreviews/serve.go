package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/book-reviews/internal/common/bootstrap"
	"github.com/AlibekovAA/book-reviews/internal/common/config"
	"github.com/AlibekovAA/book-reviews/internal/common/server"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server. With STORAGE_DRIVER=postgres and AUTO_MIGRATE
enabled, pending migrations are applied before the listener opens.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Errorf("failed to start: %v", err)
		return err
	}
	defer app.Close()

	httpServer := server.NewServer(server.DefaultServerConfig(cfg.HTTPPort), app.Handler)
	return server.Run(ctx, httpServer, log, "book-reviews", app.ShutdownHooks()...)
}


package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/aramex/internal/server"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "aramex",
	Short:   "Aramex shipping bridge - SOAP client, CLI and JSON service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON bridge server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer func() { _ = tracerShutdown(context.Background()) }()
	}

	registry, env, err := initShipperRegistry(cfg, logger, tracer)
	if err != nil {
		return err
	}
	if err := registry.Preload(ctx); err != nil {
		return fmt.Errorf("preloading carriers: %w", err)
	}

	logger.Info("Starting Aramex bridge",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.String("environment", env),
		zap.Bool("mock", cfg.AramexUseMock),
	)

	srv := server.New(server.Config{
		Port:        cfg.Port,
		Carrier:     carrierName,
		Environment: env,
	}, registry, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

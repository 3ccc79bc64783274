package main

import (
	"context"
	"fmt"

	"github.com/tournevent/aramex/internal/config"
	"github.com/tournevent/aramex/internal/telemetry"
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/shipper/aramex"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "aramex"

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

// initTracer returns a nil tracer when tracing is disabled.
func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func initAramex(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) (*aramex.Client, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolving aramex config: %w", err)
	}

	logger.Debug("Aramex configuration resolved",
		zap.String("environment", resolved.Environment().String()),
		zap.String("descriptor_dir", cfg.AramexDescriptorDir),
		zap.Bool("mock", cfg.AramexUseMock),
	)

	return aramex.New(aramex.Config{
		Resolved:      resolved,
		DescriptorDir: cfg.AramexDescriptorDir,
		Timeout:       cfg.AramexTimeout,
		UseMock:       cfg.AramexUseMock,
	}, logger, tracer), nil
}

// initShipperRegistry registers the Aramex client and returns the registry
// with the environment it talks to.
func initShipperRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) (*shipper.Registry, string, error) {
	client, err := initAramex(cfg, logger, tracer)
	if err != nil {
		return nil, "", err
	}

	registry := shipper.NewRegistry()
	registry.Register(client)
	return registry, client.Environment().String(), nil
}

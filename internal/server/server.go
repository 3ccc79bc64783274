package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/aramex/internal/telemetry"
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	// CarrierHeader selects a registered carrier other than the default.
	CarrierHeader = "X-Carrier"
	// RequestIDHeader is read from requests and echoed on responses.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

// Server is the HTTP bridge in front of the registered carriers.
type Server struct {
	port        int
	carrier     string
	environment string
	registry    *shipper.Registry
	logger      *otelzap.Logger
	metrics     *telemetry.Metrics
	gatherer    prometheus.Gatherer
}

// Config holds server configuration.
type Config struct {
	Port int
	// Carrier is the registry name used when a request does not pick one.
	Carrier string
	// Environment labels metrics, e.g. "test" or "live".
	Environment string
	// Registry collects the server metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// New creates a new server instance.
func New(cfg Config, registry *shipper.Registry, logger *otelzap.Logger) *Server {
	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		reg, gatherer = cfg.Registry, cfg.Registry
	}

	return &Server{
		port:        cfg.Port,
		carrier:     cfg.Carrier,
		environment: cfg.Environment,
		registry:    registry,
		logger:      logger,
		metrics:     telemetry.NewMetrics(reg),
		gatherer:    gatherer,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /v1/pickups", s.handleCreatePickup)
	mux.HandleFunc("POST /v1/shipments", s.handleCreateShipment)
	mux.HandleFunc("POST /v1/rates", s.handleCalculateRate)
	mux.HandleFunc("POST /v1/tracking", s.handleTrack)
	mux.HandleFunc("GET /v1/countries", s.handleCountries)
	mux.HandleFunc("GET /v1/countries/{code}/cities", s.handleCities)
	mux.HandleFunc("POST /v1/addresses/validate", s.handleValidateAddress)

	return s.withRequestID(mux)
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server",
			zap.Int("port", s.port),
			zap.String("carrier", s.carrier),
			zap.Strings("carriers", s.registry.Names()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

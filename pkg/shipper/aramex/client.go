// Package aramex provides integration with the Aramex SOAP shipping API.
package aramex

import (
	"context"
	"time"

	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "aramex"

// Config holds Aramex client configuration. Resolved must be set.
type Config struct {
	Resolved      *ResolvedConfig
	DescriptorDir string
	Timeout       time.Duration
	UseMock       bool
}

// Client is the Aramex API client.
type Client struct {
	config    Config
	builder   *Builder
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Aramex client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			DescriptorDir: cfg.DescriptorDir,
			Environment:   cfg.Resolved.Environment(),
			Timeout:       cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new Aramex client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer, opts ...BuilderOption) *Client {
	return &Client{
		config:    cfg,
		builder:   NewBuilder(cfg.Resolved, opts...),
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// Environment returns the environment the client talks to.
func (c *Client) Environment() Environment {
	return c.config.Resolved.Environment()
}

// Preload resolves every service descriptor up front. API clients that do
// not use descriptors have nothing to preload.
func (c *Client) Preload(ctx context.Context) error {
	if p, ok := c.apiClient.(shipper.Preloader); ok {
		return p.Preload(ctx)
	}
	return nil
}

// CreatePickup books a courier pickup.
func (c *Client) CreatePickup(ctx context.Context, req *shipper.Pickup) (wire.Node, error) {
	if req != nil {
		c.logger.Ctx(ctx).Info("Creating Aramex pickup",
			zap.String("country", req.Address.CountryCode),
			zap.String("city", req.Address.City),
			zap.Time("pickup_date", req.PickupDate),
		)
	}
	body, err := c.builder.Pickup(req)
	return c.invoke(ctx, OpCreatePickup, body, err)
}

// CreateShipment registers a single shipment.
func (c *Client) CreateShipment(ctx context.Context, req *shipper.Shipment) (wire.Node, error) {
	if req != nil {
		c.logger.Ctx(ctx).Info("Creating Aramex shipment",
			zap.String("origin_country", req.Shipper.CountryCode),
			zap.String("destination_country", req.Consignee.CountryCode),
			zap.Float64("weight_kg", req.Weight),
		)
	}
	body, err := c.builder.Shipment(req)
	return c.invoke(ctx, OpCreateShipments, body, err)
}

// CalculateRate quotes a shipment.
func (c *Client) CalculateRate(ctx context.Context, req *shipper.RateRequest) (wire.Node, error) {
	if req != nil {
		c.logger.Ctx(ctx).Info("Calculating Aramex rate",
			zap.String("origin_country", req.Origin.CountryCode),
			zap.String("destination_country", req.Destination.CountryCode),
			zap.Float64("weight_kg", req.Weight),
		)
	}
	body, err := c.builder.Rate(req)
	return c.invoke(ctx, OpCalculateRate, body, err)
}

// Track returns tracking results for one or more waybills.
func (c *Client) Track(ctx context.Context, req *shipper.TrackingRequest) (wire.Node, error) {
	if req != nil {
		c.logger.Ctx(ctx).Info("Tracking Aramex shipments",
			zap.Strings("shipments", req.Shipments),
			zap.Bool("last_update_only", req.LastUpdateOnly),
		)
	}
	body, err := c.builder.Tracking(req)
	return c.invoke(ctx, OpTrackShipments, body, err)
}

// FetchCountries lists every country Aramex serves.
func (c *Client) FetchCountries(ctx context.Context) (wire.Node, error) {
	c.logger.Ctx(ctx).Info("Fetching Aramex countries")
	op, body, err := c.builder.Countries("")
	return c.invoke(ctx, op, body, err)
}

// FetchCountry returns a single country by ISO code.
func (c *Client) FetchCountry(ctx context.Context, code string) (wire.Node, error) {
	c.logger.Ctx(ctx).Info("Fetching Aramex country", zap.String("code", code))
	op, body, err := c.builder.Countries(code)
	if err == nil && op != OpFetchCountry {
		err = validationError(OpFetchCountry, []shipper.Notification{{Code: "code", Message: "code is required"}})
	}
	return c.invoke(ctx, OpFetchCountry, body, err)
}

// FetchCities lists the cities of a country.
func (c *Client) FetchCities(ctx context.Context, req *shipper.CitiesRequest) (wire.Node, error) {
	if req != nil {
		c.logger.Ctx(ctx).Info("Fetching Aramex cities",
			zap.String("country", req.CountryCode),
			zap.String("starts_with", req.NameStartsWith),
		)
	}
	body, err := c.builder.Cities(req)
	return c.invoke(ctx, OpFetchCities, body, err)
}

// ValidateAddress asks Aramex whether an address is deliverable.
func (c *Client) ValidateAddress(ctx context.Context, addr *shipper.Address) (wire.Node, error) {
	if addr != nil {
		c.logger.Ctx(ctx).Info("Validating Aramex address",
			zap.String("country", addr.CountryCode),
			zap.String("city", addr.City),
		)
	}
	body, err := c.builder.AddressValidation(addr)
	return c.invoke(ctx, OpValidateAddress, body, err)
}

// invoke sends a built body and normalizes the reply. buildErr short-circuits
// so that rejected input never reaches the network.
func (c *Client) invoke(ctx context.Context, op Operation, body wire.Node, buildErr error) (wire.Node, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "aramex."+op.Name,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("carrier", carrierName),
				attribute.String("aramex.operation", op.Name),
				attribute.String("aramex.environment", c.Environment().String()),
			),
		)
		defer span.End()

		result, err := c.send(ctx, op, body, buildErr)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(shipper.KindOf(err)))
		}
		return result, err
	}
	return c.send(ctx, op, body, buildErr)
}

func (c *Client) send(ctx context.Context, op Operation, body wire.Node, buildErr error) (wire.Node, error) {
	log := c.logger.Ctx(ctx)

	if buildErr != nil {
		log.Warn("Aramex request rejected",
			zap.String("operation", op.Name),
			zap.Error(buildErr),
		)
		return wire.Absent(), buildErr
	}

	resp, err := c.apiClient.Call(ctx, op, body)
	if err != nil {
		log.Error("Aramex API error",
			zap.String("operation", op.Name),
			zap.String("kind", string(shipper.KindOf(err))),
			zap.Error(err),
		)
		return wire.Absent(), err
	}

	result, err := Normalize(op, resp.Body, resp.Raw)
	if err != nil {
		log.Error("Aramex reported errors",
			zap.String("operation", op.Name),
			zap.Error(err),
		)
		return wire.Absent(), err
	}
	return result, nil
}

var (
	_ shipper.Shipper   = (*Client)(nil)
	_ shipper.Preloader = (*Client)(nil)
)

// Package mock provides an in-memory shipper for testing code that consumes
// shipper.Shipper.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

// Client is a mock shipper. Every operation succeeds with a small reply
// unless Err is set, and the requests it receives are recorded.
type Client struct {
	name string

	// Err, when set, is returned by every operation.
	Err error
	// PreloadErr is returned by Preload.
	PreloadErr error

	mu       sync.Mutex
	requests []any
}

// New creates a new mock shipper.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// Requests returns the requests received so far, in order.
func (c *Client) Requests() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.requests...)
}

// Preload reports PreloadErr.
func (c *Client) Preload(ctx context.Context) error {
	return c.PreloadErr
}

func (c *Client) record(req any) error {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	return c.Err
}

func (c *Client) reply(fields ...wire.Field) wire.Node {
	head := []wire.Field{
		wire.F("Carrier", wire.String(c.name)),
		wire.F("HasErrors", wire.Bool(false)),
	}
	return wire.Map(append(head, fields...)...)
}

// CreatePickup returns a mock pickup confirmation.
func (c *Client) CreatePickup(ctx context.Context, req *shipper.Pickup) (wire.Node, error) {
	if err := c.record(req); err != nil {
		return wire.Absent(), err
	}
	return c.reply(wire.F("ProcessedPickup", wire.Map(
		wire.F("ID", wire.String(fmt.Sprintf("%s-pickup-%d", c.name, time.Now().UnixNano()))),
		wire.F("Reference1", wire.String(req.Reference)),
	))), nil
}

// CreateShipment returns a mock waybill.
func (c *Client) CreateShipment(ctx context.Context, req *shipper.Shipment) (wire.Node, error) {
	if err := c.record(req); err != nil {
		return wire.Absent(), err
	}
	return c.reply(wire.F("Shipments", wire.Map(wire.F("ProcessedShipment", wire.Map(
		wire.F("ID", wire.String(fmt.Sprintf("%s-awb-%d", c.name, time.Now().UnixNano()))),
		wire.F("Reference1", wire.String(req.Reference)),
	))))), nil
}

// CalculateRate returns a flat mock quote.
func (c *Client) CalculateRate(ctx context.Context, req *shipper.RateRequest) (wire.Node, error) {
	if err := c.record(req); err != nil {
		return wire.Absent(), err
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	return c.reply(wire.F("TotalAmount", wire.Map(
		wire.F("CurrencyCode", wire.String(currency)),
		wire.F("Value", wire.Float(15.82)),
	))), nil
}

// Track returns one mock event per shipment.
func (c *Client) Track(ctx context.Context, req *shipper.TrackingRequest) (wire.Node, error) {
	if err := c.record(req); err != nil {
		return wire.Absent(), err
	}
	results := make([]wire.Node, len(req.Shipments))
	for i, id := range req.Shipments {
		results[i] = wire.Map(
			wire.F("WaybillNumber", wire.String(id)),
			wire.F("UpdateDescription", wire.String("In transit")),
		)
	}
	return c.reply(wire.F("TrackingResults", wire.Map(wire.F("TrackingResult", wire.List(results...))))), nil
}

// FetchCountries returns a single mock country.
func (c *Client) FetchCountries(ctx context.Context) (wire.Node, error) {
	if err := c.record(nil); err != nil {
		return wire.Absent(), err
	}
	return c.reply(wire.F("Countries", wire.Map(wire.F("Country", wire.List(
		wire.Map(wire.F("Code", wire.String("JO")), wire.F("Name", wire.String("Jordan"))),
	))))), nil
}

// FetchCountry echoes the requested code.
func (c *Client) FetchCountry(ctx context.Context, code string) (wire.Node, error) {
	if err := c.record(code); err != nil {
		return wire.Absent(), err
	}
	return c.reply(wire.F("Country", wire.Map(wire.F("Code", wire.String(code))))), nil
}

// FetchCities returns two mock cities.
func (c *Client) FetchCities(ctx context.Context, req *shipper.CitiesRequest) (wire.Node, error) {
	if err := c.record(req); err != nil {
		return wire.Absent(), err
	}
	return c.reply(wire.F("Cities", wire.Map(wire.F("string", wire.List(
		wire.String("Amman"), wire.String("Aqaba"),
	))))), nil
}

// ValidateAddress echoes the address back as the suggestion.
func (c *Client) ValidateAddress(ctx context.Context, addr *shipper.Address) (wire.Node, error) {
	if err := c.record(addr); err != nil {
		return wire.Absent(), err
	}
	return c.reply(wire.F("SuggestedAddresses", wire.Map(wire.F("Address", wire.Map(
		wire.F("City", wire.String(addr.City)),
		wire.F("CountryCode", wire.String(addr.CountryCode)),
	))))), nil
}

var (
	_ shipper.Shipper   = (*Client)(nil)
	_ shipper.Preloader = (*Client)(nil)
)

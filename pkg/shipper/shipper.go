// Package shipper provides the carrier-agnostic domain objects and error
// taxonomy used to drive a shipping carrier.
package shipper

import (
	"context"

	"github.com/tournevent/aramex/pkg/wire"
)

// Shipper defines the operations a carrier integration exposes. Results are
// the carrier's decoded response, field names untouched.
type Shipper interface {
	// Name returns the carrier identifier (e.g., "aramex").
	Name() string

	// CreatePickup books a courier pickup.
	CreatePickup(ctx context.Context, req *Pickup) (wire.Node, error)

	// CreateShipment registers a shipment and, outside the sandbox, requests its label.
	CreateShipment(ctx context.Context, req *Shipment) (wire.Node, error)

	// CalculateRate quotes a shipment.
	CalculateRate(ctx context.Context, req *RateRequest) (wire.Node, error)

	// Track returns tracking results for one or more shipments.
	Track(ctx context.Context, req *TrackingRequest) (wire.Node, error)

	// FetchCountries lists every country the carrier serves.
	FetchCountries(ctx context.Context) (wire.Node, error)

	// FetchCountry returns a single country by ISO code.
	FetchCountry(ctx context.Context, code string) (wire.Node, error)

	// FetchCities lists cities of a country, optionally filtered by prefix.
	FetchCities(ctx context.Context, req *CitiesRequest) (wire.Node, error)

	// ValidateAddress asks the carrier whether an address is deliverable.
	ValidateAddress(ctx context.Context, addr *Address) (wire.Node, error)
}

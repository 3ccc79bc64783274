package aramex

import (
	"context"

	"github.com/tournevent/aramex/pkg/wire"
)

// Namespace is the XML namespace of every Aramex v1 operation.
const Namespace = "http://ws.aramex.net/ShippingAPI/v1/"

// ArraysNamespace qualifies repeated primitives such as tracking numbers.
const ArraysNamespace = "http://schemas.microsoft.com/2003/10/Serialization/Arrays"

const soapActionBase = "http://ws.aramex.net/ShippingAPI/v1/Service_1_0/"

// Family groups operations that share a service descriptor.
type Family string

const (
	FamilyLocation Family = "location"
	FamilyShipping Family = "shipping"
	FamilyRate     Family = "rate"
	FamilyTracking Family = "tracking"
)

// Families lists every descriptor family.
var Families = []Family{FamilyLocation, FamilyShipping, FamilyRate, FamilyTracking}

// Operation is a remote procedure and the service that hosts it.
type Operation struct {
	Family Family
	Name   string
}

// Action returns the SOAPAction header value.
func (o Operation) Action() string {
	return soapActionBase + o.Name
}

func (o Operation) String() string {
	return o.Name
}

// Supported operations.
var (
	OpCreatePickup    = Operation{Family: FamilyShipping, Name: "CreatePickup"}
	OpCreateShipments = Operation{Family: FamilyShipping, Name: "CreateShipments"}
	OpCalculateRate   = Operation{Family: FamilyRate, Name: "CalculateRate"}
	OpTrackShipments  = Operation{Family: FamilyTracking, Name: "TrackShipments"}
	OpFetchCountries  = Operation{Family: FamilyLocation, Name: "FetchCountries"}
	OpFetchCountry    = Operation{Family: FamilyLocation, Name: "FetchCountry"}
	OpFetchCities     = Operation{Family: FamilyLocation, Name: "FetchCities"}
	OpValidateAddress = Operation{Family: FamilyLocation, Name: "ValidateAddress"}
)

// Response is a decoded reply together with the bytes it came from.
type Response struct {
	Body wire.Node
	Raw  []byte
}

// APIClient performs one remote call. The SOAP implementation talks to
// Aramex; the mock is used in tests and offline runs.
type APIClient interface {
	Call(ctx context.Context, op Operation, body wire.Node) (*Response, error)
}

package aramex

import (
	"strings"

	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

// Fixed transaction references of the location service.
const (
	refCountries         = "CountriesFetch"
	refCities            = "CityList"
	refAddressValidation = "AddressValidation"
)

// Countries builds a FetchCountries body, or a FetchCountry body when code is
// set. The returned operation says which.
func (b *Builder) Countries(code string) (Operation, wire.Node, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return OpFetchCountries, wire.Map(
			wire.F("ClientInfo", b.clientInfo()),
			wire.F("Transaction", transaction(refCountries)),
		), nil
	}

	if err := validate.Var(code, "iso3166_1_alpha2"); err != nil {
		return OpFetchCountry, wire.Absent(), validationError(OpFetchCountry, []shipper.Notification{{
			Code:    "code",
			Message: "code must be an ISO 3166-1 alpha-2 country code",
		}})
	}

	return OpFetchCountry, wire.Map(
		wire.F("ClientInfo", b.clientInfo()),
		wire.F("Transaction", transaction(refCountries)),
		wire.F("Code", wire.String(code)),
	), nil
}

// Cities builds a FetchCities body.
func (b *Builder) Cities(c *shipper.CitiesRequest) (wire.Node, error) {
	if details := violations(c); len(details) > 0 {
		return wire.Absent(), validationError(OpFetchCities, details)
	}

	return wire.Map(
		wire.F("ClientInfo", b.clientInfo()),
		wire.F("Transaction", transaction(refCities)),
		wire.F("CountryCode", wire.String(c.CountryCode)),
		wire.F("State", optional(c.State)),
		wire.F("NameStartsWith", optional(c.NameStartsWith)),
	), nil
}

// AddressValidation builds a ValidateAddress body.
func (b *Builder) AddressValidation(a *shipper.Address) (wire.Node, error) {
	if details := violations(a); len(details) > 0 {
		return wire.Absent(), validationError(OpValidateAddress, details)
	}

	return wire.Map(
		wire.F("ClientInfo", b.clientInfo()),
		wire.F("Transaction", transaction(refAddressValidation)),
		wire.F("Address", partyAddress(*a)),
	), nil
}

func optional(s string) wire.Node {
	if s == "" {
		return wire.Absent()
	}
	return wire.String(s)
}

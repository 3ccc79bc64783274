package aramex

import (
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

// Rate builds a CalculateRate body.
func (b *Builder) Rate(r *shipper.RateRequest) (wire.Node, error) {
	if details := violations(r); len(details) > 0 {
		return wire.Absent(), validationError(OpCalculateRate, details)
	}

	details := wire.Map(
		wire.F("Dimensions", dimensions(r.Dimensions)),
		wire.F("ActualWeight", weight(r.Weight)),
		wire.F("ChargeableWeight", wire.Absent()),
		wire.F("DescriptionOfGoods", wire.String(firstNonEmpty(r.Description, defaultDescription))),
		wire.F("GoodsOriginCountry", wire.String(r.Origin.CountryCode)),
		wire.F("NumberOfPieces", wire.Int(pieces(r.Pieces))),
		wire.F("ProductGroup", wire.String(b.productGroup(r.ProductGroup))),
		wire.F("ProductType", wire.String(b.productType(r.ProductType))),
		wire.F("PaymentType", wire.String(b.paymentType(r.PaymentType))),
		wire.F("PaymentOptions", wire.String("")),
		wire.F("Services", wire.String("")),
	)

	return wire.Map(
		wire.F("ClientInfo", b.clientInfo()),
		wire.F("Transaction", transaction(b.reference(prefixRate, r.Reference))),
		wire.F("OriginAddress", partyAddress(r.Origin)),
		wire.F("DestinationAddress", partyAddress(r.Destination)),
		wire.F("ShipmentDetails", details),
		wire.F("PreferredCurrencyCode", wire.String(b.currency(r.Currency))),
	), nil
}

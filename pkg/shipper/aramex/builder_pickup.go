package aramex

import (
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

// Pickup builds a CreatePickup body.
func (b *Builder) Pickup(p *shipper.Pickup) (wire.Node, error) {
	details := violations(p)
	if p != nil && b.cfg.Environment() == Sandbox && p.Address.CountryCode != sandboxPickupCountry {
		details = append(details, shipper.Notification{
			Code:    "address.countryCode",
			Message: "address.countryCode must be " + sandboxPickupCountry + " for sandbox pickups",
		})
	}
	if len(details) > 0 {
		return wire.Absent(), validationError(OpCreatePickup, details)
	}

	ref := b.reference(prefixPickup, p.Reference)
	status := p.Status
	if status == "" {
		status = shipper.PickupReady
	}
	shipments := p.Shipments
	if shipments <= 0 {
		shipments = 1
	}
	currency := b.currency("")

	item := wire.Map(
		wire.F("ProductGroup", wire.String(b.productGroup(p.ProductGroup))),
		wire.F("ProductType", wire.String(b.productType(p.ProductType))),
		wire.F("NumberOfShipments", wire.Int(int64(shipments))),
		wire.F("PackageType", wire.String("")),
		wire.F("Payment", wire.String(b.paymentType(p.PaymentType))),
		wire.F("ShipmentWeight", weight(p.Weight)),
		wire.F("ShipmentVolume", volume(p.Volume)),
		wire.F("NumberOfPieces", wire.Int(pieces(p.Pieces))),
		wire.F("CashAmount", money(p.CashAmount, currency)),
		wire.F("ExtraCharges", money(p.ExtraCharges, currency)),
		wire.F("ShipmentDimensions", dimensions(p.Dimensions)),
		wire.F("Comments", wire.String("")),
	)

	pickup := wire.Map(
		wire.F("PickupAddress", partyAddress(p.Address)),
		wire.F("PickupContact", contact(p.Address)),
		wire.F("PickupLocation", wire.String(p.PickupLocation)),
		wire.F("PickupDate", dateTime(p.PickupDate)),
		wire.F("ReadyTime", dateTime(p.ReadyTime)),
		wire.F("LastPickupTime", dateTime(p.LastPickupTime)),
		wire.F("ClosingTime", dateTime(p.ClosingTime)),
		wire.F("Comments", wire.String(p.Comments)),
		wire.F("Reference1", wire.String(ref)),
		wire.F("Reference2", wire.String("")),
		wire.F("Vehicle", wire.String("")),
		wire.F("Shipments", wire.Absent()),
		wire.F("PickupItems", wire.Map(wire.F("PickupItemDetail", item))),
		wire.F("Status", wire.String(string(status))),
	)

	return wire.Map(
		wire.F("ClientInfo", b.clientInfo()),
		wire.F("Transaction", transaction(ref)),
		wire.F("Pickup", pickup),
		wire.F("LabelInfo", wire.Absent()),
	), nil
}

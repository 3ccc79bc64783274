package aramex

import (
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

// Shipment builds a CreateShipments body holding a single shipment.
func (b *Builder) Shipment(s *shipper.Shipment) (wire.Node, error) {
	if details := violations(s); len(details) > 0 {
		return wire.Absent(), validationError(OpCreateShipments, details)
	}

	ref := b.reference(prefixShipment, s.Reference)
	currency := b.currency(s.Currency)

	details := wire.Map(
		wire.F("Dimensions", dimensions(s.Dimensions)),
		wire.F("ActualWeight", weight(s.Weight)),
		wire.F("ChargeableWeight", wire.Absent()),
		wire.F("DescriptionOfGoods", wire.String(firstNonEmpty(s.Description, defaultDescription))),
		wire.F("GoodsOriginCountry", wire.String(s.Shipper.CountryCode)),
		wire.F("NumberOfPieces", wire.Int(pieces(s.Pieces))),
		wire.F("ProductGroup", wire.String(b.productGroup(s.ProductGroup))),
		wire.F("ProductType", wire.String(b.productType(s.ProductType))),
		wire.F("PaymentType", wire.String(b.paymentType(s.PaymentType))),
		wire.F("PaymentOptions", wire.String("")),
		wire.F("CustomsValueAmount", wire.Absent()),
		wire.F("CashOnDeliveryAmount", money(s.CashOnDeliveryAmount, currency)),
		wire.F("InsuranceAmount", wire.Absent()),
		wire.F("CashAdditionalAmount", wire.Absent()),
		wire.F("CashAdditionalAmountDescription", wire.String("")),
		wire.F("CollectAmount", money(s.CollectAmount, currency)),
		wire.F("Services", wire.String("")),
		wire.F("Items", wire.Absent()),
	)

	shipment := wire.Map(
		wire.F("Shipper", party(s.Shipper, b.cfg.Credentials().AccountNumber)),
		wire.F("Consignee", party(s.Consignee, "")),
		wire.F("ThirdParty", wire.Absent()),
		wire.F("Reference1", wire.String(s.Reference)),
		wire.F("Reference2", wire.String("")),
		wire.F("Reference3", wire.String("")),
		wire.F("ShippingDateTime", dateTime(s.ShippingDateTime)),
		wire.F("DueDate", dateTime(s.DueDate)),
		wire.F("Comments", wire.String(s.Comments)),
		wire.F("PickupLocation", wire.String(s.PickupLocation)),
		wire.F("OperationsInstructions", wire.String("")),
		// Misspelled in the service schema.
		wire.F("AccountingInstrcutions", wire.String("")),
		wire.F("Details", details),
	)

	return wire.Map(
		wire.F("ClientInfo", b.clientInfo()),
		wire.F("Transaction", transaction(ref)),
		wire.F("Shipments", wire.Map(wire.F("Shipment", wire.List(shipment)))),
		wire.F("LabelInfo", b.labelInfo()),
	), nil
}

func party(a shipper.Address, account string) wire.Node {
	return wire.Map(
		wire.F("Reference1", wire.String("")),
		wire.F("Reference2", wire.String("")),
		wire.F("AccountNumber", wire.String(account)),
		wire.F("PartyAddress", partyAddress(a)),
		wire.F("Contact", contact(a)),
	)
}

// labelInfo is never sent to the sandbox. Production uses the configured
// report template, or the standard one.
func (b *Builder) labelInfo() wire.Node {
	if b.cfg.Environment() == Sandbox {
		return wire.Absent()
	}

	label := LabelInfo{ReportID: defaultReportID, ReportType: defaultReportType}
	if configured := b.cfg.Defaults().LabelInfo; configured != nil {
		label = *configured
	}

	return wire.Map(
		wire.F("ReportID", wire.Int(int64(label.ReportID))),
		wire.F("ReportType", wire.String(label.ReportType)),
	)
}

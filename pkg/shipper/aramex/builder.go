package aramex

import (
	"fmt"
	"time"

	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

const (
	unitWeight = "KG"
	unitVolume = "CM3"
	unitLength = "CM"

	// dateLayout is the xsd:dateTime form the service accepts, without zone.
	dateLayout = "2006-01-02T15:04:05"

	defaultDescription  = "General Goods"
	defaultProductGroup = "EXP"
	defaultProductType  = "PPX"
	defaultPaymentType  = shipper.PaymentPrepaid
	defaultCurrency     = "USD"

	defaultReportID   = 9201
	defaultReportType = "RPT"

	// The sandbox only accepts pickups collected in Jordan.
	sandboxPickupCountry = "JO"
)

// Reference prefixes for generated transaction references.
const (
	prefixPickup   = "PK"
	prefixShipment = "SH"
	prefixRate     = "RT"
	prefixTracking = "TR"
)

// Builder maps domain requests to operation bodies. It holds no mutable
// state and is safe for concurrent use.
type Builder struct {
	cfg *ResolvedConfig
	now func() time.Time
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithClock replaces the clock used for generated references.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder for a resolved configuration.
func NewBuilder(cfg *ResolvedConfig, opts ...BuilderOption) *Builder {
	b := &Builder{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) clientInfo() wire.Node {
	c := b.cfg.Credentials()

	source := wire.Absent()
	if c.Source != 0 {
		source = wire.Int(int64(c.Source))
	}

	return wire.Map(
		wire.F("UserName", wire.String(c.UserName)),
		wire.F("Password", wire.String(c.Password)),
		wire.F("Version", wire.String(c.Version)),
		wire.F("AccountNumber", wire.String(c.AccountNumber)),
		wire.F("AccountPin", wire.String(c.AccountPin)),
		wire.F("AccountEntity", wire.String(c.AccountEntity)),
		wire.F("AccountCountryCode", wire.String(c.AccountCountryCode)),
		wire.F("Source", source),
	)
}

// reference returns the caller's reference, or one generated from prefix and
// the current unix time.
func (b *Builder) reference(prefix, ref string) string {
	if ref != "" {
		return ref
	}
	return fmt.Sprintf("%s-%d", prefix, b.now().Unix())
}

func transaction(ref string) wire.Node {
	return wire.Map(
		wire.F("Reference1", wire.String(ref)),
		wire.F("Reference2", wire.String("")),
		wire.F("Reference3", wire.String("")),
		wire.F("Reference4", wire.String("")),
		wire.F("Reference5", wire.String("")),
	)
}

func (b *Builder) productGroup(v string) string {
	return firstNonEmpty(v, b.cfg.Defaults().ProductGroup, defaultProductGroup)
}

func (b *Builder) productType(v string) string {
	return firstNonEmpty(v, b.cfg.Defaults().ProductType, defaultProductType)
}

func (b *Builder) paymentType(v shipper.PaymentType) string {
	return firstNonEmpty(string(v), b.cfg.Defaults().PaymentType, string(defaultPaymentType))
}

func (b *Builder) currency(v string) string {
	return firstNonEmpty(v, b.cfg.Defaults().CurrencyCode, defaultCurrency)
}

func partyAddress(a shipper.Address) wire.Node {
	state := wire.Absent()
	if a.StateOrProvinceCode != "" {
		state = wire.String(a.StateOrProvinceCode)
	}

	return wire.Map(
		wire.F("Line1", wire.String(a.Line1)),
		wire.F("Line2", wire.String(a.Line2)),
		wire.F("Line3", wire.String(a.Line3)),
		wire.F("City", wire.String(a.City)),
		wire.F("StateOrProvinceCode", state),
		wire.F("PostCode", wire.String(a.PostalCode)),
		wire.F("CountryCode", wire.String(a.CountryCode)),
	)
}

func contact(a shipper.Address) wire.Node {
	name := firstNonEmpty(a.Name, "N/A")

	return wire.Map(
		wire.F("Department", wire.String("")),
		wire.F("PersonName", wire.String(name)),
		wire.F("Title", wire.String("")),
		wire.F("CompanyName", wire.String(name)),
		wire.F("PhoneNumber1", wire.String(a.Phone)),
		wire.F("PhoneNumber1Ext", wire.String("")),
		wire.F("PhoneNumber2", wire.String("")),
		wire.F("PhoneNumber2Ext", wire.String("")),
		wire.F("FaxNumber", wire.String("")),
		wire.F("CellPhone", wire.String(firstNonEmpty(a.CellPhone, a.Phone))),
		wire.F("EmailAddress", wire.String(a.Email)),
		wire.F("Type", wire.String("")),
	)
}

func weight(kg float64) wire.Node {
	return wire.Map(
		wire.F("Unit", wire.String(unitWeight)),
		wire.F("Value", wire.Float(kg)),
	)
}

func volume(cm3 float64) wire.Node {
	return wire.Map(
		wire.F("Unit", wire.String(unitVolume)),
		wire.F("Value", wire.Float(cm3)),
	)
}

// dimensions is absent unless all three sides are known.
func dimensions(d shipper.Dimensions) wire.Node {
	if !d.Complete() {
		return wire.Absent()
	}
	return wire.Map(
		wire.F("Length", wire.Float(*d.Length)),
		wire.F("Width", wire.Float(*d.Width)),
		wire.F("Height", wire.Float(*d.Height)),
		wire.F("Unit", wire.String(unitLength)),
	)
}

// money is absent for missing, zero or negative amounts.
func money(amount *float64, currency string) wire.Node {
	if amount == nil || *amount <= 0 {
		return wire.Absent()
	}
	return wire.Map(
		wire.F("CurrencyCode", wire.String(currency)),
		wire.F("Value", wire.Float(*amount)),
	)
}

func dateTime(t time.Time) wire.Node {
	return wire.String(t.Format(dateLayout))
}

func pieces(n int) int64 {
	if n <= 0 {
		return 1
	}
	return int64(n)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

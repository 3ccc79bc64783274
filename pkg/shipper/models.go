package shipper

import (
	"time"
)

// PaymentType is how the shipment is paid for.
type PaymentType string

const (
	PaymentPrepaid    PaymentType = "P"
	PaymentCollect    PaymentType = "C"
	PaymentThirdParty PaymentType = "3"
)

// PickupStatus is the state a pickup is created in.
type PickupStatus string

const (
	PickupReady   PickupStatus = "Ready"
	PickupPending PickupStatus = "Pending"
)

// Address is a postal and contact record.
type Address struct {
	Name                string `json:"name,omitempty"`
	Email               string `json:"email,omitempty" validate:"omitempty,email"`
	Phone               string `json:"phone,omitempty"`
	CellPhone           string `json:"cellPhone,omitempty"`
	Line1               string `json:"line1" validate:"required"`
	Line2               string `json:"line2,omitempty"`
	Line3               string `json:"line3,omitempty"`
	City                string `json:"city" validate:"required"`
	StateOrProvinceCode string `json:"stateOrProvinceCode,omitempty"`
	PostalCode          string `json:"postalCode,omitempty"`
	CountryCode         string `json:"countryCode" validate:"required,iso3166_1_alpha2"`
}

// Dimensions of a package, in centimetres. A dimension block is only sent
// when all three sides are known.
type Dimensions struct {
	Length *float64 `json:"length,omitempty" validate:"omitempty,gt=0"`
	Width  *float64 `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
}

// Complete reports whether every side is set.
func (d Dimensions) Complete() bool {
	return d.Length != nil && d.Width != nil && d.Height != nil
}

// Pickup is a request for the carrier to collect goods.
type Pickup struct {
	Address        Address      `json:"address"`
	PickupLocation string       `json:"pickupLocation" validate:"required"`
	PickupDate     time.Time    `json:"pickupDate" validate:"required"`
	ReadyTime      time.Time    `json:"readyTime" validate:"required"`
	LastPickupTime time.Time    `json:"lastPickupTime" validate:"required"`
	ClosingTime    time.Time    `json:"closingTime" validate:"required"`
	Weight         float64      `json:"weight" validate:"required,gt=0"`
	Volume         float64      `json:"volume" validate:"required,gt=0"`
	Pieces         int          `json:"pieces,omitempty" validate:"gte=0"`
	Shipments      int          `json:"shipments,omitempty" validate:"gte=0"`
	Dimensions     Dimensions   `json:"dimensions"`
	CashAmount     *float64     `json:"cashAmount,omitempty"`
	ExtraCharges   *float64     `json:"extraCharges,omitempty"`
	ProductGroup   string       `json:"productGroup,omitempty" validate:"omitempty,oneof=EXP DOM"`
	ProductType    string       `json:"productType,omitempty"`
	PaymentType    PaymentType  `json:"paymentType,omitempty" validate:"omitempty,oneof=P C 3"`
	Status         PickupStatus `json:"status,omitempty" validate:"omitempty,oneof=Ready Pending"`
	Comments       string       `json:"comments,omitempty"`
	Reference      string       `json:"reference,omitempty"`
}

// Shipment is a consignment from a shipper to a consignee.
type Shipment struct {
	Shipper              Address     `json:"shipper"`
	Consignee            Address     `json:"consignee"`
	ShippingDateTime     time.Time   `json:"shippingDateTime" validate:"required"`
	DueDate              time.Time   `json:"dueDate" validate:"required"`
	PickupLocation       string      `json:"pickupLocation" validate:"required"`
	Weight               float64     `json:"weight" validate:"required,gt=0"`
	Pieces               int         `json:"pieces,omitempty" validate:"gte=0"`
	Dimensions           Dimensions  `json:"dimensions"`
	Description          string      `json:"description,omitempty"`
	ProductGroup         string      `json:"productGroup,omitempty" validate:"omitempty,oneof=EXP DOM"`
	ProductType          string      `json:"productType,omitempty"`
	PaymentType          PaymentType `json:"paymentType,omitempty" validate:"omitempty,oneof=P C 3"`
	Currency             string      `json:"currency,omitempty" validate:"omitempty,iso4217"`
	CollectAmount        *float64    `json:"collectAmount,omitempty"`
	CashOnDeliveryAmount *float64    `json:"cashOnDeliveryAmount,omitempty"`
	Comments             string      `json:"comments,omitempty"`
	Reference            string      `json:"reference,omitempty"`
}

// RateRequest asks for a price quote.
type RateRequest struct {
	Origin       Address     `json:"origin"`
	Destination  Address     `json:"destination"`
	Weight       float64     `json:"weight" validate:"required,gt=0"`
	Currency     string      `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Pieces       int         `json:"pieces,omitempty" validate:"gte=0"`
	Dimensions   Dimensions  `json:"dimensions"`
	Description  string      `json:"description,omitempty"`
	ProductGroup string      `json:"productGroup,omitempty" validate:"omitempty,oneof=EXP DOM"`
	ProductType  string      `json:"productType,omitempty"`
	PaymentType  PaymentType `json:"paymentType,omitempty" validate:"omitempty,oneof=P C 3"`
	Reference    string      `json:"reference,omitempty"`
}

// TrackingRequest asks for the history of one or more shipments.
type TrackingRequest struct {
	Shipments      []string `json:"shipments" validate:"required,min=1,dive,required"`
	LastUpdateOnly bool     `json:"lastUpdateOnly"`
	Reference      string   `json:"reference,omitempty"`
}

// CitiesRequest lists cities of a country.
type CitiesRequest struct {
	CountryCode    string `json:"countryCode" validate:"required,iso3166_1_alpha2"`
	State          string `json:"state,omitempty"`
	NameStartsWith string `json:"nameStartsWith,omitempty"`
}

package aramex_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/shipper/aramex"
	"github.com/tournevent/aramex/pkg/wire"
)

var fixedNow = time.Unix(1700000000, 0)

func testCredentials() *aramex.Credentials {
	return &aramex.Credentials{
		UserName:           "testingapi@aramex.com",
		Password:           "R123456789$r",
		Version:            "v1.0",
		AccountNumber:      "20016",
		AccountPin:         "331421",
		AccountEntity:      "AMM",
		AccountCountryCode: "JO",
	}
}

func resolved(t *testing.T, env string, defaults aramex.Defaults) *aramex.ResolvedConfig {
	t.Helper()
	cfg, err := aramex.Resolve(aramex.RawConfig{
		Env:      env,
		Test:     testCredentials(),
		Live:     testCredentials(),
		Defaults: defaults,
	})
	require.NoError(t, err)
	return cfg
}

func sandboxBuilder(t *testing.T) *aramex.Builder {
	return aramex.NewBuilder(resolved(t, "test", aramex.Defaults{}), aramex.WithClock(func() time.Time { return fixedNow }))
}

func productionBuilder(t *testing.T, defaults aramex.Defaults) *aramex.Builder {
	return aramex.NewBuilder(resolved(t, "live", defaults), aramex.WithClock(func() time.Time { return fixedNow }))
}

func fieldNames(n wire.Node) []string {
	var names []string
	for _, f := range n.Fields() {
		names = append(names, f.Name)
	}
	return names
}

func detailCodes(t *testing.T, err error) []string {
	t.Helper()
	var se *shipper.Error
	require.True(t, errors.As(err, &se), "expected *shipper.Error, got %T", err)
	var codes []string
	for _, d := range se.Details {
		codes = append(codes, d.Code)
	}
	return codes
}

func ptr(f float64) *float64 { return &f }

func ammanAddress() shipper.Address {
	return shipper.Address{
		Name:        "Omar Haddad",
		Phone:       "+962790000000",
		Line1:       "Mecca Street 12",
		City:        "Amman",
		CountryCode: "JO",
	}
}

func dubaiAddress() shipper.Address {
	return shipper.Address{
		Name:        "Sara Khan",
		Email:       "sara@example.com",
		Phone:       "+971500000000",
		CellPhone:   "+971550000000",
		Line1:       "Sheikh Zayed Road 1",
		City:        "Dubai",
		PostalCode:  "00000",
		CountryCode: "AE",
	}
}

func validPickup() *shipper.Pickup {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return &shipper.Pickup{
		Address:        ammanAddress(),
		PickupLocation: "Reception",
		PickupDate:     day.Add(9 * time.Hour),
		ReadyTime:      day.Add(10 * time.Hour),
		LastPickupTime: day.Add(15 * time.Hour),
		ClosingTime:    day.Add(17 * time.Hour),
		Weight:         3,
		Volume:         1000,
	}
}

func validShipment() *shipper.Shipment {
	return &shipper.Shipment{
		Shipper:          ammanAddress(),
		Consignee:        dubaiAddress(),
		ShippingDateTime: time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
		DueDate:          time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC),
		PickupLocation:   "Reception",
		Weight:           1.2,
	}
}

func validRate() *shipper.RateRequest {
	return &shipper.RateRequest{
		Origin:      dubaiAddress(),
		Destination: ammanAddress(),
		Weight:      2.5,
	}
}

func TestBuilder_ClientInfo(t *testing.T) {
	body, err := sandboxBuilder(t).Rate(validRate())
	require.NoError(t, err)

	info := body.Get("ClientInfo")
	assert.Equal(t, []string{
		"UserName", "Password", "Version", "AccountNumber", "AccountPin",
		"AccountEntity", "AccountCountryCode", "Source",
	}, fieldNames(info))
	assert.True(t, info.Get("Source").IsAbsent())
	assert.Equal(t, "20016", info.Get("AccountNumber").Text())
}

func TestBuilder_ClientInfoSource(t *testing.T) {
	creds := testCredentials()
	creds.Source = 24
	cfg, err := aramex.Resolve(aramex.RawConfig{Test: creds})
	require.NoError(t, err)

	body, err := aramex.NewBuilder(cfg).Rate(validRate())
	require.NoError(t, err)
	assert.Equal(t, "24", body.Path("ClientInfo", "Source").Text())
}

func TestBuilder_RateWithoutDimensions(t *testing.T) {
	body, err := sandboxBuilder(t).Rate(validRate())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ClientInfo", "Transaction", "OriginAddress", "DestinationAddress",
		"ShipmentDetails", "PreferredCurrencyCode",
	}, fieldNames(body))

	details := body.Get("ShipmentDetails")
	assert.Contains(t, fieldNames(details), "Dimensions")
	assert.True(t, details.Get("Dimensions").IsAbsent())
	assert.Equal(t, "General Goods", details.Get("DescriptionOfGoods").Text())
	assert.Equal(t, "1", details.Get("NumberOfPieces").Text())
	assert.Equal(t, "AE", details.Get("GoodsOriginCountry").Text())
	assert.Equal(t, "EXP", details.Get("ProductGroup").Text())
	assert.Equal(t, "PPX", details.Get("ProductType").Text())
	assert.Equal(t, "P", details.Get("PaymentType").Text())
	assert.Equal(t, "USD", body.Get("PreferredCurrencyCode").Text())
	assert.Equal(t, "RT-1700000000", body.Path("Transaction", "Reference1").Text())

	xml, err := wire.Encode(aramex.OpCalculateRate.Name, body, aramex.Namespace)
	require.NoError(t, err)
	out := string(xml)
	assert.NotContains(t, out, "Dimensions")
	assert.Contains(t, out, "<v1:ActualWeight><v1:Unit>KG</v1:Unit><v1:Value>2.5</v1:Value></v1:ActualWeight>")
}

func TestBuilder_RateDefaultsFromConfig(t *testing.T) {
	b := aramex.NewBuilder(resolved(t, "test", aramex.Defaults{
		ProductGroup: "DOM",
		ProductType:  "OND",
		PaymentType:  "C",
		CurrencyCode: "JOD",
	}))

	body, err := b.Rate(validRate())
	require.NoError(t, err)
	assert.Equal(t, "DOM", body.Path("ShipmentDetails", "ProductGroup").Text())
	assert.Equal(t, "OND", body.Path("ShipmentDetails", "ProductType").Text())
	assert.Equal(t, "C", body.Path("ShipmentDetails", "PaymentType").Text())
	assert.Equal(t, "JOD", body.Get("PreferredCurrencyCode").Text())

	req := validRate()
	req.Currency = "AED"
	req.ProductGroup = "EXP"
	body, err = b.Rate(req)
	require.NoError(t, err)
	assert.Equal(t, "AED", body.Get("PreferredCurrencyCode").Text())
	assert.Equal(t, "EXP", body.Path("ShipmentDetails", "ProductGroup").Text())
}

func TestBuilder_Dimensions(t *testing.T) {
	req := validRate()
	req.Dimensions = shipper.Dimensions{Length: ptr(30), Width: ptr(20)}
	body, err := sandboxBuilder(t).Rate(req)
	require.NoError(t, err)
	assert.True(t, body.Path("ShipmentDetails", "Dimensions").IsAbsent(), "partial dimensions must be dropped")

	req.Dimensions.Height = ptr(10)
	body, err = sandboxBuilder(t).Rate(req)
	require.NoError(t, err)
	dims := body.Path("ShipmentDetails", "Dimensions")
	assert.Equal(t, []string{"Length", "Width", "Height", "Unit"}, fieldNames(dims))
	assert.Equal(t, "CM", dims.Get("Unit").Text())
	assert.Equal(t, "30", dims.Get("Length").Text())
}

func TestBuilder_ValidationNamesEveryField(t *testing.T) {
	_, err := sandboxBuilder(t).Rate(&shipper.RateRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shipper.ErrValidation))

	codes := detailCodes(t, err)
	for _, want := range []string{
		"origin.line1", "origin.city", "origin.countryCode",
		"destination.line1", "destination.city", "destination.countryCode",
		"weight",
	} {
		assert.Contains(t, codes, want)
	}
	assert.Contains(t, err.Error(), "weight")
}

func TestBuilder_ValidationRejectsBadEnums(t *testing.T) {
	req := validShipment()
	req.PaymentType = "X"
	req.Currency = "DOLLARS"
	req.Consignee.CountryCode = "United Arab Emirates"

	_, err := sandboxBuilder(t).Shipment(req)
	require.Error(t, err)
	codes := detailCodes(t, err)
	assert.Contains(t, codes, "paymentType")
	assert.Contains(t, codes, "currency")
	assert.Contains(t, codes, "consignee.countryCode")
}

func TestBuilder_NilRequest(t *testing.T) {
	_, err := sandboxBuilder(t).Shipment(nil)
	require.Error(t, err)
	assert.Equal(t, shipper.KindValidation, shipper.KindOf(err))
}

func TestBuilder_Shipment(t *testing.T) {
	req := validShipment()
	req.Reference = "ORDER-42"
	body, err := sandboxBuilder(t).Shipment(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"ClientInfo", "Transaction", "Shipments", "LabelInfo"}, fieldNames(body))
	assert.Equal(t, "ORDER-42", body.Path("Transaction", "Reference1").Text())

	list := body.Path("Shipments", "Shipment")
	require.Equal(t, wire.KindList, list.Kind())
	require.Len(t, list.Items(), 1)
	s := list.Items()[0]

	assert.Equal(t, []string{
		"Shipper", "Consignee", "ThirdParty", "Reference1", "Reference2", "Reference3",
		"ShippingDateTime", "DueDate", "Comments", "PickupLocation",
		"OperationsInstructions", "AccountingInstrcutions", "Details",
	}, fieldNames(s))
	assert.True(t, s.Get("ThirdParty").IsAbsent())
	assert.Equal(t, "20016", s.Path("Shipper", "AccountNumber").Text())
	assert.Equal(t, "", s.Path("Consignee", "AccountNumber").Text())
	assert.Equal(t, wire.KindScalar, s.Path("Consignee", "AccountNumber").Kind())
	assert.Equal(t, "2024-03-10T09:30:00", s.Get("ShippingDateTime").Text())
	assert.Equal(t, "2024-03-12T18:00:00", s.Get("DueDate").Text())

	details := s.Get("Details")
	assert.Equal(t, "JO", details.Get("GoodsOriginCountry").Text())
	assert.True(t, details.Get("ChargeableWeight").IsAbsent())
	assert.True(t, details.Get("CustomsValueAmount").IsAbsent())
	assert.Equal(t, "", details.Get("PaymentOptions").Text())
}

func TestBuilder_ShipmentContact(t *testing.T) {
	req := validShipment()
	req.Shipper.Name = ""
	body, err := sandboxBuilder(t).Shipment(req)
	require.NoError(t, err)

	s := body.Path("Shipments", "Shipment").Items()[0]
	shipperContact := s.Path("Shipper", "Contact")
	assert.Equal(t, "N/A", shipperContact.Get("PersonName").Text())
	assert.Equal(t, "N/A", shipperContact.Get("CompanyName").Text())
	assert.Equal(t, "+962790000000", shipperContact.Get("CellPhone").Text(), "cell phone falls back to phone")

	consigneeContact := s.Path("Consignee", "Contact")
	assert.Equal(t, "+971550000000", consigneeContact.Get("CellPhone").Text())
	assert.Equal(t, "sara@example.com", consigneeContact.Get("EmailAddress").Text())

	addr := s.Path("Consignee", "PartyAddress")
	assert.Equal(t, []string{"Line1", "Line2", "Line3", "City", "StateOrProvinceCode", "PostCode", "CountryCode"}, fieldNames(addr))
	assert.True(t, addr.Get("StateOrProvinceCode").IsAbsent())
	assert.Equal(t, "", addr.Get("Line2").Text())
	assert.Equal(t, "00000", addr.Get("PostCode").Text())
}

func TestBuilder_MoneyOmittedWhenNotPositive(t *testing.T) {
	tests := []struct {
		name   string
		amount *float64
		absent bool
	}{
		{name: "nil", amount: nil, absent: true},
		{name: "zero", amount: ptr(0), absent: true},
		{name: "negative", amount: ptr(-5), absent: true},
		{name: "positive", amount: ptr(25.5), absent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validShipment()
			req.CollectAmount = tt.amount
			req.CashOnDeliveryAmount = tt.amount

			body, err := sandboxBuilder(t).Shipment(req)
			require.NoError(t, err)
			details := body.Path("Shipments", "Shipment").Items()[0].Get("Details")

			for _, field := range []string{"CollectAmount", "CashOnDeliveryAmount"} {
				m := details.Get(field)
				assert.Equal(t, tt.absent, m.IsAbsent(), field)
				if !tt.absent {
					assert.Equal(t, []string{"CurrencyCode", "Value"}, fieldNames(m))
					assert.Equal(t, "USD", m.Get("CurrencyCode").Text())
					assert.Equal(t, "25.5", m.Get("Value").Text())
				}
			}
		})
	}
}

func TestBuilder_MoneyUsesShipmentCurrency(t *testing.T) {
	req := validShipment()
	req.Currency = "AED"
	req.CollectAmount = ptr(10)

	body, err := sandboxBuilder(t).Shipment(req)
	require.NoError(t, err)
	m := body.Path("Shipments", "Shipment").Items()[0].Path("Details", "CollectAmount")
	assert.Equal(t, "AED", m.Get("CurrencyCode").Text())
}

func TestBuilder_LabelInfo(t *testing.T) {
	t.Run("sandbox never sends a label", func(t *testing.T) {
		b := aramex.NewBuilder(resolved(t, "test", aramex.Defaults{
			LabelInfo: &aramex.LabelInfo{ReportID: 9729, ReportType: "URL"},
		}))
		body, err := b.Shipment(validShipment())
		require.NoError(t, err)
		assert.Contains(t, fieldNames(body), "LabelInfo")
		assert.True(t, body.Get("LabelInfo").IsAbsent())
	})

	t.Run("production default", func(t *testing.T) {
		body, err := productionBuilder(t, aramex.Defaults{}).Shipment(validShipment())
		require.NoError(t, err)
		label := body.Get("LabelInfo")
		assert.Equal(t, []string{"ReportID", "ReportType"}, fieldNames(label))
		assert.Equal(t, "9201", label.Get("ReportID").Text())
		assert.Equal(t, "RPT", label.Get("ReportType").Text())
	})

	t.Run("production configured", func(t *testing.T) {
		body, err := productionBuilder(t, aramex.Defaults{
			LabelInfo: &aramex.LabelInfo{ReportID: 9729, ReportType: "URL"},
		}).Shipment(validShipment())
		require.NoError(t, err)
		assert.Equal(t, "9729", body.Path("LabelInfo", "ReportID").Text())
		assert.Equal(t, "URL", body.Path("LabelInfo", "ReportType").Text())
	})
}

func TestBuilder_PickupSandboxCountry(t *testing.T) {
	req := validPickup()
	req.Address = dubaiAddress()

	_, err := sandboxBuilder(t).Pickup(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shipper.ErrValidation))
	assert.Contains(t, detailCodes(t, err), "address.countryCode")

	_, err = productionBuilder(t, aramex.Defaults{}).Pickup(req)
	assert.NoError(t, err)
}

func TestBuilder_Pickup(t *testing.T) {
	body, err := sandboxBuilder(t).Pickup(validPickup())
	require.NoError(t, err)

	assert.Equal(t, []string{"ClientInfo", "Transaction", "Pickup", "LabelInfo"}, fieldNames(body))
	assert.True(t, body.Get("LabelInfo").IsAbsent())
	assert.Equal(t, "PK-1700000000", body.Path("Transaction", "Reference1").Text())

	p := body.Get("Pickup")
	assert.Equal(t, "PK-1700000000", p.Get("Reference1").Text())
	assert.Equal(t, "Ready", p.Get("Status").Text())
	assert.Equal(t, "2024-03-10T10:00:00", p.Get("ReadyTime").Text())
	assert.Equal(t, "Omar Haddad", p.Path("PickupContact", "PersonName").Text())

	item := p.Path("PickupItems", "PickupItemDetail")
	assert.Equal(t, "EXP", item.Get("ProductGroup").Text())
	assert.Equal(t, "PPX", item.Get("ProductType").Text())
	assert.Equal(t, "P", item.Get("Payment").Text())
	assert.Equal(t, "1", item.Get("NumberOfPieces").Text())
	assert.Equal(t, "1", item.Get("NumberOfShipments").Text())
	assert.Equal(t, []string{"Unit", "Value"}, fieldNames(item.Get("ShipmentWeight")))
	assert.Equal(t, "CM3", item.Path("ShipmentVolume", "Unit").Text())
	assert.Equal(t, "1000", item.Path("ShipmentVolume", "Value").Text())
	assert.True(t, item.Get("CashAmount").IsAbsent())
	assert.True(t, item.Get("ShipmentDimensions").IsAbsent())
}

func TestBuilder_PickupOverrides(t *testing.T) {
	req := validPickup()
	req.Status = shipper.PickupPending
	req.ProductGroup = "DOM"
	req.PaymentType = shipper.PaymentCollect
	req.Pieces = 4
	req.Reference = "PU-77"

	body, err := sandboxBuilder(t).Pickup(req)
	require.NoError(t, err)
	p := body.Get("Pickup")
	assert.Equal(t, "Pending", p.Get("Status").Text())
	assert.Equal(t, "PU-77", p.Get("Reference1").Text())
	assert.Equal(t, "DOM", p.Path("PickupItems", "PickupItemDetail", "ProductGroup").Text())
	assert.Equal(t, "C", p.Path("PickupItems", "PickupItemDetail", "Payment").Text())
	assert.Equal(t, "4", p.Path("PickupItems", "PickupItemDetail", "NumberOfPieces").Text())
}

func TestBuilder_PickupMissingTimes(t *testing.T) {
	req := validPickup()
	req.ReadyTime = time.Time{}
	req.Weight = 0

	_, err := sandboxBuilder(t).Pickup(req)
	require.Error(t, err)
	codes := detailCodes(t, err)
	assert.Contains(t, codes, "readyTime")
	assert.Contains(t, codes, "weight")
}

func TestBuilder_Tracking(t *testing.T) {
	body, err := sandboxBuilder(t).Tracking(&shipper.TrackingRequest{
		Shipments:      []string{" 44012345678 "},
		LastUpdateOnly: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ClientInfo", "Transaction", "Shipments", "GetLastTrackingUpdateOnly"}, fieldNames(body))
	assert.Equal(t, "TR-1700000000", body.Path("Transaction", "Reference1").Text())

	xml, err := wire.Encode(aramex.OpTrackShipments.Name, body, aramex.Namespace,
		wire.WithNamespace("arr", aramex.ArraysNamespace))
	require.NoError(t, err)
	out := string(xml)
	assert.Equal(t, 1, strings.Count(out, "<arr:string>"))
	assert.Contains(t, out, "<arr:string>44012345678</arr:string>")
	assert.Contains(t, out, "<v1:GetLastTrackingUpdateOnly>true</v1:GetLastTrackingUpdateOnly>")
	assert.Contains(t, out, `xmlns:arr="`+aramex.ArraysNamespace+`"`)
}

func TestBuilder_TrackingRejectsBlankIdentifiers(t *testing.T) {
	_, err := sandboxBuilder(t).Tracking(&shipper.TrackingRequest{})
	require.Error(t, err)
	assert.Contains(t, detailCodes(t, err), "shipments")

	_, err = sandboxBuilder(t).Tracking(&shipper.TrackingRequest{Shipments: []string{"123", "   ", ""}})
	require.Error(t, err)
	codes := detailCodes(t, err)
	assert.Contains(t, codes, "shipments[1]")
	assert.Contains(t, codes, "shipments[2]")
}

func TestBuilder_Countries(t *testing.T) {
	b := sandboxBuilder(t)

	op, body, err := b.Countries("")
	require.NoError(t, err)
	assert.Equal(t, aramex.OpFetchCountries, op)
	assert.Equal(t, []string{"ClientInfo", "Transaction"}, fieldNames(body))
	assert.Equal(t, "CountriesFetch", body.Path("Transaction", "Reference1").Text())

	op, body, err = b.Countries("JO")
	require.NoError(t, err)
	assert.Equal(t, aramex.OpFetchCountry, op)
	assert.Equal(t, "JO", body.Get("Code").Text())
	assert.Equal(t, "CountriesFetch", body.Path("Transaction", "Reference1").Text())

	_, _, err = b.Countries("Jordan")
	require.Error(t, err)
	assert.Equal(t, []string{"code"}, detailCodes(t, err))
}

func TestBuilder_Cities(t *testing.T) {
	body, err := sandboxBuilder(t).Cities(&shipper.CitiesRequest{CountryCode: "JO", NameStartsWith: "Am"})
	require.NoError(t, err)

	assert.Equal(t, []string{"ClientInfo", "Transaction", "CountryCode", "State", "NameStartsWith"}, fieldNames(body))
	assert.Equal(t, "CityList", body.Path("Transaction", "Reference1").Text())
	assert.True(t, body.Get("State").IsAbsent())
	assert.Equal(t, "Am", body.Get("NameStartsWith").Text())

	_, err = sandboxBuilder(t).Cities(&shipper.CitiesRequest{})
	require.Error(t, err)
	assert.Contains(t, detailCodes(t, err), "countryCode")
}

func TestBuilder_AddressValidation(t *testing.T) {
	addr := dubaiAddress()
	body, err := sandboxBuilder(t).AddressValidation(&addr)
	require.NoError(t, err)

	assert.Equal(t, "AddressValidation", body.Path("Transaction", "Reference1").Text())
	assert.Equal(t, "Dubai", body.Path("Address", "City").Text())

	_, err = sandboxBuilder(t).AddressValidation(&shipper.Address{City: "Dubai"})
	require.Error(t, err)
	codes := detailCodes(t, err)
	assert.Contains(t, codes, "line1")
	assert.Contains(t, codes, "countryCode")
}

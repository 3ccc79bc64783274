package aramex

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/aramex/pkg/wire"
)

// MockCall is one request seen by MockAPIClient.
type MockCall struct {
	Operation Operation
	Body      wire.Node
}

// MockAPIClient is a mock implementation of APIClient for testing and
// offline runs. Replies have the shape of real Aramex responses.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreatePickup    func(ctx context.Context, body wire.Node) (*Response, error)
	OnCreateShipments func(ctx context.Context, body wire.Node) (*Response, error)
	OnCalculateRate   func(ctx context.Context, body wire.Node) (*Response, error)
	OnTrackShipments  func(ctx context.Context, body wire.Node) (*Response, error)
	OnFetchCountries  func(ctx context.Context, body wire.Node) (*Response, error)
	OnFetchCountry    func(ctx context.Context, body wire.Node) (*Response, error)
	OnFetchCities     func(ctx context.Context, body wire.Node) (*Response, error)
	OnValidateAddress func(ctx context.Context, body wire.Node) (*Response, error)

	mu    sync.Mutex
	calls []MockCall
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Calls returns the requests received so far.
func (m *MockAPIClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// LastCall returns the most recent request, if any.
func (m *MockAPIClient) LastCall() (MockCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return MockCall{}, false
	}
	return m.calls[len(m.calls)-1], true
}

// Call dispatches to the matching hook or returns a canned reply.
func (m *MockAPIClient) Call(ctx context.Context, op Operation, body wire.Node) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Operation: op, Body: body})
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.SimulateErrors {
		return mockResponse(failedReply(body)), nil
	}

	if hook := m.hook(op); hook != nil {
		return hook(ctx, body)
	}

	switch op {
	case OpCreatePickup:
		return mockResponse(pickupReply(body)), nil
	case OpCreateShipments:
		return mockResponse(shipmentsReply(body)), nil
	case OpCalculateRate:
		return mockResponse(rateReply(body)), nil
	case OpTrackShipments:
		return mockResponse(trackingReply(body)), nil
	case OpFetchCountries:
		return mockResponse(countriesReply(body)), nil
	case OpFetchCountry:
		return mockResponse(countryReply(body)), nil
	case OpFetchCities:
		return mockResponse(citiesReply(body)), nil
	case OpValidateAddress:
		return mockResponse(addressReply(body)), nil
	default:
		return nil, fmt.Errorf("mock: unsupported operation %s", op)
	}
}

func (m *MockAPIClient) hook(op Operation) func(context.Context, wire.Node) (*Response, error) {
	switch op {
	case OpCreatePickup:
		return m.OnCreatePickup
	case OpCreateShipments:
		return m.OnCreateShipments
	case OpCalculateRate:
		return m.OnCalculateRate
	case OpTrackShipments:
		return m.OnTrackShipments
	case OpFetchCountries:
		return m.OnFetchCountries
	case OpFetchCountry:
		return m.OnFetchCountry
	case OpFetchCities:
		return m.OnFetchCities
	case OpValidateAddress:
		return m.OnValidateAddress
	}
	return nil
}

func mockResponse(body wire.Node) *Response {
	return &Response{Body: body}
}

func reply(req wire.Node, fields ...wire.Field) wire.Node {
	head := []wire.Field{
		wire.F("Transaction", req.Get("Transaction")),
		wire.F("Notifications", wire.Absent()),
		wire.F("HasErrors", wire.String("false")),
	}
	return wire.Map(append(head, fields...)...)
}

func failedReply(req wire.Node) wire.Node {
	return wire.Map(
		wire.F("Transaction", req.Get("Transaction")),
		wire.F("Notifications", wire.Map(wire.F("Notification", wire.Map(
			wire.F("Code", wire.String("MOCK_ERROR")),
			wire.F("Message", wire.String("Simulated API error")),
		)))),
		wire.F("HasErrors", wire.String("true")),
	)
}

func pickupReply(req wire.Node) wire.Node {
	return reply(req, wire.F("ProcessedPickup", wire.Map(
		wire.F("ID", wire.String(fmt.Sprintf("%08d", time.Now().UnixNano()%100000000))),
		wire.F("GUID", wire.String(uuid.New().String())),
		wire.F("Reference1", req.Path("Pickup", "Reference1")),
		wire.F("Reference2", wire.String("")),
		wire.F("ProcessedShipments", wire.Absent()),
	)))
}

func shipmentsReply(req wire.Node) wire.Node {
	var processed []wire.Node
	for _, s := range req.Path("Shipments", "Shipment").Items() {
		awb := fmt.Sprintf("4%010d", time.Now().UnixNano()%10000000000)
		processed = append(processed, wire.Map(
			wire.F("ID", wire.String(awb)),
			wire.F("Reference1", s.Get("Reference1")),
			wire.F("Reference2", wire.String("")),
			wire.F("Reference3", wire.String("")),
			wire.F("ForeignHAWB", wire.String("")),
			wire.F("HasErrors", wire.String("false")),
			wire.F("Notifications", wire.Absent()),
			wire.F("ShipmentLabel", wire.Map(
				wire.F("LabelURL", wire.String("https://ws.aramex.net/content/rpt_cache/"+uuid.New().String()+".pdf")),
				wire.F("LabelFileContents", wire.Absent()),
			)),
		))
	}
	return reply(req, wire.F("Shipments", wire.Map(wire.F("ProcessedShipment", wire.List(processed...)))))
}

func rateReply(req wire.Node) wire.Node {
	kg, _ := req.Path("ShipmentDetails", "ActualWeight", "Value").Float()
	return reply(req, wire.F("TotalAmount", wire.Map(
		wire.F("CurrencyCode", req.Get("PreferredCurrencyCode")),
		wire.F("Value", wire.String(fmt.Sprintf("%.2f", 12.5+4.75*kg))),
	)))
}

func trackingReply(req wire.Node) wire.Node {
	now := time.Now()
	var results []wire.Node
	for _, id := range req.Path("Shipments", "arr:string").Items() {
		awb := id.Text()
		results = append(results, wire.Map(
			wire.F("Key", wire.String(awb)),
			wire.F("Value", wire.Map(wire.F("TrackingResult", wire.Map(
				wire.F("WaybillNumber", wire.String(awb)),
				wire.F("UpdateCode", wire.String("SH003")),
				wire.F("UpdateDescription", wire.String("Out for Delivery")),
				wire.F("UpdateDateTime", wire.String(now.Format(dateLayout))),
				wire.F("UpdateLocation", wire.String("Amman, Jordan")),
				wire.F("Comments", wire.String("")),
				wire.F("ProblemCode", wire.String("")),
			)))),
		))
	}
	return reply(req,
		wire.F("TrackingResults", wire.Map(wire.F("KeyValueOfstringArrayOfTrackingResultmFAkxlpY", wire.List(results...)))),
		wire.F("NonExistingWaybills", wire.Absent()),
	)
}

var mockCountries = []struct{ code, name, iso3 string }{
	{"AE", "United Arab Emirates", "ARE"},
	{"JO", "Jordan", "JOR"},
	{"SA", "Saudi Arabia", "SAU"},
}

func country(code, name, iso3 string) wire.Node {
	return wire.Map(
		wire.F("Code", wire.String(code)),
		wire.F("Name", wire.String(name)),
		wire.F("IsoCode", wire.String(iso3)),
		wire.F("StateRequired", wire.String("false")),
		wire.F("PostCodeRequired", wire.String("false")),
		wire.F("PostCodeRegex", wire.Absent()),
		wire.F("InternationalCallingNumber", wire.String("")),
	)
}

func countriesReply(req wire.Node) wire.Node {
	list := make([]wire.Node, len(mockCountries))
	for i, c := range mockCountries {
		list[i] = country(c.code, c.name, c.iso3)
	}
	return reply(req, wire.F("Countries", wire.Map(wire.F("Country", wire.List(list...)))))
}

func countryReply(req wire.Node) wire.Node {
	code := req.Get("Code").Text()
	for _, c := range mockCountries {
		if c.code == code {
			return reply(req, wire.F("Country", country(c.code, c.name, c.iso3)))
		}
	}
	return reply(req, wire.F("Country", country(code, code, "")))
}

func citiesReply(req wire.Node) wire.Node {
	cities := []wire.Node{wire.String("Amman"), wire.String("Aqaba"), wire.String("Irbid")}
	return reply(req, wire.F("Cities", wire.Map(wire.F("string", wire.List(cities...)))))
}

func addressReply(req wire.Node) wire.Node {
	return reply(req, wire.F("SuggestedAddresses", wire.Map(wire.F("Address", req.Get("Address")))))
}

var _ APIClient = (*MockAPIClient)(nil)

package aramex

import (
	"fmt"
	"strings"

	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

// Tracking builds a TrackShipments body. Identifiers are trimmed; a blank
// one is rejected.
func (b *Builder) Tracking(t *shipper.TrackingRequest) (wire.Node, error) {
	details := violations(t)
	if t != nil {
		for i, id := range t.Shipments {
			if id != "" && strings.TrimSpace(id) == "" {
				path := fmt.Sprintf("shipments[%d]", i)
				details = append(details, shipper.Notification{Code: path, Message: path + " is required"})
			}
		}
	}
	if len(details) > 0 {
		return wire.Absent(), validationError(OpTrackShipments, details)
	}

	ids := make([]wire.Node, len(t.Shipments))
	for i, id := range t.Shipments {
		ids[i] = wire.String(strings.TrimSpace(id))
	}

	return wire.Map(
		wire.F("ClientInfo", b.clientInfo()),
		wire.F("Transaction", transaction(b.reference(prefixTracking, t.Reference))),
		wire.F("Shipments", wire.Map(wire.F("arr:string", wire.List(ids...)))),
		wire.F("GetLastTrackingUpdateOnly", wire.Bool(t.LastUpdateOnly)),
	), nil
}

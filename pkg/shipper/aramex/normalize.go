package aramex

import (
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

const unknownError = "Unknown Error"

// Normalize turns a decoded reply into either the reply itself or a carrier
// error. A reply whose HasErrors flag is not true is returned verbatim.
//
// Notifications are taken from the first source that has any: the
// per-shipment lists of multi-shipment operations, then the top-level list.
// The first notification heads the error; all of them are kept as details.
func Normalize(op Operation, resp wire.Node, raw []byte) (wire.Node, error) {
	if failed, _ := resp.Get("HasErrors").Bool(); !failed {
		return resp, nil
	}

	notes := processedNotifications(resp)
	if len(notes) == 0 {
		notes = notifications(resp.Get("Notifications"))
	}
	if len(notes) == 0 {
		notes = []shipper.Notification{{Message: unknownError}}
	}

	return wire.Absent(), shipper.NewError(carrierName, shipper.KindCarrier, notes[0].Message).
		WithOperation(op.Name).
		WithCode(notes[0].Code).
		WithDetails(notes).
		WithResponse(resp, raw)
}

func processedNotifications(resp wire.Node) []shipper.Notification {
	var notes []shipper.Notification
	for _, ps := range resp.Path("Shipments", "ProcessedShipment").Items() {
		notes = append(notes, notifications(ps.Get("Notifications"))...)
	}
	return notes
}

func notifications(list wire.Node) []shipper.Notification {
	var notes []shipper.Notification
	for _, n := range list.Get("Notification").Items() {
		code := n.Get("Code").Text()
		msg := n.Get("Message").Text()
		if code == "" && msg == "" {
			continue
		}
		if msg == "" {
			msg = unknownError
		}
		notes = append(notes, shipper.Notification{Code: code, Message: msg})
	}
	return notes
}

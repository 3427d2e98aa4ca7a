package domain

import (
	"encoding/json"
	"time"
)

var (
	MessageSuccessPollAlerts = "alerts retrieved successfully"
	MessageSuccessScan       = "pantry scanned successfully"

	MessageFailedPollAlerts = "failed to retrieve alerts"
	MessageFailedScan       = "failed to scan pantry"
)

// EventKind tags a domain event.
type EventKind string

const (
	EventLowStock         EventKind = "pantry.low_stock"
	EventNearExpiry       EventKind = "pantry.near_expiry"
	EventExpired          EventKind = "pantry.expired"
	EventExpiringSnapshot EventKind = "pantry.expiring_snapshot"

	// EventAny subscribes to every kind.
	EventAny EventKind = "*"
)

// Event is an immutable pantry notification. Quantity, Threshold and Unit are
// set for low-stock events; DaysLeft for the expiry kinds.
type Event struct {
	Kind      EventKind
	Name      string
	At        time.Time
	Unit      string
	Quantity  float64
	Threshold float64
	DaysLeft  int
}

func (e Event) fields() map[string]any {
	out := map[string]any{
		"type": e.Kind,
		"ts":   e.At.UTC().Format(time.RFC3339),
		"name": e.Name,
	}
	switch e.Kind {
	case EventLowStock:
		out["unit"] = e.Unit
		out["quantity"] = e.Quantity
		out["threshold"] = e.Threshold
	case EventNearExpiry, EventExpired, EventExpiringSnapshot:
		out["days_left"] = e.DaysLeft
	}
	return out
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.fields())
}

// BufferedAlert is an event with the id the alert buffer assigned to it.
type BufferedAlert struct {
	ID    int64
	Event Event
}

func (a BufferedAlert) MarshalJSON() ([]byte, error) {
	out := a.Event.fields()
	out["id"] = a.ID
	return json.Marshal(out)
}

type (
	PollAlertsResponse struct {
		Events     []BufferedAlert `json:"events"`
		NextCursor int64           `json:"next_cursor"`
	}

	ScanResponse struct {
		Expiring []Event `json:"expiring"`
		Alerts   []Event `json:"alerts"`
	}
)

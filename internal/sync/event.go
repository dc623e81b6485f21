package sync

import (
	"encoding/json"
	"fmt"
	"time"
)

// Family names a class of records whose changes are broadcast together.
type Family string

const (
	FamilyMenu   Family = "menu"
	FamilyOrders Family = "orders"
)

// ParseFamily validates a family name from an untrusted source.
func ParseFamily(raw string) (Family, error) {
	switch Family(raw) {
	case FamilyMenu, FamilyOrders:
		return Family(raw), nil
	default:
		return "", fmt.Errorf("unknown resource family %q", raw)
	}
}

// Change classifies a mutation.
type Change string

const (
	ChangeCreated Change = "created"
	ChangeUpdated Change = "updated"
	ChangeDeleted Change = "deleted"
)

// Event is one change notification. Delivery is at-least-once and carries
// no completeness guarantee: subscribers treat an event as a hint to
// reconcile, applying the inline payload last-write-wins or refetching the
// record. Payload holds the affected row as JSON for created/updated events
// and is empty for deletions.
type Event struct {
	Family     Family          `json:"family"`
	Change     Change          `json:"change"`
	RecordID   string          `json:"recordId"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// DecodeEvent parses the JSON produced by the notify trigger, rejecting
// anything that does not satisfy the payload contract.
func DecodeEvent(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("malformed change notification: %w", err)
	}
	if _, err := ParseFamily(string(ev.Family)); err != nil {
		return Event{}, err
	}
	switch ev.Change {
	case ChangeCreated, ChangeUpdated, ChangeDeleted:
	default:
		return Event{}, fmt.Errorf("unknown change type %q", ev.Change)
	}
	if ev.RecordID == "" {
		return Event{}, fmt.Errorf("change notification missing record id")
	}
	return ev, nil
}

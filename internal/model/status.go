package model

import "fmt"

// Status is an order's position in the fulfilment sequence. Transitions
// only ever move forward one step; completed is terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

// Next returns the successor status. Completed saturates: advancing a
// finished order leaves it completed rather than failing.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusPreparing
	case StatusPreparing:
		return StatusReady
	case StatusReady:
		return StatusCompleted
	default:
		return StatusCompleted
	}
}

// Terminal reports whether the status has no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// ParseStatus converts a stored string into a Status, rejecting anything
// outside the fixed sequence. Repositories use it so malformed rows surface
// as errors instead of leaking untyped values into the core.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("unknown order status %q", raw)
	}
}

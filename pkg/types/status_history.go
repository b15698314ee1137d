package types

import "time"

// StatusChange is one entry in an order's append-only status log. The initial
// status assigned at creation is not recorded; only changes are.
type StatusChange struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      *string   `json:"note,omitempty"`
}

// StatusHistory is the ordered status transition log stored as JSONB.
type StatusHistory []StatusChange

// Append returns the history with a new entry added at the end.
func (h StatusHistory) Append(status string, at time.Time, note *string) StatusHistory {
	return append(h, StatusChange{Status: status, Timestamp: at, Note: note})
}

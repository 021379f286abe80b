package events

import (
	"time"
)

// TransactionRejected is published to the audit topic whenever the engine
// drops an event. It mirrors the rejection log line so downstream consumers
// can reconstruct why the event was refused.
type TransactionRejected struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	Tx         uint32    `json:"tx"`
	Client     uint16    `json:"client"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RunCompleted is published once per run after the feed is exhausted and the
// summary has been emitted.
type RunCompleted struct {
	RunID       string    `json:"run_id"`
	Accounts    int       `json:"accounts"`
	Records     int       `json:"records"`
	Processed   int       `json:"processed"`
	Rejected    int       `json:"rejected"`
	CompletedAt time.Time `json:"completed_at"`
}

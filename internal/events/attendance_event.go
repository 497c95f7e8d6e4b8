package events

import "time"

const AttendanceTopic = "attendance.clock.v1"

const (
	EventTypeClockedIn  = "attendance.clocked_in"
	EventTypeClockedOut = "attendance.clocked_out"
)

// AttendanceEvent is published whenever a ledger row is inserted or closed.
// Downstream consumers (payroll exports, dashboards) read it off Kafka.
type AttendanceEvent struct {
	EventType  string    `json:"event_type"`
	Phone      string    `json:"phone"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Office     string    `json:"office"`
	OccurredAt time.Time `json:"occurred_at"`
}

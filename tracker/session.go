package tracker

import (
	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/stop-proximity/geo"
	"github.com/theoremus-urban-solutions/stop-proximity/stations"
)

// State is the alert state machine position.
type State int

const (
	// StateIdle means no active session.
	StateIdle State = iota
	// StateArmed means the session is active and outside the alert zone.
	StateArmed
	// StateAlerting means the last applied distance was within the threshold.
	StateAlerting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateAlerting:
		return "alerting"
	}
	return "unknown"
}

// Session is the single tracking session. Alerted is a latch: set on the
// first zone entry, cleared only when the distance exceeds the threshold
// again or tracking stops.
type Session struct {
	ID               uuid.UUID
	UserPosition     *geo.Point
	Station          *stations.Station
	AlertThresholdKM float64
	Active           bool
	Alerted          bool
}

// Armed reports whether the session can produce alerts: it needs both a
// position and a station. Absent either, the session is unarmed.
func (s Session) Armed() bool {
	return s.Active && s.UserPosition != nil && s.Station != nil
}

package alert

import (
	"context"
	"time"
)

// State is the latch position.
type State int

const (
	// StateMonitoring means the last reading stayed within every threshold.
	StateMonitoring State = iota
	// StateAlerting means the last reading exceeded at least one threshold.
	StateAlerting
)

// String returns the human-readable state name.
func (s State) String() string {
	if s == StateAlerting {
		return "alerting"
	}

	return "monitoring"
}

// ParseState converts a name produced by State.String back to a State.
func ParseState(s string) (State, bool) {
	switch s {
	case "monitoring":
		return StateMonitoring, true
	case "alerting":
		return StateAlerting, true
	default:
		return StateMonitoring, false
	}
}

// EventKind tells whether an alert was raised or cleared.
type EventKind int

const (
	// EventRaised is emitted on the Monitoring to Alerting transition.
	EventRaised EventKind = iota + 1
	// EventCleared is emitted on the Alerting to Monitoring transition.
	EventCleared
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventRaised:
		return "raised"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// ParseEventKind converts a name produced by EventKind.String back to an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "raised":
		return EventRaised, true
	case "cleared":
		return EventCleared, true
	default:
		return 0, false
	}
}

// Event is the notification produced when the latch changes state.
type Event struct {
	// ID uniquely identifies the event.
	ID string
	// Kind is raised or cleared.
	Kind EventKind
	// Reading is the sample that caused the transition.
	Reading Reading
	// Breaches lists the quantities above their limits. Empty for cleared events.
	Breaches []Quantity
	// Timestamp is when the transition happened.
	Timestamp time.Time
}

// Clone returns a copy of the event that shares no slices with the original.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}

	cloned := *e
	cloned.Breaches = append([]Quantity(nil), e.Breaches...)

	return &cloned
}

// Evaluation is the outcome of a single latch evaluation.
type Evaluation struct {
	// Reading is the evaluated sample.
	Reading Reading
	// FireDetected reports whether any threshold was exceeded.
	FireDetected bool
	// Previous is the state before the evaluation.
	Previous State
	// Current is the state after the evaluation.
	Current State
	// Breaches lists the quantities above their limits.
	Breaches []Quantity
	// RiskScore is an informational score between 0 and 1.
	RiskScore float64
	// RiskLevel grades RiskScore. It never drives the latch.
	RiskLevel RiskLevel
	// Event is set only when the state changed.
	Event *Event
	// Timestamp is when the evaluation happened.
	Timestamp time.Time
}

// Notifier receives state transition events.
//
// Notify runs synchronously on the goroutine that evaluated the reading and
// the latch waits for it. Callers that serialize evaluations behind a lock,
// like guardian-server, hold that lock for the whole delivery, so a slow sink
// delays every other evaluation.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, event Event)

// Notify calls f(ctx, event).
func (f NotifierFunc) Notify(ctx context.Context, event Event) {
	f(ctx, event)
}

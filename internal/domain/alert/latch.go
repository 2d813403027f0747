package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Latch raises an alert when a reading exceeds any threshold and clears it
// when a reading stays within all of them. Notifications are emitted only on
// state changes.
//
// A Latch is not safe for concurrent use.
type Latch struct {
	// thresholds are the limits fixed at construction.
	thresholds Thresholds
	// state is the position after the last evaluation.
	state State
	// notifier receives transition events, may be nil.
	notifier Notifier
	// now returns the current time.
	now func() time.Time
	// newID returns a unique event identifier.
	newID func() string
}

// Option configures a Latch.
type Option func(*Latch)

// WithNotifier sets the transition event receiver.
func WithNotifier(n Notifier) Option {
	return func(l *Latch) {
		l.notifier = n
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Latch) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides the event identifier generator.
func WithIDGenerator(newID func() string) Option {
	return func(l *Latch) {
		if newID != nil {
			l.newID = newID
		}
	}
}

// NewLatch creates a latch in the Monitoring state.
func NewLatch(thresholds Thresholds, opts ...Option) (*Latch, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("new latch: %w", err)
	}

	l := &Latch{
		thresholds: thresholds,
		state:      StateMonitoring,
		now:        time.Now,
		newID:      uuid.NewString,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Evaluate applies the reading and reports whether fire was detected.
func (l *Latch) Evaluate(ctx context.Context, r Reading) bool {
	return l.Apply(ctx, r).FireDetected
}

// Apply evaluates the reading, updates the state, notifies on transitions and
// returns the full evaluation.
func (l *Latch) Apply(ctx context.Context, r Reading) Evaluation {
	var (
		breaches = l.thresholds.Breaches(r)
		detected = len(breaches) > 0
		previous = l.state
		now      = l.now()
		score    = RiskScore(l.thresholds, r)
	)

	evaluation := Evaluation{
		Reading:      r,
		FireDetected: detected,
		Previous:     previous,
		Current:      previous,
		Breaches:     breaches,
		RiskScore:    score,
		RiskLevel:    ClassifyRisk(score),
		Timestamp:    now,
	}

	var kind EventKind

	switch {
	case detected && previous == StateMonitoring:
		l.state, kind = StateAlerting, EventRaised
	case !detected && previous == StateAlerting:
		l.state, kind = StateMonitoring, EventCleared
	default:
		return evaluation
	}

	evaluation.Current = l.state
	evaluation.Event = &Event{
		ID:        l.newID(),
		Kind:      kind,
		Reading:   r,
		Breaches:  append([]Quantity(nil), breaches...),
		Timestamp: now,
	}

	if l.notifier != nil {
		l.notifier.Notify(ctx, *evaluation.Event.Clone())
	}

	return evaluation
}

// State returns the current latch position.
func (l *Latch) State() State {
	return l.state
}

// Thresholds returns the limits the latch compares against.
func (l *Latch) Thresholds() Thresholds {
	return l.thresholds
}

package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recorder collects the events passed to Notify.
type recorder struct {
	events []Event
}

// Notify appends the event to the recorded list.
func (r *recorder) Notify(_ context.Context, event Event) {
	r.events = append(r.events, event)
}

// newTestLatch builds a latch with default thresholds and a recording notifier.
func newTestLatch(t *testing.T) (*Latch, *recorder) {
	t.Helper()

	rec := new(recorder)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	latch, err := NewLatch(
		DefaultThresholds(),
		WithNotifier(rec),
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string { return "event-1" }),
	)
	require.NoError(t, err)

	return latch, rec
}

// TestNewLatch_RejectsInvalidThresholds ensures construction fails on non-positive limits.
func TestNewLatch_RejectsInvalidThresholds(t *testing.T) {
	t.Parallel()

	_, err := NewLatch(Thresholds{Temperature: 60, Smoke: 0, Gas: 1000})
	require.ErrorIs(t, err, ErrInvalidThreshold)

	latch, err := NewLatch(DefaultThresholds())
	require.NoError(t, err)
	require.Equal(t, StateMonitoring, latch.State())
	require.Equal(t, DefaultThresholds(), latch.Thresholds())
}

// TestLatch_NormalReadingStaysMonitoring checks readings within limits never alert.
func TestLatch_NormalReadingStaysMonitoring(t *testing.T) {
	t.Parallel()

	latch, rec := newTestLatch(t)

	// Values equal to the limits are not breaches.
	for _, r := range []Reading{
		{Temperature: 20, Smoke: 0, Gas: 0},
		{Temperature: 60, Smoke: 300, Gas: 1000},
	} {
		require.False(t, latch.Evaluate(context.Background(), r))
		require.Equal(t, StateMonitoring, latch.State())
	}

	require.Empty(t, rec.events)
}

// TestLatch_AnyBreachAlerts verifies a single exceeded quantity is enough to alert.
func TestLatch_AnyBreachAlerts(t *testing.T) {
	t.Parallel()

	cases := map[Quantity]Reading{
		QuantityTemperature: {Temperature: 60.5, Smoke: 100, Gas: 200},
		QuantitySmoke:       {Temperature: 20, Smoke: 301, Gas: 200},
		QuantityGas:         {Temperature: 20, Smoke: 100, Gas: 1001},
	}

	for q, r := range cases {
		latch, rec := newTestLatch(t)

		evaluation := latch.Apply(context.Background(), r)
		require.True(t, evaluation.FireDetected, q.String())
		require.Equal(t, []Quantity{q}, evaluation.Breaches)
		require.Equal(t, StateAlerting, latch.State())
		require.Len(t, rec.events, 1)
		require.Equal(t, []Quantity{q}, rec.events[0].Breaches)
	}
}

// TestLatch_RaisedOnce verifies repeated breaches produce a single raised event.
func TestLatch_RaisedOnce(t *testing.T) {
	t.Parallel()

	latch, rec := newTestLatch(t)
	reading := Reading{Temperature: 65, Smoke: 100, Gas: 200}

	evaluation := latch.Apply(context.Background(), reading)
	require.True(t, evaluation.FireDetected)
	require.Equal(t, StateMonitoring, evaluation.Previous)
	require.Equal(t, StateAlerting, evaluation.Current)
	require.NotNil(t, evaluation.Event)
	require.Equal(t, EventRaised, evaluation.Event.Kind)

	require.Len(t, rec.events, 1)
	require.Equal(t, "event-1", rec.events[0].ID)
	require.Equal(t, reading, rec.events[0].Reading)

	evaluation = latch.Apply(context.Background(), Reading{Temperature: 90, Smoke: 400, Gas: 1200})
	require.True(t, evaluation.FireDetected)
	require.Nil(t, evaluation.Event)
	require.Len(t, rec.events, 1)
}

// TestLatch_ClearedOnce verifies the first normal reading after an alert clears it exactly once.
func TestLatch_ClearedOnce(t *testing.T) {
	t.Parallel()

	latch, rec := newTestLatch(t)

	require.True(t, latch.Evaluate(context.Background(), Reading{Temperature: 65, Smoke: 100, Gas: 200}))
	require.False(t, latch.Evaluate(context.Background(), Reading{Temperature: 40, Smoke: 100, Gas: 200}))
	require.Equal(t, StateMonitoring, latch.State())
	require.False(t, latch.Evaluate(context.Background(), Reading{Temperature: 40, Smoke: 100, Gas: 200}))

	require.Len(t, rec.events, 2)
	require.Equal(t, EventRaised, rec.events[0].Kind)
	require.Equal(t, EventCleared, rec.events[1].Kind)
	require.Empty(t, rec.events[1].Breaches)
}

// TestLatch_RepeatedReadingIsIdempotent feeds the same reading several times.
func TestLatch_RepeatedReadingIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, reading := range []Reading{
		{Temperature: 65, Smoke: 100, Gas: 200},
		{Temperature: 40, Smoke: 100, Gas: 200},
	} {
		latch, rec := newTestLatch(t)

		first := latch.Evaluate(context.Background(), reading)
		state := latch.State()
		notified := len(rec.events)

		for range 5 {
			require.Equal(t, first, latch.Evaluate(context.Background(), reading))
			require.Equal(t, state, latch.State())
		}

		require.Len(t, rec.events, notified)
	}
}

// TestLatch_NotifierReceivesCopy ensures a notifier cannot alter the evaluation's breaches.
func TestLatch_NotifierReceivesCopy(t *testing.T) {
	t.Parallel()

	mutate := NotifierFunc(func(_ context.Context, event Event) {
		event.Breaches[0] = QuantityGas
	})

	latch, err := NewLatch(DefaultThresholds(), WithNotifier(mutate))
	require.NoError(t, err)

	evaluation := latch.Apply(context.Background(), Reading{Temperature: 65})
	require.Equal(t, []Quantity{QuantityTemperature}, evaluation.Event.Breaches)
	require.NotEmpty(t, evaluation.Event.ID)
}

// TestLatch_CustomThresholds runs the transition rules against non-default limits.
func TestLatch_CustomThresholds(t *testing.T) {
	t.Parallel()

	rec := new(recorder)
	thresholds := Thresholds{Temperature: 10, Smoke: 20, Gas: 30}

	latch, err := NewLatch(thresholds, WithNotifier(rec))
	require.NoError(t, err)
	require.Equal(t, thresholds, latch.Thresholds())

	ctx := context.Background()

	// Readings at the limits and default-safe values.
	require.False(t, latch.Evaluate(ctx, Reading{Temperature: 10, Smoke: 20, Gas: 30}))
	require.Empty(t, rec.events)

	// 40 °C is safe under defaults but breaches a 10 °C limit.
	evaluation := latch.Apply(ctx, Reading{Temperature: 40})
	require.True(t, evaluation.FireDetected)
	require.Equal(t, []Quantity{QuantityTemperature}, evaluation.Breaches)
	require.Len(t, rec.events, 1)
	require.Equal(t, EventRaised, rec.events[0].Kind)

	evaluation = latch.Apply(ctx, Reading{Temperature: 15, Smoke: 30, Gas: 45})
	require.Nil(t, evaluation.Event)
	require.Equal(t, RiskCritical, evaluation.RiskLevel)
	require.Len(t, rec.events, 1)

	require.False(t, latch.Evaluate(ctx, Reading{Temperature: 5, Smoke: 5, Gas: 5}))
	require.Len(t, rec.events, 2)
	require.Equal(t, EventCleared, rec.events[1].Kind)
	require.Equal(t, StateMonitoring, latch.State())
}

// TestLatch_RiskLevelIsInformational shows an elevated risk grade without a breach.
func TestLatch_RiskLevelIsInformational(t *testing.T) {
	t.Parallel()

	latch, rec := newTestLatch(t)

	// 0.4*(60/90) + 0.35*(300/450) + 0.25*(1000/1500) = 0.67
	evaluation := latch.Apply(context.Background(), Reading{Temperature: 60, Smoke: 300, Gas: 1000})
	require.False(t, evaluation.FireDetected)
	require.InDelta(t, 0.67, evaluation.RiskScore, 1e-9)
	require.Equal(t, RiskWarning, evaluation.RiskLevel)
	require.Equal(t, StateMonitoring, latch.State())
	require.Empty(t, rec.events)
}

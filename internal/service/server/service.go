package server

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
	"github.com/oshokin/guardian-eye/internal/repository/journal"
)

// service encapsulates the alert business logic shared by both transports.
// It is unexported to keep the transports decoupled from the implementation.
type service struct {
	// latch holds the alert state.
	latch *domain.Latch
	// history records evaluations for reports.
	history *domain.History
	// journal lists past events, may be nil.
	journal journal.Repository
	// mu serializes latch and history access. Notifiers run while it is held,
	// so events reach sinks in transition order.
	mu sync.Mutex
}

// newService creates a service whose latch notifies the provided notifier.
func newService(
	thresholds domain.Thresholds,
	historySize int,
	repo journal.Repository,
	notifier domain.Notifier,
) (*service, error) {
	latch, err := domain.NewLatch(thresholds, domain.WithNotifier(notifier))
	if err != nil {
		return nil, fmt.Errorf("create latch: %w", err)
	}

	return &service{
		latch:   latch,
		history: domain.NewHistory(historySize),
		journal: repo,
	}, nil
}

// Evaluate applies the reading to the latch.
func (s *service) Evaluate(ctx context.Context, reading domain.Reading) domain.Evaluation {
	s.mu.Lock()
	defer s.mu.Unlock()

	evaluation := s.latch.Apply(ctx, reading)
	s.history.Record(evaluation)

	logger.DebugKV(ctx, "Reading evaluated",
		"source", reading.Source,
		"fire_detected", evaluation.FireDetected,
		"state", evaluation.Current.String(),
		"risk_score", evaluation.RiskScore,
	)

	return evaluation
}

// Status returns the latch state and thresholds.
func (s *service) Status(_ context.Context) (domain.State, domain.Thresholds) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latch.State(), s.latch.Thresholds()
}

// Report summarizes the recorded evaluations.
func (s *service) Report(_ context.Context) domain.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Report()
}

// Events lists the journaled alert events.
func (s *service) Events(ctx context.Context) ([]domain.Event, error) {
	if s.journal == nil {
		return nil, nil
	}

	events, err := s.journal.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}

	return events, nil
}

package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
	"github.com/oshokin/guardian-eye/internal/notify"
	"github.com/oshokin/guardian-eye/internal/repository/journal"
	"github.com/oshokin/guardian-eye/internal/sensor"
	"github.com/oshokin/guardian-eye/internal/version"
)

// Options controls the monitoring session.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ScenarioPath replays readings from a YAML file instead of the simulator.
	ScenarioPath string
	// Interval overrides the period between readings when positive.
	Interval time.Duration
	// Cycles overrides the number of readings when non-negative; 0 runs until stopped.
	Cycles int
	// Verbose enables debug output regardless of the configured level.
	Verbose bool
}

// Session is a configured monitoring loop.
type Session struct {
	// source produces readings.
	source sensor.Source
	// latch evaluates readings.
	latch *alert.Latch
	// history records evaluations for the final report.
	history *alert.History
	// interval is the period between readings.
	interval time.Duration
	// cycles is the number of readings to take, 0 means unbounded.
	cycles int
}

// NewSession creates a session evaluating readings from source with latch.
func NewSession(source sensor.Source, latch *alert.Latch, interval time.Duration, cycles, historySize int) *Session {
	if interval <= 0 {
		interval = config.DefaultInterval
	}

	return &Session{
		source:   source,
		latch:    latch,
		history:  alert.NewHistory(historySize),
		interval: interval,
		cycles:   cycles,
	}
}

// Run loads settings, builds the source, sinks and latch, and runs a session.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guardian-monitor")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	logger.InfoKV(ctx, "Starting guardian-monitor", version.Fields()...)

	if opts.Verbose {
		ctx = logger.WithVerbose(ctx)
	}

	source, err := buildSource(ctx, cfg, opts.ScenarioPath)
	if err != nil {
		return err
	}

	repo := journal.NewFileRepository(cfg.JournalFile)

	sinks, closeSinks, err := notify.FromConfig(ctx, cfg, notify.NewJournal(repo))
	if err != nil {
		return fmt.Errorf("build notifiers: %w", err)
	}

	defer func() {
		if closeErr := closeSinks(); closeErr != nil {
			logger.ErrorKV(ctx, "Failed to close notifiers", "error", closeErr)
		}
	}()

	latch, err := alert.NewLatch(cfg.Thresholds, alert.WithNotifier(sinks))
	if err != nil {
		return err
	}

	interval := cfg.Monitor.Interval
	if opts.Interval > 0 {
		interval = opts.Interval
	}

	cycles := cfg.Monitor.Cycles
	if opts.Cycles >= 0 {
		cycles = opts.Cycles
	}

	report, err := NewSession(source, latch, interval, cycles, cfg.HistorySize).Run(ctx)
	LogReport(ctx, report)

	return err
}

// Run evaluates a reading immediately and then once per interval until the
// cycle budget is spent, the source is exhausted or ctx is canceled.
// The report covers every evaluated reading.
func (s *Session) Run(ctx context.Context) (alert.Report, error) {
	thresholds := s.latch.Thresholds()

	logger.InfoKV(ctx, "Monitoring started",
		"state", s.latch.State().String(),
		"temperature_threshold", thresholds.Temperature,
		"smoke_threshold", thresholds.Smoke,
		"gas_threshold", thresholds.Gas,
		"interval", s.interval.String(),
		"cycles", s.cycles,
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for cycle := 1; s.cycles == 0 || cycle <= s.cycles; cycle++ {
		if cycle > 1 {
			select {
			case <-ctx.Done():
				logger.Info(ctx, "Context canceled, stopping monitoring")
				return s.history.Report(), nil
			case <-ticker.C:
			}
		}

		done, err := s.step(ctx, cycle)
		if err != nil {
			return s.history.Report(), err
		}

		if done {
			break
		}
	}

	return s.history.Report(), nil
}

// step takes and evaluates one reading. It reports done when the source is exhausted.
func (s *Session) step(ctx context.Context, cycle int) (bool, error) {
	reading, err := s.source.Read(ctx)

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		logger.Info(ctx, "Reading source exhausted")
		return true, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true, nil
	default:
		return false, fmt.Errorf("read cycle %d: %w", cycle, err)
	}

	evaluation := s.latch.Apply(ctx, reading)
	s.history.Record(evaluation)

	kvs := []any{
		"cycle", cycle,
		"reading", reading.String(),
		"fire_detected", evaluation.FireDetected,
		"state", evaluation.Current.String(),
		"risk_score", evaluation.RiskScore,
		"risk_level", evaluation.RiskLevel.String(),
	}

	if evaluation.RiskLevel == alert.RiskNormal {
		logger.InfoKV(ctx, "Cycle evaluated", kvs...)
	} else {
		logger.WarnKV(ctx, "Cycle evaluated, elevated fire risk", kvs...)
	}

	return false, nil
}

// LogReport writes the session summary.
func LogReport(ctx context.Context, report alert.Report) {
	if report.TotalReadings == 0 {
		logger.Info(ctx, "No readings available for report")
		return
	}

	logger.InfoKV(ctx, "Monitoring report",
		"start", report.Start.Format(time.RFC3339),
		"end", report.End.Format(time.RFC3339),
		"total_readings", report.TotalReadings,
		"fire_readings", report.FireReadings,
		"normal_readings", report.NormalReadings,
		"warnings", report.Warnings,
		"critical_alerts", report.CriticalAlerts,
		"alerts_raised", report.Raised,
		"alerts_cleared", report.Cleared,
		"avg_temperature", report.Averages.Temperature,
		"avg_smoke", report.Averages.Smoke,
		"avg_gas", report.Averages.Gas,
	)
}

// buildSource picks the scenario file when given, the simulator otherwise.
//
//nolint:ireturn // Callers only need the Source behaviour.
func buildSource(ctx context.Context, cfg *config.Config, scenarioPath string) (sensor.Source, error) {
	if scenarioPath != "" {
		scripted, err := sensor.LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}

		logger.InfoKV(ctx, "Replaying scenario", "path", scenarioPath, "readings", scripted.Remaining())

		return scripted, nil
	}

	return sensor.NewSimulated(cfg.Simulator), nil
}

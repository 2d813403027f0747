package sensor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
	source "github.com/oshokin/guardian-eye/internal/sensor"
	"github.com/oshokin/guardian-eye/internal/service/common"
	"github.com/oshokin/guardian-eye/internal/version"
)

// Options controls the sensor push loop and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// ScenarioPath replays readings from a YAML file instead of the simulator.
	ScenarioPath string
	// Interval overrides the period between readings when positive.
	Interval time.Duration
	// Cycles overrides the number of readings when non-negative; 0 runs until stopped.
	Cycles int
}

// Evaluator submits readings for remote evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, reading alert.Reading) (*alert.Evaluation, error)
}

// Run pushes readings to the server until the cycle budget is spent, the
// source is exhausted or ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guardian-sensor")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	logger.InfoKV(ctx, "Starting guardian-sensor", version.Fields()...)

	// Determine server address: command line argument overrides config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	label, err := common.DetectSource()
	if err != nil {
		return fmt.Errorf("detect source: %w", err)
	}

	var readings source.Source = source.NewSimulated(cfg.Simulator)
	if opts.ScenarioPath != "" {
		if readings, err = source.LoadScenario(opts.ScenarioPath); err != nil {
			return err
		}
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	interval := cfg.Monitor.Interval
	if opts.Interval > 0 {
		interval = opts.Interval
	}

	cycles := cfg.Monitor.Cycles
	if opts.Cycles >= 0 {
		cycles = opts.Cycles
	}

	// Every entry of this run carries the reading label.
	ctx = logger.WithKV(ctx, "source", label)

	logger.InfoKV(ctx, "Pushing readings",
		"server_address", serverAddress, "interval", interval.String(), "cycles", cycles)

	pushed, err := Push(ctx, source.Labeled(readings, label), client, interval, cycles)
	logger.InfoKV(ctx, "Push loop finished", "pushed", pushed)

	return err
}

// Push evaluates a reading immediately and then once per interval. Failed
// submissions are logged and the loop continues. It returns the number of
// readings the server accepted.
func Push(ctx context.Context, readings source.Source, evaluator Evaluator, interval time.Duration, cycles int) (int, error) {
	if interval <= 0 {
		interval = config.DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	pushed := 0

	for cycle := 1; cycles == 0 || cycle <= cycles; cycle++ {
		if cycle > 1 {
			select {
			case <-ctx.Done():
				logger.Info(ctx, "Context canceled, exiting")
				return pushed, nil
			case <-ticker.C:
			}
		}

		reading, err := readings.Read(ctx)

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			logger.Info(ctx, "Reading source exhausted")
			return pushed, nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return pushed, nil
		default:
			return pushed, fmt.Errorf("read cycle %d: %w", cycle, err)
		}

		evaluation, err := evaluator.Evaluate(ctx, reading)
		if err != nil {
			logger.ErrorKV(ctx, "Evaluate failed", "cycle", cycle, "error", err)
			continue
		}

		pushed++

		logEvaluation(ctx, cycle, evaluation)
	}

	return pushed, nil
}

// logEvaluation reports the server's verdict, loudly on transitions.
func logEvaluation(ctx context.Context, cycle int, evaluation *alert.Evaluation) {
	kvs := []any{
		"cycle", cycle,
		"reading", evaluation.Reading.String(),
		"fire_detected", evaluation.FireDetected,
		"state", evaluation.Current.String(),
		"risk_score", evaluation.RiskScore,
		"risk_level", evaluation.RiskLevel.String(),
	}

	if evaluation.Event == nil {
		logger.InfoKV(ctx, "Reading accepted", kvs...)
		return
	}

	kvs = append(kvs, "event_id", evaluation.Event.ID)

	switch evaluation.Event.Kind {
	case alert.EventRaised:
		logger.WarnKV(ctx, "Server raised fire alert", kvs...)
	case alert.EventCleared:
		logger.InfoKV(ctx, "Server cleared alert", kvs...)
	}
}

package sensor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/service/common"
)

// QueryOptions selects the server the read-only commands talk to.
type QueryOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
}

// Status prints the server's latch state and thresholds.
func Status(ctx context.Context, opts *QueryOptions, w io.Writer) error {
	return query(ctx, opts, func(ctx context.Context, client *common.Client) error {
		state, thresholds, err := client.Status(ctx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "state: %s\nthresholds: %s\n", state, thresholds)

		return err
	})
}

// Report prints the server's monitoring report.
func Report(ctx context.Context, opts *QueryOptions, w io.Writer) error {
	return query(ctx, opts, func(ctx context.Context, client *common.Client) error {
		report, err := client.Report(ctx)
		if err != nil {
			return err
		}

		return writeReport(w, report)
	})
}

// Events prints the server's alert journal, oldest first.
func Events(ctx context.Context, opts *QueryOptions, w io.Writer) error {
	return query(ctx, opts, func(ctx context.Context, client *common.Client) error {
		events, err := client.Events(ctx)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			_, err = fmt.Fprintln(w, "no alert events")
			return err
		}

		for _, event := range events {
			if _, err = fmt.Fprintln(w, formatEvent(&event)); err != nil {
				return err
			}
		}

		return nil
	})
}

// query loads settings, connects to the server and runs fn.
func query(ctx context.Context, opts *QueryOptions, fn func(context.Context, *common.Client) error) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	return fn(ctx, client)
}

func writeReport(w io.Writer, report *alert.Report) error {
	if report.TotalReadings == 0 {
		_, err := fmt.Fprintln(w, "no readings available for report")
		return err
	}

	_, err := fmt.Fprintf(w,
		"period: %s - %s\n"+
			"readings: %d total, %d fire, %d normal\n"+
			"risk: %d warnings, %d critical\n"+
			"alerts: %d raised, %d cleared\n"+
			"averages: %s\n",
		report.Start.Format(time.RFC3339), report.End.Format(time.RFC3339),
		report.TotalReadings, report.FireReadings, report.NormalReadings,
		report.Warnings, report.CriticalAlerts,
		report.Raised, report.Cleared,
		report.Averages,
	)

	return err
}

func formatEvent(event *alert.Event) string {
	line := fmt.Sprintf("%s %-7s %s %s",
		event.Timestamp.Format(time.RFC3339), event.Kind, event.ID, event.Reading)

	if len(event.Breaches) > 0 {
		names := make([]string, 0, len(event.Breaches))
		for _, q := range event.Breaches {
			names = append(names, q.String())
		}

		line += " breaches=" + strings.Join(names, ",")
	}

	if event.Reading.Source != "" {
		line += " source=" + event.Reading.Source
	}

	return line
}

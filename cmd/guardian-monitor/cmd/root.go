package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/service/monitor"
	"github.com/oshokin/guardian-eye/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// scenarioPath points to a YAML list of readings to replay.
	scenarioPath string
	// interval between readings, zero keeps the configured value.
	interval time.Duration
	// cycles to run, negative keeps the configured value.
	cycles int
	// verbose enables debug output.
	verbose bool

	// rootCmd represents the base command for a local monitoring session.
	rootCmd = &cobra.Command{
		Use:   "guardian-monitor",
		Short: "Watch sensor readings and latch fire alerts locally.",
		Long: `Runs a local monitoring session: takes a reading every interval, evaluates it
against the configured thresholds and raises or clears the fire alert.

Readings come from the simulator unless --scenario names a YAML file of readings.
Transitions are written to the alert journal, logged, and forwarded to the
configured command and Kafka sinks. A summary report is printed when the session ends.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &monitor.Options{
				ConfigPath:   configPath,
				ScenarioPath: scenarioPath,
				Interval:     interval,
				Cycles:       cycles,
				Verbose:      verbose,
			}

			return monitor.Run(ctx, options)
		},
	}
)

// Execute runs the guardian-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&scenarioPath, "scenario", "", "replay readings from a YAML file")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", 0, "period between readings (default from config)")
	rootCmd.Flags().IntVarP(&cycles, "cycles", "n", -1, "number of readings, 0 runs until interrupted (default from config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

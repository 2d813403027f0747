package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/service/sensor"
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

	// rootCmd represents the base command for pushing readings to the server.
	rootCmd = &cobra.Command{
		Use:   "guardian-sensor [server-address]",
		Short: "Push sensor readings to the alert server.",
		Long: `Takes a reading every interval and sends it to guardian-server for evaluation.

Readings are tagged with user@host of this machine. They come from the simulator
unless --scenario names a YAML file of readings. Failed submissions are logged
and the loop carries on with the next reading.
Server address can be provided as argument or loaded from configuration file.
The status, report and events subcommands query the server instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			options := &sensor.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				ScenarioPath:  scenarioPath,
				Interval:      interval,
				Cycles:        cycles,
			}

			return sensor.Run(ctx, options)
		},
	}
)

// queryCommand builds a read-only subcommand calling fn against the server.
func queryCommand(
	use, short string,
	fn func(context.Context, *sensor.QueryOptions, io.Writer) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [server-address]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &sensor.QueryOptions{ConfigPath: configPath}
			if len(args) > 0 {
				options.ServerAddress = args[0]
			}

			return fn(ctx, options, cmd.OutOrStdout())
		},
	}
}

// Execute runs the guardian-sensor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(
		queryCommand("status", "Print the server's alert state and thresholds.", sensor.Status),
		queryCommand("report", "Print the server's monitoring report.", sensor.Report),
		queryCommand("events", "Print the server's alert journal.", sensor.Events),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&scenarioPath, "scenario", "", "replay readings from a YAML file")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", 0, "period between readings (default from config)")
	rootCmd.Flags().IntVarP(&cycles, "cycles", "n", -1, "number of readings, 0 runs until interrupted (default from config)")
}

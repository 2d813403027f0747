package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/service/server"
	"github.com/oshokin/guardian-eye/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// journalFile path where alert events are appended.
	journalFile string
	// httpAddress enables the HTTP API on this address.
	httpAddress string
	// allowMultiple skips the single-instance check.
	allowMultiple bool

	// rootCmd represents the base command for running the alert server.
	rootCmd = &cobra.Command{
		Use:   "guardian-server [listen-address]",
		Short: "Run the fire alert server.",
		Long: `Starts the gRPC alert server that evaluates readings pushed by sensors and
holds the fire alert latch.

The server listens on the specified address or uses settings from configuration file.
Only the port from ServerAddress config is used for listening (e.g., :50051).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
Alert transitions are appended to a JSON lines journal. The latch itself is not
persisted and always starts in monitoring state.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				HTTPAddress:   httpAddress,
				JournalFile:   journalFile,
				AllowMultiple: allowMultiple,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the guardian-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&journalFile, "journal-file", "j", "", "path to the alert journal (default from config)")
	rootCmd.Flags().StringVar(&httpAddress, "http-addr", "", "serve the HTTP API on this address")
	rootCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "skip the single-instance check")
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	grpcapi "github.com/oshokin/guardian-eye/internal/api/grpc/alert"
	httpapi "github.com/oshokin/guardian-eye/internal/api/http/alert"
	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/logger"
	"github.com/oshokin/guardian-eye/internal/notify"
	"github.com/oshokin/guardian-eye/internal/repository/journal"
	"github.com/oshokin/guardian-eye/internal/service/instance"
	"github.com/oshokin/guardian-eye/internal/version"
)

// Options controls the guardian-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// HTTPAddress provides an optional listen address override for the HTTP API.
	HTTPAddress string
	// JournalFile overrides the path of the alert journal.
	JournalFile string
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
}

const (
	// shutdownTimeout bounds the HTTP server's graceful shutdown.
	shutdownTimeout = 5 * time.Second
	// readHeaderTimeout protects the HTTP server from slow clients.
	readHeaderTimeout = 10 * time.Second
)

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server (and the HTTP API when configured) and blocks
// until the context is canceled or a server stops.
//
//nolint:cyclop,funlen // Wiring of both transports reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guardian-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(settings.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	logger.InfoKV(ctx, "Starting guardian-server", version.Fields()...)

	if !opts.AllowMultiple {
		if err = instance.EnsureSingle(instance.CurrentExecutable()); err != nil {
			return err
		}
	}

	// Use JournalFile from config unless overridden by command line option.
	journalFile := settings.JournalFile
	if opts.JournalFile != "" {
		journalFile = opts.JournalFile
	}

	httpAddress := settings.HTTPAddress
	if opts.HTTPAddress != "" {
		httpAddress = opts.HTTPAddress
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	repo := journal.NewFileRepository(journalFile)

	sinks, closeSinks, err := notify.FromConfig(ctx, settings, notify.NewJournal(repo))
	if err != nil {
		return fmt.Errorf("build notifiers: %w", err)
	}

	defer func() {
		if closeErr := closeSinks(); closeErr != nil {
			logger.ErrorKV(ctx, "Failed to close notifiers", "error", closeErr)
		}
	}()

	svc, err := newService(settings.Thresholds, settings.HistorySize, repo, sinks)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	grpcapi.RegisterAlertServiceServer(grpcServer, grpcapi.NewServer(svc))

	var (
		httpServer *http.Server
		httpLis    net.Listener
	)

	if httpAddress != "" {
		if httpLis, err = lc.Listen(ctx, "tcp", httpAddress); err != nil {
			_ = lis.Close()

			return fmt.Errorf("listen HTTP on %s: %w", httpAddress, err)
		}

		httpServer = &http.Server{
			Handler:           httpapi.NewRouter(ctx, svc),
			ReadHeaderTimeout: readHeaderTimeout,
		}

		logger.InfoKV(ctx, "HTTP API listening", "http_address", httpLis.Addr().String())

		go func() {
			if serveErr := httpServer.Serve(httpLis); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				logger.ErrorKV(ctx, "HTTP API stopped", "error", serveErr)
			}
		}()
	}

	logger.InfoKV(ctx, "Alert server listening",
		"listen_address", listenAddress,
		"journal_file", journalFile,
		"temperature_threshold", settings.Thresholds.Temperature,
		"smoke_threshold", settings.Thresholds.Smoke,
		"gas_threshold", settings.Thresholds.Gas,
	)

	// serveCtx also ends when Serve fails, so the shutdown goroutine never leaks.
	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-serveCtx.Done()
		logger.Info(ctx, "Shutting down servers")

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
				logger.ErrorKV(ctx, "HTTP API shutdown failed", "error", shutdownErr)
			}

			cancel()
		}

		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		stopServing()
		<-done

		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Servers stopped")

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":50051" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	// Parse the address to extract port.
	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}

package integration

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/service/common"
	"github.com/oshokin/guardian-eye/internal/service/server"
)

// testServer describes a running guardian-server.
type testServer struct {
	// configPath is the settings file shared with sensors.
	configPath string
	// address is the gRPC address.
	address string
	// httpAddress is the HTTP API address.
	httpAddress string
	// journalPath is the alert journal.
	journalPath string
}

// reservePort allocates an available TCP port for testing.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

// startServer runs guardian-server with temporary settings until the test ends.
func startServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	ts := &testServer{
		configPath:  filepath.Join(dir, "settings.yaml"),
		address:     reservePort(t),
		httpAddress: reservePort(t),
		journalPath: filepath.Join(dir, "journal.jsonl"),
	}

	settings := config.Default()
	settings.ServerAddress = ts.address
	settings.HTTPAddress = ts.httpAddress
	settings.JournalFile = ts.journalPath
	settings.Timeout = 3 * time.Second
	settings.Monitor.Interval = 10 * time.Millisecond
	require.NoError(t, config.Save(ts.configPath, settings))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- server.Run(ctx, &server.Options{
			ConfigPath:    ts.configPath,
			ListenAddress: ts.address,
			AllowMultiple: true,
		})
	}()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Wait until both transports answer.
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", ts.address, 50*time.Millisecond)
		if err != nil {
			return false
		}

		_ = conn.Close()

		resp, err := http.Get("http://" + ts.httpAddress + "/health") //nolint:noctx // Readiness check.
		if err != nil {
			return false
		}

		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	return ts
}

// dial connects a client to the test server.
func dial(t *testing.T, ts *testServer) *common.Client {
	t.Helper()

	c, err := common.Dial(context.Background(), ts.address, common.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

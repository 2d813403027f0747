package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Empty settings receive defaults.
	settings := new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, alert.DefaultThresholds(), settings.Thresholds)
	require.Equal(t, DefaultServerAddress, settings.ServerAddress)
	require.Equal(t, DefaultJournalFilename, settings.JournalFile)
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultInterval, settings.Monitor.Interval)
	require.Equal(t, DefaultKafkaTopic, settings.Notify.Kafka.Topic)
	require.Equal(t, Range{Min: 20, Max: 70}, settings.Simulator.Temperature)

	// Bad socket.
	settings = &Config{ServerAddress: "bad:address"}
	require.Error(t, Validate(settings))

	// Unset thresholds are defaulted one by one.
	settings = &Config{Thresholds: alert.Thresholds{Temperature: 50}}
	require.NoError(t, Validate(settings))
	require.Equal(t, alert.Thresholds{Temperature: 50, Smoke: 300, Gas: 1000}, settings.Thresholds)

	// Negative thresholds are rejected.
	settings = &Config{Thresholds: alert.Thresholds{Smoke: -1}}
	require.ErrorIs(t, Validate(settings), alert.ErrInvalidThreshold)

	// Inverted range.
	settings = &Config{Simulator: Simulator{Gas: Range{Min: 10, Max: 5}}}
	require.ErrorIs(t, Validate(settings), errInvalidRange)

	// Negative cycles.
	settings = &Config{Monitor: Monitor{Cycles: -1}}
	require.ErrorIs(t, Validate(settings), errNegativeValue)
}

// TestDefault ensures the default configuration is valid and bounded.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultCycles, cfg.Monitor.Cycles)
	require.False(t, cfg.Notify.Kafka.Enabled())
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		Thresholds:    alert.Thresholds{Temperature: 55, Smoke: 250, Gas: 900},
		ServerAddress: "127.0.0.1:50051",
		HTTPAddress:   "127.0.0.1:8080",
		Monitor:       Monitor{Interval: time.Second, Cycles: 3},
		Notify: Notify{
			Command: []string{"/usr/bin/siren", "--loud"},
			Kafka:   Kafka{Brokers: []string{"localhost:9092"}},
		},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.Thresholds, loaded.Thresholds)
	require.Equal(t, settings.ServerAddress, loaded.ServerAddress)
	require.Equal(t, settings.HTTPAddress, loaded.HTTPAddress)
	require.Equal(t, settings.Monitor, loaded.Monitor)
	require.Equal(t, settings.Notify.Command, loaded.Notify.Command)
	require.True(t, loaded.Notify.Kafka.Enabled())

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_YAML parses a hand-written settings file.
func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := `
thresholds:
  temperature: 60
  smoke: 300
  gas: 1000
timeout: 3s
monitor:
  interval: 500ms
  cycles: 4
simulator:
  seed: 7
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Equal(t, 500*time.Millisecond, cfg.Monitor.Interval)
	require.Equal(t, 4, cfg.Monitor.Cycles)
	require.Equal(t, uint64(7), cfg.Simulator.Seed)
	require.Equal(t, "debug", cfg.LogLevel)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestLoad_PartialFile keeps defaults for every key the file omits.
func TestLoad_PartialFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path := filepath.Join(dir, "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  temperature: 70\n"), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, alert.Thresholds{Temperature: 70, Smoke: 300, Gas: 1000}, cfg.Thresholds)
	require.Equal(t, Default().Monitor, cfg.Monitor)

	// Without a monitor section the session stays bounded like Default.
	path = filepath.Join(dir, "interval.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monitor:\n  interval: 1s\n"), DefaultFilePermissions))

	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, time.Second, cfg.Monitor.Interval)
	require.Equal(t, DefaultCycles, cfg.Monitor.Cycles)

	// An explicit zero still means unbounded.
	path = filepath.Join(dir, "unbounded.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monitor:\n  cycles: 0\n"), DefaultFilePermissions))

	cfg, err = Load(path)
	require.NoError(t, err)
	require.Zero(t, cfg.Monitor.Cycles)
}

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
)

// Config holds the settings shared by the guardian-eye binaries.
type Config struct {
	// Thresholds are the limits the alert latch compares readings against.
	Thresholds alert.Thresholds `yaml:"thresholds"`
	// ServerAddress is the gRPC address of guardian-server.
	ServerAddress string `yaml:"server_addr"`
	// HTTPAddress is the optional listen address of the HTTP API.
	HTTPAddress string `yaml:"http_addr,omitempty"`
	// JournalFile is the path to the JSON-lines file of alert events.
	JournalFile string `yaml:"journal_file"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// HistorySize is the number of evaluations kept for reports.
	HistorySize int `yaml:"history_size"`
	// LogLevel is the minimum level of log entries, e.g. "info".
	LogLevel string `yaml:"log_level,omitempty"`
	// Monitor controls the reading loop cadence.
	Monitor Monitor `yaml:"monitor"`
	// Simulator controls the pseudo-random reading source.
	Simulator Simulator `yaml:"simulator"`
	// Notify lists the alert notification targets.
	Notify Notify `yaml:"notify"`
}

// Monitor controls the reading loop.
type Monitor struct {
	// Interval is the period between two readings.
	Interval time.Duration `yaml:"interval"`
	// Cycles is the number of readings to take, 0 means until stopped.
	Cycles int `yaml:"cycles"`
}

// Range is an inclusive lower and exclusive upper bound for simulated values.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Simulator configures the pseudo-random reading source.
type Simulator struct {
	// Seed makes the sequence reproducible, 0 picks a random seed.
	Seed uint64 `yaml:"seed"`
	// Temperature is the range of simulated temperatures in °C.
	Temperature Range `yaml:"temperature"`
	// Smoke is the range of simulated smoke levels in PPM.
	Smoke Range `yaml:"smoke"`
	// Gas is the range of simulated gas levels in PPM.
	Gas Range `yaml:"gas"`
}

// Notify lists the alert notification targets.
type Notify struct {
	// Contacts are the people and services to alert, e.g. e-mail addresses.
	// They are logged with raised alerts and handed to the hook command.
	Contacts []string `yaml:"contacts,omitempty"`
	// Command is run with the event in its environment on every transition.
	Command []string `yaml:"command,omitempty"`
	// Kafka publishes events to a topic when brokers are set.
	Kafka Kafka `yaml:"kafka"`
}

// Kafka configures the event publisher.
type Kafka struct {
	// Brokers are the bootstrap broker addresses.
	Brokers []string `yaml:"brokers,omitempty"`
	// Topic receives the alert events.
	Topic string `yaml:"topic"`
}

// Enabled reports whether a Kafka publisher should be created.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "guardian-eye-settings.yaml"

	// DefaultJournalFilename is the default filename for the alert journal.
	DefaultJournalFilename = "guardian-eye-journal.jsonl"

	// DefaultServerAddress is the gRPC address used when none is configured.
	DefaultServerAddress = "127.0.0.1:50051"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultInterval is the default period between readings.
	DefaultInterval = 2 * time.Second

	// DefaultCycles is the default number of readings per monitoring session.
	DefaultCycles = 10

	// DefaultKafkaTopic is the default topic for alert events.
	DefaultKafkaTopic = "guardian-eye.alerts"

	// DefaultFilePermissions is the default file permission for config and journal files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidRange is returned when a simulator range is empty or inverted.
	errInvalidRange = errors.New("range max must be greater than min")
	// errNegativeValue is returned for negative counts and durations.
	errNegativeValue = errors.New("value must not be negative")
)

// Default returns a configuration with every default applied and a bounded
// monitoring session of DefaultCycles readings.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	cfg.Monitor.Cycles = DefaultCycles

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default path yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigFilename {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	// Keys absent from the file keep their Default values.
	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and checks the settings for consistency.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.Monitor.Cycles < 0 {
		return fmt.Errorf("monitor cycles: %w", errNegativeValue)
	}

	if settings.Monitor.Interval < 0 {
		return fmt.Errorf("monitor interval: %w", errNegativeValue)
	}

	if settings.HistorySize < 0 {
		return fmt.Errorf("history size: %w", errNegativeValue)
	}

	applyDefaults(settings)

	if err := settings.Thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid HTTP socket: %w", err)
		}
	}

	ranges := map[string]Range{
		"temperature": settings.Simulator.Temperature,
		"smoke":       settings.Simulator.Smoke,
		"gas":         settings.Simulator.Gas,
	}

	for name, r := range ranges {
		if r.Max <= r.Min {
			return fmt.Errorf("simulator %s range [%v, %v): %w", name, r.Min, r.Max, errInvalidRange)
		}
	}

	return nil
}

// applyDefaults sets every zero-valued field to its default.
func applyDefaults(settings *Config) {
	defaults := alert.DefaultThresholds()

	if settings.Thresholds.Temperature == 0 {
		settings.Thresholds.Temperature = defaults.Temperature
	}

	if settings.Thresholds.Smoke == 0 {
		settings.Thresholds.Smoke = defaults.Smoke
	}

	if settings.Thresholds.Gas == 0 {
		settings.Thresholds.Gas = defaults.Gas
	}

	if settings.ServerAddress == "" {
		settings.ServerAddress = DefaultServerAddress
	}

	if settings.JournalFile == "" {
		settings.JournalFile = DefaultJournalFilename
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.HistorySize == 0 {
		settings.HistorySize = alert.DefaultHistoryCapacity
	}

	if settings.Monitor.Interval == 0 {
		settings.Monitor.Interval = DefaultInterval
	}

	if settings.Simulator.Temperature == (Range{}) {
		settings.Simulator.Temperature = Range{Min: 20, Max: 70}
	}

	if settings.Simulator.Smoke == (Range{}) {
		settings.Simulator.Smoke = Range{Min: 0, Max: 500}
	}

	if settings.Simulator.Gas == (Range{}) {
		settings.Simulator.Gas = Range{Min: 0, Max: 1500}
	}

	if settings.Notify.Kafka.Topic == "" {
		settings.Notify.Kafka.Topic = DefaultKafkaTopic
	}
}

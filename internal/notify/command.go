package notify

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
)

// Environment variables passed to the hook command.
const (
	EnvEvent       = "GUARDIAN_EVENT"
	EnvEventID     = "GUARDIAN_EVENT_ID"
	EnvTemperature = "GUARDIAN_TEMPERATURE"
	EnvSmoke       = "GUARDIAN_SMOKE"
	EnvGas         = "GUARDIAN_GAS"
	EnvBreaches    = "GUARDIAN_BREACHES"
	EnvContacts    = "GUARDIAN_CONTACTS"
)

// defaultCommandTimeout bounds a single hook run.
const defaultCommandTimeout = 10 * time.Second

// ErrEmptyCommand is returned when no program is configured.
var ErrEmptyCommand = errors.New("command must not be empty")

// Command runs an external program for every alert event, e.g. a siren
// driver or a paging script. The event is described in its environment.
type Command struct {
	// argv is the program and its arguments.
	argv []string
	// timeout bounds each run.
	timeout time.Duration
	// contacts are passed comma-separated in EnvContacts.
	contacts string
}

// CommandOption configures a Command.
type CommandOption func(*Command)

// WithContacts hands the contact list to the command.
func WithContacts(contacts []string) CommandOption {
	return func(c *Command) {
		c.contacts = strings.Join(contacts, ",")
	}
}

// NewCommand creates a hook running argv with the given timeout.
func NewCommand(argv []string, timeout time.Duration, opts ...CommandOption) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}

	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}

	c := &Command{
		argv:    append([]string(nil), argv...),
		timeout: timeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Notify runs the command and waits for it, logging failures.
func (c *Command) Notify(ctx context.Context, event alert.Event) {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	//nolint:gosec // The command comes from the operator's settings file.
	cmd := exec.CommandContext(runCtx, c.argv[0], c.argv[1:]...)
	cmd.Env = append(os.Environ(), Environment(event)...)
	cmd.Env = append(cmd.Env, EnvContacts+"="+c.contacts)

	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.ErrorKV(ctx, "Alert hook failed",
			"command", c.argv[0], "event_id", event.ID, "error", err, "output", string(output))

		return
	}

	logger.DebugKV(ctx, "Alert hook finished", "command", c.argv[0], "event_id", event.ID)
}

// Environment describes the event as KEY=value pairs.
func Environment(event alert.Event) []string {
	return []string{
		EnvEvent + "=" + event.Kind.String(),
		EnvEventID + "=" + event.ID,
		EnvTemperature + "=" + formatFloat(event.Reading.Temperature),
		EnvSmoke + "=" + formatFloat(event.Reading.Smoke),
		EnvGas + "=" + formatFloat(event.Reading.Gas),
		EnvBreaches + "=" + joinBreaches(event.Breaches),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

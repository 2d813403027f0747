package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
	"github.com/oshokin/guardian-eye/internal/wire"
)

var errTestWrite = errors.New("test write error")

// observedContext returns a context whose logger records entries.
func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return logger.ToContext(context.Background(), zap.New(core).Sugar()), logs
}

// raisedEvent returns a sample raised event.
func raisedEvent() alert.Event {
	return alert.Event{
		ID:        "raised-1",
		Kind:      alert.EventRaised,
		Reading:   alert.Reading{Temperature: 65, Smoke: 310, Gas: 200, Source: "o.shokin@lab"},
		Breaches:  []alert.Quantity{alert.QuantityTemperature, alert.QuantitySmoke},
		Timestamp: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

// TestLog_Levels verifies raised events log at warn and cleared events at info.
func TestLog_Levels(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()

	sink := Log{Contacts: []string{"fire_department@emergency.gov", "building_security@company.com"}}
	sink.Notify(ctx, raisedEvent())
	sink.Notify(ctx, alert.Event{ID: "cleared-1", Kind: alert.EventCleared})

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "temperature,smoke", entries[0].ContextMap()["breaches"])
	require.Equal(t, "o.shokin@lab", entries[0].ContextMap()["source"])
	require.Equal(t, "temperature=65°C smoke=310PPM gas=200PPM", entries[0].ContextMap()["reading"])
	require.Equal(t,
		"fire_department@emergency.gov,building_security@company.com", entries[0].ContextMap()["contacts"])
	require.Equal(t, zapcore.InfoLevel, entries[1].Level)
	require.NotContains(t, entries[1].ContextMap(), "contacts")
}

// TestMulti_FansOut ensures every notifier receives its own copy.
func TestMulti_FansOut(t *testing.T) {
	t.Parallel()

	var received []alert.Event

	collect := alert.NotifierFunc(func(_ context.Context, e alert.Event) {
		received = append(received, e)
		e.Breaches[0] = alert.QuantityGas
	})

	Multi{collect, nil, collect}.Notify(context.Background(), raisedEvent())

	require.Len(t, received, 2)
	require.Equal(t, alert.QuantityGas, received[0].Breaches[0])
	require.Equal(t, alert.QuantityGas, received[1].Breaches[0])
	require.NotSame(t, &received[0].Breaches[0], &received[1].Breaches[0])
}

// memoryJournal records appended events and optionally fails.
type memoryJournal struct {
	// events holds appended events.
	events []alert.Event
	// err is returned by Append when set.
	err error
}

// Append stores the event or returns the configured error.
func (m *memoryJournal) Append(_ context.Context, e alert.Event) error {
	if m.err != nil {
		return m.err
	}

	m.events = append(m.events, e)

	return nil
}

// List returns the stored events.
func (m *memoryJournal) List(context.Context) ([]alert.Event, error) {
	return m.events, nil
}

// TestJournal_AppendsAndLogsFailures covers success and failure paths.
func TestJournal_AppendsAndLogsFailures(t *testing.T) {
	t.Parallel()

	repo := new(memoryJournal)
	NewJournal(repo).Notify(context.Background(), raisedEvent())
	require.Len(t, repo.events, 1)

	ctx, logs := observedContext()
	NewJournal(&memoryJournal{err: errTestWrite}).Notify(ctx, raisedEvent())
	require.Equal(t, 1, logs.FilterMessage("Failed to journal alert event").Len())
}

// TestCommand_RunsWithEnvironment runs a shell hook and inspects what it saw.
func TestCommand_RunsWithEnvironment(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("hook test relies on sh")
	}

	out := filepath.Join(t.TempDir(), "hook.out")
	script := `printf '%s %s %s %s' "$GUARDIAN_EVENT" "$GUARDIAN_TEMPERATURE" "$GUARDIAN_BREACHES" ` +
		`"$GUARDIAN_CONTACTS" > "$0"`

	hook, err := NewCommand([]string{"sh", "-c", script, out}, time.Second,
		WithContacts([]string{"fire_department@emergency.gov", "security@lab"}))
	require.NoError(t, err)

	hook.Notify(context.Background(), raisedEvent())

	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "raised 65 temperature,smoke fire_department@emergency.gov,security@lab", string(contents))

	_, err = NewCommand(nil, time.Second)
	require.ErrorIs(t, err, ErrEmptyCommand)
}

// TestCommand_LogsFailure ensures a failing hook is logged and not propagated.
func TestCommand_LogsFailure(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()

	hook, err := NewCommand([]string{filepath.Join(t.TempDir(), "no-such-program")}, time.Second)
	require.NoError(t, err)

	hook.Notify(ctx, raisedEvent())
	require.Equal(t, 1, logs.FilterMessage("Alert hook failed").Len())
}

// fakeWriter captures Kafka messages.
type fakeWriter struct {
	// messages holds written messages.
	messages []kafka.Message
	// err is returned by WriteMessages when set.
	err error
	// closed tracks Close calls.
	closed bool
}

// WriteMessages records the messages or returns the configured error.
func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}

	f.messages = append(f.messages, msgs...)

	return nil
}

// Close marks the writer closed.
func (f *fakeWriter) Close() error {
	f.closed = true

	return nil
}

// TestKafka_Publishes checks the key, headers and payload of published events.
func TestKafka_Publishes(t *testing.T) {
	t.Parallel()

	writer := new(fakeWriter)
	sink := NewKafka(writer, time.Second)

	event := raisedEvent()
	sink.Notify(context.Background(), event)

	require.Len(t, writer.messages, 1)

	message := writer.messages[0]
	require.Equal(t, "o.shokin@lab", string(message.Key))
	require.Equal(t, "raised", string(message.Headers[0].Value))
	require.Equal(t, event.Timestamp, message.Time)

	var payload structpb.Struct
	require.NoError(t, protojson.Unmarshal(message.Value, &payload))

	decoded, err := wire.ToEvent(&payload)
	require.NoError(t, err)
	require.Equal(t, event, *decoded)

	require.NoError(t, sink.Close())
	require.True(t, writer.closed)
}

// TestKafka_LogsFailure ensures broker failures are logged only.
func TestKafka_LogsFailure(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()

	event := raisedEvent()
	event.Reading.Source = ""

	NewKafka(&fakeWriter{err: errTestWrite}, 0).Notify(ctx, event)
	require.Equal(t, 1, logs.FilterMessage("Kafka publish failed").Len())
}

// TestFromConfig builds the chain from settings.
func TestFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	sinks, closer, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	require.NoError(t, closer())

	cfg.Notify.Command = []string{"true"}
	cfg.Notify.Kafka.Brokers = []string{"127.0.0.1:9092"}
	cfg.Notify.Contacts = []string{"fire_department@emergency.gov"}

	sinks, closer, err = FromConfig(context.Background(), cfg, new(Journal))
	require.NoError(t, err)
	require.Len(t, sinks, 4)
	require.Equal(t, Log{Contacts: cfg.Notify.Contacts}, sinks[0])
	require.IsType(t, &Kafka{}, sinks[2])
	require.NoError(t, closer())
}

package wire

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
)

// Field names shared by every message.
const (
	FieldTemperature  = "temperature"
	FieldSmoke        = "smoke"
	FieldGas          = "gas"
	FieldSource       = "source"
	FieldFireDetected = "fire_detected"
	FieldState        = "state"
	FieldPrevious     = "previous_state"
	FieldBreaches     = "breaches"
	FieldRiskScore    = "risk_score"
	FieldRiskLevel    = "risk_level"
	FieldEvent        = "event"
	FieldTimestamp    = "timestamp"
	FieldID           = "id"
	FieldKind         = "kind"
	FieldReading      = "reading"
	FieldThresholds   = "thresholds"
	FieldEvents       = "events"
)

var (
	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField is returned when a field has the wrong type or value.
	ErrInvalidField = errors.New("invalid field")
)

// FromReading converts a reading to a Struct.
func FromReading(r alert.Reading) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldTemperature: structpb.NewNumberValue(r.Temperature),
		FieldSmoke:       structpb.NewNumberValue(r.Smoke),
		FieldGas:         structpb.NewNumberValue(r.Gas),
	}

	if r.Source != "" {
		fields[FieldSource] = structpb.NewStringValue(r.Source)
	}

	return &structpb.Struct{Fields: fields}
}

// ToReading converts a Struct to a reading. All three quantities are required
// and must be finite numbers.
func ToReading(s *structpb.Struct) (alert.Reading, error) {
	var r alert.Reading

	if s == nil {
		return r, fmt.Errorf("%w: reading", ErrMissingField)
	}

	var err error

	if r.Temperature, err = number(s, FieldTemperature); err != nil {
		return r, err
	}

	if r.Smoke, err = number(s, FieldSmoke); err != nil {
		return r, err
	}

	if r.Gas, err = number(s, FieldGas); err != nil {
		return r, err
	}

	if v, ok := s.GetFields()[FieldSource]; ok {
		r.Source = v.GetStringValue()
	}

	return r, nil
}

// FromThresholds converts thresholds to a Struct.
func FromThresholds(t alert.Thresholds) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldTemperature: structpb.NewNumberValue(t.Temperature),
		FieldSmoke:       structpb.NewNumberValue(t.Smoke),
		FieldGas:         structpb.NewNumberValue(t.Gas),
	}}
}

// ToThresholds converts a Struct to thresholds.
func ToThresholds(s *structpb.Struct) (alert.Thresholds, error) {
	r, err := ToReading(s)
	if err != nil {
		return alert.Thresholds{}, err
	}

	return alert.Thresholds{Temperature: r.Temperature, Smoke: r.Smoke, Gas: r.Gas}, nil
}

// FromEvent converts an event to a Struct.
func FromEvent(e *alert.Event) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldID:        structpb.NewStringValue(e.ID),
		FieldKind:      structpb.NewStringValue(e.Kind.String()),
		FieldReading:   structpb.NewStructValue(FromReading(e.Reading)),
		FieldBreaches:  breachesValue(e.Breaches),
		FieldTimestamp: structpb.NewStringValue(formatTime(e.Timestamp)),
	}}
}

// ToEvent converts a Struct to an event.
func ToEvent(s *structpb.Struct) (*alert.Event, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: event", ErrMissingField)
	}

	fields := s.GetFields()

	kind, ok := alert.ParseEventKind(fields[FieldKind].GetStringValue())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidField, FieldKind)
	}

	reading, err := ToReading(fields[FieldReading].GetStructValue())
	if err != nil {
		return nil, fmt.Errorf("event reading: %w", err)
	}

	breaches, err := toBreaches(fields[FieldBreaches])
	if err != nil {
		return nil, err
	}

	timestamp, err := parseTime(fields[FieldTimestamp].GetStringValue())
	if err != nil {
		return nil, err
	}

	return &alert.Event{
		ID:        fields[FieldID].GetStringValue(),
		Kind:      kind,
		Reading:   reading,
		Breaches:  breaches,
		Timestamp: timestamp,
	}, nil
}

// FromEvaluation converts an evaluation to a Struct.
func FromEvaluation(e *alert.Evaluation) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldFireDetected: structpb.NewBoolValue(e.FireDetected),
		FieldState:        structpb.NewStringValue(e.Current.String()),
		FieldPrevious:     structpb.NewStringValue(e.Previous.String()),
		FieldBreaches:     breachesValue(e.Breaches),
		FieldRiskScore:    structpb.NewNumberValue(e.RiskScore),
		FieldRiskLevel:    structpb.NewStringValue(e.RiskLevel.String()),
		FieldReading:      structpb.NewStructValue(FromReading(e.Reading)),
		FieldTimestamp:    structpb.NewStringValue(formatTime(e.Timestamp)),
	}

	if e.Event != nil {
		fields[FieldEvent] = structpb.NewStructValue(FromEvent(e.Event))
	}

	return &structpb.Struct{Fields: fields}
}

// ToEvaluation converts a Struct to an evaluation.
func ToEvaluation(s *structpb.Struct) (*alert.Evaluation, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: evaluation", ErrMissingField)
	}

	fields := s.GetFields()

	current, ok := alert.ParseState(fields[FieldState].GetStringValue())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidField, FieldState)
	}

	previous, ok := alert.ParseState(fields[FieldPrevious].GetStringValue())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidField, FieldPrevious)
	}

	level, ok := alert.ParseRiskLevel(fields[FieldRiskLevel].GetStringValue())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidField, FieldRiskLevel)
	}

	reading, err := ToReading(fields[FieldReading].GetStructValue())
	if err != nil {
		return nil, fmt.Errorf("evaluation reading: %w", err)
	}

	breaches, err := toBreaches(fields[FieldBreaches])
	if err != nil {
		return nil, err
	}

	timestamp, err := parseTime(fields[FieldTimestamp].GetStringValue())
	if err != nil {
		return nil, err
	}

	evaluation := &alert.Evaluation{
		Reading:      reading,
		FireDetected: fields[FieldFireDetected].GetBoolValue(),
		Previous:     previous,
		Current:      current,
		Breaches:     breaches,
		RiskScore:    fields[FieldRiskScore].GetNumberValue(),
		RiskLevel:    level,
		Timestamp:    timestamp,
	}

	if v, ok := fields[FieldEvent]; ok {
		if evaluation.Event, err = ToEvent(v.GetStructValue()); err != nil {
			return nil, err
		}
	}

	return evaluation, nil
}

// FromStatus describes the latch position and its thresholds.
func FromStatus(state alert.State, thresholds alert.Thresholds) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldState:      structpb.NewStringValue(state.String()),
		FieldThresholds: structpb.NewStructValue(FromThresholds(thresholds)),
	}}
}

// ToStatus converts a Struct produced by FromStatus.
func ToStatus(s *structpb.Struct) (alert.State, alert.Thresholds, error) {
	fields := s.GetFields()

	state, ok := alert.ParseState(fields[FieldState].GetStringValue())
	if !ok {
		return state, alert.Thresholds{}, fmt.Errorf("%w: %s", ErrInvalidField, FieldState)
	}

	thresholds, err := ToThresholds(fields[FieldThresholds].GetStructValue())
	if err != nil {
		return state, thresholds, fmt.Errorf("status thresholds: %w", err)
	}

	return state, thresholds, nil
}

// FromEvents wraps a list of events into a Struct.
func FromEvents(events []alert.Event) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(events))
	for i := range events {
		values = append(values, structpb.NewStructValue(FromEvent(&events[i])))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldEvents: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

// ToEvents unwraps a Struct produced by FromEvents.
func ToEvents(s *structpb.Struct) ([]alert.Event, error) {
	values := s.GetFields()[FieldEvents].GetListValue().GetValues()
	events := make([]alert.Event, 0, len(values))

	for _, v := range values {
		event, err := ToEvent(v.GetStructValue())
		if err != nil {
			return nil, err
		}

		events = append(events, *event)
	}

	return events, nil
}

// number extracts a required finite number field.
func number(s *structpb.Struct, name string) (float64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, name)
	}

	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidField, name)
	}

	if math.IsNaN(n.NumberValue) || math.IsInf(n.NumberValue, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrInvalidField, name)
	}

	return n.NumberValue, nil
}

func breachesValue(breaches []alert.Quantity) *structpb.Value {
	values := make([]*structpb.Value, 0, len(breaches))
	for _, q := range breaches {
		values = append(values, structpb.NewStringValue(q.String()))
	}

	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func toBreaches(v *structpb.Value) ([]alert.Quantity, error) {
	var breaches []alert.Quantity

	for _, item := range v.GetListValue().GetValues() {
		q, ok := alert.ParseQuantity(item.GetStringValue())
		if !ok {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidField, FieldBreaches, item.GetStringValue())
		}

		breaches = append(breaches, q)
	}

	return breaches, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrInvalidField, FieldTimestamp, err)
	}

	return t, nil
}

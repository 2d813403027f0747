package sensor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
)

// Scenario is the YAML document replayed by a Scripted source.
type Scenario struct {
	// Readings are returned in order.
	Readings []alert.Reading `yaml:"readings"`
}

// Scripted replays a fixed sequence of readings and then reports io.EOF.
type Scripted struct {
	// readings is the sequence to replay.
	readings []alert.Reading
	// next is the index of the next reading.
	next int
	// mu protects next.
	mu sync.Mutex
}

// NewScripted creates a source replaying the provided readings.
func NewScripted(readings ...alert.Reading) *Scripted {
	return &Scripted{
		readings: append([]alert.Reading(nil), readings...),
	}
}

// LoadScenario reads a YAML scenario file into a Scripted source.
func LoadScenario(path string) (*Scripted, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err = yaml.Unmarshal(contents, &scenario); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}

	return NewScripted(scenario.Readings...), nil
}

// Read returns the next scripted reading, or io.EOF once exhausted.
func (s *Scripted) Read(ctx context.Context) (alert.Reading, error) {
	if err := ctx.Err(); err != nil {
		return alert.Reading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.readings) {
		return alert.Reading{}, io.EOF
	}

	r := s.readings[s.next]
	s.next++

	return r, nil
}

// Remaining returns the number of readings not yet replayed.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.readings) - s.next
}

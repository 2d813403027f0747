package sensor

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/domain/alert"
)

// Simulated generates uniformly distributed readings within configured ranges.
type Simulated struct {
	// settings holds the value ranges.
	settings config.Simulator
	// rng is the seeded generator.
	rng *rand.Rand
	// mu protects rng.
	mu sync.Mutex
}

// NewSimulated creates a simulated source. A zero seed picks a random one.
func NewSimulated(settings config.Simulator) *Simulated {
	seed := settings.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Simulated{
		settings: settings,
		//nolint:gosec // Simulated sensor values do not need a cryptographic generator.
		rng: rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// Read returns the next pseudo-random reading.
func (s *Simulated) Read(ctx context.Context) (alert.Reading, error) {
	if err := ctx.Err(); err != nil {
		return alert.Reading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return alert.Reading{
		Temperature: s.between(s.settings.Temperature),
		Smoke:       s.between(s.settings.Smoke),
		Gas:         s.between(s.settings.Gas),
	}, nil
}

// between returns a value in [r.Min, r.Max).
func (s *Simulated) between(r config.Range) float64 {
	return r.Min + s.rng.Float64()*(r.Max-r.Min)
}

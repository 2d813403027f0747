package alert

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultTemperatureThreshold is the default temperature limit in °C.
	DefaultTemperatureThreshold = 60.0
	// DefaultSmokeThreshold is the default smoke limit in PPM.
	DefaultSmokeThreshold = 300.0
	// DefaultGasThreshold is the default gas limit in PPM.
	DefaultGasThreshold = 1000.0
)

// ErrInvalidThreshold is returned when a threshold is not a positive finite number.
var ErrInvalidThreshold = errors.New("threshold must be a positive finite number")

// Thresholds holds the upper bounds for every sensed quantity.
type Thresholds struct {
	// Temperature is the limit in degrees Celsius.
	Temperature float64 `yaml:"temperature"`
	// Smoke is the limit in parts per million.
	Smoke float64 `yaml:"smoke"`
	// Gas is the limit in parts per million.
	Gas float64 `yaml:"gas"`
}

// DefaultThresholds returns the factory limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Temperature: DefaultTemperatureThreshold,
		Smoke:       DefaultSmokeThreshold,
		Gas:         DefaultGasThreshold,
	}
}

// Validate checks that every limit is a positive finite number.
func (t Thresholds) Validate() error {
	for _, q := range Quantities() {
		limit := t.Of(q)
		if limit <= 0 || math.IsInf(limit, 0) || math.IsNaN(limit) {
			return fmt.Errorf("%s threshold %v: %w", q, limit, ErrInvalidThreshold)
		}
	}

	return nil
}

// Of returns the limit for the given quantity.
func (t Thresholds) Of(q Quantity) float64 {
	switch q {
	case QuantityTemperature:
		return t.Temperature
	case QuantitySmoke:
		return t.Smoke
	case QuantityGas:
		return t.Gas
	default:
		return 0
	}
}

// String renders the limits with their units.
func (t Thresholds) String() string {
	return formatQuantities(t.Of)
}

// Breaches returns the quantities of the reading that exceed their limits.
// A value equal to its limit is not a breach.
func (t Thresholds) Breaches(r Reading) []Quantity {
	var breached []Quantity

	for _, q := range Quantities() {
		if r.Of(q) > t.Of(q) {
			breached = append(breached, q)
		}
	}

	return breached
}

package alert

import (
	"strconv"
	"strings"
)

// Quantity identifies one of the sensed values.
type Quantity int

// Sensed quantities, in evaluation order.
const (
	QuantityTemperature Quantity = iota
	QuantitySmoke
	QuantityGas
)

// Quantities returns every sensed quantity in evaluation order.
func Quantities() []Quantity {
	return []Quantity{QuantityTemperature, QuantitySmoke, QuantityGas}
}

// String returns the lowercase name of the quantity.
func (q Quantity) String() string {
	switch q {
	case QuantityTemperature:
		return "temperature"
	case QuantitySmoke:
		return "smoke"
	case QuantityGas:
		return "gas"
	default:
		return "unknown"
	}
}

// Unit returns the measurement unit of the quantity.
func (q Quantity) Unit() string {
	if q == QuantityTemperature {
		return "°C"
	}

	return "PPM"
}

// ParseQuantity converts a name produced by Quantity.String back to a Quantity.
func ParseQuantity(s string) (Quantity, bool) {
	for _, q := range Quantities() {
		if q.String() == s {
			return q, true
		}
	}

	return 0, false
}

// Reading is one sample of the sensed quantities taken in a monitoring cycle.
type Reading struct {
	// Temperature in degrees Celsius.
	Temperature float64 `yaml:"temperature"`
	// Smoke level in parts per million.
	Smoke float64 `yaml:"smoke"`
	// Gas level in parts per million.
	Gas float64 `yaml:"gas"`
	// Source labels the producer of the reading. It never affects evaluation.
	Source string `yaml:"source,omitempty"`
}

// Of returns the value of the given quantity.
func (r Reading) Of(q Quantity) float64 {
	switch q {
	case QuantityTemperature:
		return r.Temperature
	case QuantitySmoke:
		return r.Smoke
	case QuantityGas:
		return r.Gas
	default:
		return 0
	}
}

// String renders the values with their units, e.g. "temperature=65°C smoke=100PPM gas=200PPM".
func (r Reading) String() string {
	return formatQuantities(r.Of)
}

// formatQuantities renders value(q) for every quantity with its unit.
func formatQuantities(value func(Quantity) float64) string {
	var b strings.Builder

	for i, q := range Quantities() {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(q.String())
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(value(q), 'f', -1, 64))
		b.WriteString(q.Unit())
	}

	return b.String()
}

package alert

import "math"

const (
	// riskSaturation scales a threshold to the value at which a quantity's risk reaches 1.
	riskSaturation = 1.5

	temperatureRiskWeight = 0.4
	smokeRiskWeight       = 0.35
	gasRiskWeight         = 0.25
)

// Risk score boundaries of the elevated levels.
const (
	WarningRiskScore  = 0.6
	CriticalRiskScore = 0.8
)

// RiskLevel grades a risk score. Like the score it is informational only.
type RiskLevel int

// Risk levels in increasing severity.
const (
	RiskNormal RiskLevel = iota
	RiskWarning
	RiskCritical
)

// String returns the level name.
func (l RiskLevel) String() string {
	switch l {
	case RiskWarning:
		return "warning"
	case RiskCritical:
		return "critical"
	default:
		return "normal"
	}
}

// ParseRiskLevel converts a name produced by RiskLevel.String back to a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	for _, l := range []RiskLevel{RiskNormal, RiskWarning, RiskCritical} {
		if l.String() == s {
			return l, true
		}
	}

	return RiskNormal, false
}

// ClassifyRisk maps a score to its level.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score >= CriticalRiskScore:
		return RiskCritical
	case score >= WarningRiskScore:
		return RiskWarning
	default:
		return RiskNormal
	}
}

// RiskScore returns a weighted score between 0 and 1 describing how close the
// reading is to the thresholds. It is informational and never drives the latch.
func RiskScore(t Thresholds, r Reading) float64 {
	score := quantityRisk(r.Temperature, t.Temperature)*temperatureRiskWeight +
		quantityRisk(r.Smoke, t.Smoke)*smokeRiskWeight +
		quantityRisk(r.Gas, t.Gas)*gasRiskWeight

	return round2(score)
}

func quantityRisk(value, limit float64) float64 {
	if limit <= 0 {
		return 0
	}

	return math.Max(0, math.Min(value/(limit*riskSaturation), 1))
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

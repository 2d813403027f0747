package alert

import "time"

// DefaultHistoryCapacity is the number of evaluations kept when no capacity is given.
const DefaultHistoryCapacity = 1000

// Report summarizes the evaluations recorded in a History.
type Report struct {
	// Start is the timestamp of the oldest retained evaluation.
	Start time.Time
	// End is the timestamp of the newest retained evaluation.
	End time.Time
	// TotalReadings counts retained evaluations.
	TotalReadings int
	// FireReadings counts retained evaluations that detected fire.
	FireReadings int
	// NormalReadings counts retained evaluations within all thresholds.
	NormalReadings int
	// Warnings counts retained evaluations graded RiskWarning.
	Warnings int
	// CriticalAlerts counts retained evaluations graded RiskCritical.
	CriticalAlerts int
	// Raised counts every raised transition ever recorded.
	Raised int
	// Cleared counts every cleared transition ever recorded.
	Cleared int
	// Averages holds the mean of each quantity over retained evaluations.
	Averages Reading
}

// History keeps the most recent evaluations in a fixed-size ring.
// It is not safe for concurrent use.
type History struct {
	// entries is the ring buffer.
	entries []Evaluation
	// next is the ring position of the next write.
	next int
	// size is the number of valid entries.
	size int
	// raised and cleared count transitions, including evicted ones.
	raised, cleared int
}

// NewHistory creates a history retaining up to capacity evaluations.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &History{
		entries: make([]Evaluation, capacity),
	}
}

// Record stores the evaluation, evicting the oldest one when full.
func (h *History) Record(e Evaluation) {
	h.entries[h.next] = e
	h.next = (h.next + 1) % len(h.entries)

	if h.size < len(h.entries) {
		h.size++
	}

	if e.Event == nil {
		return
	}

	switch e.Event.Kind {
	case EventRaised:
		h.raised++
	case EventCleared:
		h.cleared++
	}
}

// Len returns the number of retained evaluations.
func (h *History) Len() int {
	return h.size
}

// Evaluations returns the retained evaluations from oldest to newest.
func (h *History) Evaluations() []Evaluation {
	result := make([]Evaluation, 0, h.size)

	start := (h.next - h.size + len(h.entries)) % len(h.entries)
	for i := range h.size {
		result = append(result, h.entries[(start+i)%len(h.entries)])
	}

	return result
}

// Report builds a summary of the retained evaluations.
func (h *History) Report() Report {
	report := Report{
		Raised:  h.raised,
		Cleared: h.cleared,
	}

	evaluations := h.Evaluations()
	if len(evaluations) == 0 {
		return report
	}

	var sum Reading

	for _, e := range evaluations {
		if e.FireDetected {
			report.FireReadings++
		}

		switch e.RiskLevel {
		case RiskWarning:
			report.Warnings++
		case RiskCritical:
			report.CriticalAlerts++
		case RiskNormal:
		}

		sum.Temperature += e.Reading.Temperature
		sum.Smoke += e.Reading.Smoke
		sum.Gas += e.Reading.Gas
	}

	total := float64(len(evaluations))

	report.Start = evaluations[0].Timestamp
	report.End = evaluations[len(evaluations)-1].Timestamp
	report.TotalReadings = len(evaluations)
	report.NormalReadings = report.TotalReadings - report.FireReadings
	report.Averages = Reading{
		Temperature: round2(sum.Temperature / total),
		Smoke:       round2(sum.Smoke / total),
		Gas:         round2(sum.Gas / total),
	}

	return report
}

// Package alert contains the fire alert business logic.
//
// It defines Thresholds and Reading, the two-state Latch that raises and
// clears an alert when a reading crosses any threshold, and the History that
// summarizes evaluations into a Report.
package alert

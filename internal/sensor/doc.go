// Package sensor provides the reading sources consumed by the alert latch.
//
// Simulated generates seeded pseudo-random readings within configured ranges.
// Scripted replays a fixed list, usually loaded from a YAML scenario file.
package sensor

// Package sensor runs guardian-sensor: it takes readings from a local source
// and pushes them to guardian-server for evaluation.
package sensor

// Package server runs guardian-server: one alert latch shared by every client
// through the gRPC API and the optional HTTP API.
//
// Evaluations are serialized, recorded for reports and, on transitions,
// fanned out to the configured notification sinks and the journal.
package server

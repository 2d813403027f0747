// Package config defines the settings shared by the guardian-eye binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Config holds the alert thresholds, the server endpoints, the monitoring
// loop cadence, the simulator ranges and the notification targets.
package config

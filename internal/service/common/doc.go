// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client wrapper with timeouts and a helper to
// label readings with the producing user and host.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

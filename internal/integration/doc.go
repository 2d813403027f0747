// Package integration runs guardian-server, guardian-sensor and the HTTP API
// together over real sockets.
package integration

// Package alert implements the HTTP transport for the alert service.
//
// Bodies are protobuf JSON renderings of the same Struct messages used by
// the gRPC transport.
package alert

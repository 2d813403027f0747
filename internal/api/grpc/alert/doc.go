// Package alert implements the gRPC transport for the alert service.
//
// The guardian.v1.AlertService descriptor is declared by hand over protobuf
// well-known types: readings, evaluations, reports and event lists travel as
// google.protobuf.Struct values built by the wire package.
package alert

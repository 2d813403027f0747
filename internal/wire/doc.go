// Package wire converts alert domain types to and from protobuf Struct
// messages.
//
// The same representation is used on gRPC, in HTTP bodies, in Kafka messages
// and in the journal file, so every consumer sees identical field names.
package wire

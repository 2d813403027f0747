// Package version exposes build metadata for the guardian-eye binaries.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
// Short and Full render them for the version subcommand, UserAgent tags
// outgoing gRPC connections and Fields feeds startup log lines.
package version

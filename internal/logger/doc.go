// Package logger wraps zap to offer:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration, parsing and per-logger overrides,
//   - convenience functions (InfoKV, WarnKV, etc.).
//
// Services take a context and pull the logger from it, so every component
// logs with the name and fields its caller attached.
package logger

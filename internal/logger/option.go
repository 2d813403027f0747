package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelOverride replaces the level filter of the wrapped core.
// Entries that pass the override reach the wrapped core even when its own
// level would drop them.
type levelOverride struct {
	zapcore.Core

	// enabler decides which entries are written.
	enabler zapcore.LevelEnabler
}

// Enabled reports whether entries at l pass the override.
func (c *levelOverride) Enabled(l zapcore.Level) bool {
	return c.enabler.Enabled(l)
}

// Check adds the core to ce when the entry passes the override.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *levelOverride) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the override on child cores.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *levelOverride) With(fields []zapcore.Field) zapcore.Core {
	return &levelOverride{Core: c.Core.With(fields), enabler: c.enabler}
}

// WithLevel returns an option that makes a logger write entries at lvl and
// above, regardless of the level it was built with.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelOverride{Core: core, enabler: lvl}
	})
}

// WithVerbose returns a context whose logger writes debug entries.
func WithVerbose(ctx context.Context) context.Context {
	return ToContext(ctx, FromContext(ctx).WithOptions(WithLevel(zapcore.DebugLevel)))
}

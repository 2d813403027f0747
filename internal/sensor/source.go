package sensor

import (
	"context"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
)

// Source produces one reading per call.
// Read returns io.EOF when the source has no more readings.
type Source interface {
	Read(ctx context.Context) (alert.Reading, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (alert.Reading, error)

// Read calls f(ctx).
func (f SourceFunc) Read(ctx context.Context) (alert.Reading, error) {
	return f(ctx)
}

// Labeled stamps every reading of the wrapped source with a source label
// unless the reading already carries one.
func Labeled(src Source, label string) Source {
	return SourceFunc(func(ctx context.Context) (alert.Reading, error) {
		r, err := src.Read(ctx)
		if err != nil {
			return r, err
		}

		if r.Source == "" {
			r.Source = label
		}

		return r, nil
	})
}

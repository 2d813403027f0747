package notify

import (
	"context"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
)

// Multi fans an event out to every notifier in order.
type Multi []alert.Notifier

// Notify forwards the event to each non-nil notifier.
func (m Multi) Notify(ctx context.Context, event alert.Event) {
	for _, n := range m {
		if n == nil {
			continue
		}

		n.Notify(ctx, *event.Clone())
	}
}

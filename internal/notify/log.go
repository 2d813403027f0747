package notify

import (
	"context"
	"strings"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
)

// Log writes alert events to the logger carried by the context.
type Log struct {
	// Contacts are listed with every raised alert.
	Contacts []string
}

// Notify logs raised events at warn level and cleared events at info level.
func (l Log) Notify(ctx context.Context, event alert.Event) {
	kvs := []any{
		"event_id", event.ID,
		"reading", event.Reading.String(),
	}

	if event.Reading.Source != "" {
		kvs = append(kvs, "source", event.Reading.Source)
	}

	switch event.Kind {
	case alert.EventRaised:
		kvs = append(kvs, "breaches", joinBreaches(event.Breaches))
		if len(l.Contacts) > 0 {
			kvs = append(kvs, "contacts", strings.Join(l.Contacts, ","))
		}

		logger.WarnKV(ctx, "Fire alert raised", kvs...)
	case alert.EventCleared:
		logger.InfoKV(ctx, "Alert cleared, conditions normal", kvs...)
	}
}

func joinBreaches(breaches []alert.Quantity) string {
	names := make([]string, 0, len(breaches))
	for _, q := range breaches {
		names = append(names, q.String())
	}

	return strings.Join(names, ",")
}

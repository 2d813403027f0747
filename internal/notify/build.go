package notify

import (
	"context"
	"fmt"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
)

// FromConfig builds the notifier chain described by the settings: the log
// sink first, then the hook command and the Kafka publisher when configured,
// then any extra notifiers. The returned closer releases network resources.
func FromConfig(ctx context.Context, cfg *config.Config, extra ...alert.Notifier) (Multi, func() error, error) {
	sinks := Multi{Log{Contacts: cfg.Notify.Contacts}}
	closer := func() error { return nil }

	if len(cfg.Notify.Command) > 0 {
		hook, err := NewCommand(cfg.Notify.Command, cfg.Timeout, WithContacts(cfg.Notify.Contacts))
		if err != nil {
			return nil, nil, fmt.Errorf("alert hook: %w", err)
		}

		sinks = append(sinks, hook)

		logger.InfoKV(ctx, "Alert hook enabled", "command", cfg.Notify.Command[0])
	}

	if cfg.Notify.Kafka.Enabled() {
		publisher := NewKafka(NewKafkaWriter(cfg.Notify.Kafka.Brokers, cfg.Notify.Kafka.Topic), cfg.Timeout)
		sinks = append(sinks, publisher)
		closer = publisher.Close

		logger.InfoKV(ctx, "Kafka publisher enabled",
			"brokers", cfg.Notify.Kafka.Brokers, "topic", cfg.Notify.Kafka.Topic)
	}

	sinks = append(sinks, extra...)

	return sinks, closer, nil
}

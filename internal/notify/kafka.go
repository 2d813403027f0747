package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
	"github.com/oshokin/guardian-eye/internal/wire"
)

// MessageWriter is the subset of *kafka.Writer used by the Kafka sink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes alert events to a topic as protobuf JSON.
type Kafka struct {
	// writer delivers the messages.
	writer MessageWriter
	// timeout bounds a single publish.
	timeout time.Duration
}

// NewKafkaWriter creates a writer for the topic balanced by message key.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

// NewKafka creates a sink publishing through writer.
func NewKafka(writer MessageWriter, timeout time.Duration) *Kafka {
	return &Kafka{
		writer:  writer,
		timeout: timeout,
	}
}

// Notify publishes the event keyed by the reading source, logging failures.
func (k *Kafka) Notify(ctx context.Context, event alert.Event) {
	if err := k.publish(ctx, event); err != nil {
		logger.ErrorKV(ctx, "Kafka publish failed", "event_id", event.ID, "error", err)

		return
	}

	logger.DebugKV(ctx, "Published alert event", "event_id", event.ID, "kind", event.Kind.String())
}

// Close releases the underlying writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}

func (k *Kafka) publish(ctx context.Context, event alert.Event) error {
	value, err := protojson.Marshal(wire.FromEvent(&event))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if k.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	key := event.Reading.Source
	if key == "" {
		key = event.ID
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Kind.String())},
		},
	}

	if err = k.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}

// Package publisher mirrors staff notifications to Kafka for external
// consumers (dashboards, mobile push pipelines). The mirror is best-effort:
// the database row is the source of truth and produce failures are only
// logged.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"emarge/internal/notification"
)

// Kafka publishes notification items to a single topic, keyed by type so
// consumers interested in one event class stay on one partition.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects to the given brokers. Returns an error when the client
// cannot be constructed; broker unavailability surfaces later per produce.
func NewKafka(brokers []string, topic string, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic, logger: logger}, nil
}

// Publish produces one item asynchronously. Errors are logged and discarded.
func (k *Kafka) Publish(ctx context.Context, item notification.Item) {
	value, err := json.Marshal(item)
	if err != nil {
		k.logger.Error("marshal notification for kafka", "error", err, "notification_id", item.ID)
		return
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(item.Type),
		Value: value,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			k.logger.Error("produce notification to kafka",
				"error", err,
				"notification_id", item.ID,
				"topic", k.topic,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}

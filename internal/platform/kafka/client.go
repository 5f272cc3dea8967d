package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"orbit/internal/platform/config"
)

// Client wraps a franz-go producer used to mirror audit events to Kafka.
type Client struct {
	client *kgo.Client
	topic  string
}

// New creates a Kafka producer from the provided configuration.
// Returns nil if no brokers are configured (Kafka is optional).
func New(cfg config.KafkaConfig) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerLinger(0),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Client{client: client, topic: cfg.Topic}, nil
}

// Produce publishes a record to the audit topic, blocking until the broker
// acknowledges it or ctx expires.
func (c *Client) Produce(ctx context.Context, key, value []byte) error {
	record := &kgo.Record{Topic: c.topic, Key: key, Value: value}
	if err := c.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

// Close flushes and closes the producer.
func (c *Client) Close() {
	c.client.Close()
}

package votestream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

// KafkaPublisher emits accepted vote events to a Kafka topic so downstream
// consumers can observe them. Keys are the target FAQ id, which keeps events
// for the same record on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher constructs a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			MaxAttempts:  3,
			Compression:  kafka.Snappy,
		},
	}
}

// Publish implements faq.VotePublisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event faq.VoteEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal vote event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.TargetID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write vote event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ faq.VotePublisher = (*KafkaPublisher)(nil)

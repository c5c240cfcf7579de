package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer appends message-lifecycle events to a Kafka topic. Consumers
// (search indexing, analytics) are out of process; the producer is a pure
// fire-and-forget sink from the dispatcher's point of view.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error { return p.writer.Close() }

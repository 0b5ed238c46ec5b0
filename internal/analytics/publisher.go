package analytics

import (
	"context"
	"encoding/json"

	"localfirst-bot/internal/domain"

	"github.com/segmentio/kafka-go"
)

// Publisher feeds customer activity to the analytics pipeline.
type Publisher interface {
	PublishActivity(ctx context.Context, ev domain.ActivityEvent) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishActivity(ctx context.Context, ev domain.ActivityEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.CustomerPhone),
		Value: payload,
	})
}

// NopPublisher is used when no Kafka brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishActivity(context.Context, domain.ActivityEvent) error { return nil }

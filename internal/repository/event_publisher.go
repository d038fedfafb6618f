package repository

import (
	"context"

	"EarnChart/internal/domain/models"
	"EarnChart/internal/domain/repository"
	pkgkafka "EarnChart/pkg/kafka"
)

// Publisher is the part of pkg/kafka.Producer the event publisher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

var _ Publisher = (*pkgkafka.Producer)(nil)

// KafkaEventPublisher implements EventPublisher for Kafka. Events are keyed by ticker.
type KafkaEventPublisher struct {
	producer Publisher
	topic    string
}

// NewKafkaEventPublisher creates Kafka publisher.
func NewKafkaEventPublisher(producer Publisher, topic string) repository.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishChartServed(ctx context.Context, e *models.ChartServedEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.Ticker), e)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopEventPublisher drops events. Used when no brokers are configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishChartServed(context.Context, *models.ChartServedEvent) error {
	return nil
}

func (NoopEventPublisher) Close() error { return nil }

// Package events publishes generation outcomes to Kafka. The webhook path
// always answers 200, so this topic is where failures become visible.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"productai/internal/logger"
	"productai/internal/models"
)

const Topic = "generation-events"

type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Publish emits one generation event, keyed by shop so per-shop ordering is
// preserved.
func (p *Publisher) Publish(ctx context.Context, event models.GenerationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ShopDomain),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published %s event for product %d", event.Status, event.ProductID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

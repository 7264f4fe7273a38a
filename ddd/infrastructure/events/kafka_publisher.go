package events

import (
	"context"
	"encoding/json"
	"fmt"

	"segment-service/ddd/domain/gateway"
	"segment-service/internal/resource"
	"segment-service/pkg/config"
	"segment-service/pkg/logger"
)

// KafkaEventPublisher emits segment lifecycle events to the configured topic.
type KafkaEventPublisher struct {
	kafkaResource *resource.KafkaResource
	topic         string
}

var _ gateway.EventPublisher = (*KafkaEventPublisher)(nil)

// NewKafkaEventPublisher builds the publisher on the shared kafka resource.
// Returns a no-op publisher when kafka is disabled.
func NewKafkaEventPublisher(kafkaResource *resource.KafkaResource, cfg *config.Config) gateway.EventPublisher {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	if !cfg.Kafka.Enabled || kafkaResource == nil || kafkaResource.Client() == nil {
		return NewNoopEventPublisher()
	}
	return &KafkaEventPublisher{
		kafkaResource: kafkaResource,
		topic:         cfg.Kafka.Topics.SegmentEvents,
	}
}

// Publish serializes the event as JSON keyed by segment UUID. Publishing is
// best effort; a broker error never fails the pipeline stage that emitted it.
func (p *KafkaEventPublisher) Publish(ctx context.Context, event gateway.SegmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal segment event: %w", err)
	}
	if err := p.kafkaResource.Client().Produce(ctx, p.topic, []byte(event.SegmentUUID), payload); err != nil {
		logger.Error("Failed to publish segment event", map[string]interface{}{
			"topic":        p.topic,
			"event_type":   event.Type,
			"segment_uuid": event.SegmentUUID,
			"error":        err.Error(),
		})
		return err
	}
	return nil
}

// NoopEventPublisher drops events. Used when kafka is disabled.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a publisher that discards events.
func NewNoopEventPublisher() gateway.EventPublisher {
	return &NoopEventPublisher{}
}

func (p *NoopEventPublisher) Publish(ctx context.Context, event gateway.SegmentEvent) error {
	return nil
}

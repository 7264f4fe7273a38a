package resource

import (
	"sync"

	"segment-service/pkg/assert"
	"segment-service/pkg/config"
	"segment-service/pkg/kafka"
)

var (
	kafkaResourceOnce      sync.Once
	singletonKafkaResource *KafkaResource
)

// KafkaResource owns the producer client for segment events.
type KafkaResource struct {
	client *kafka.Client
}

// DefaultKafkaResource returns the kafka resource singleton.
func DefaultKafkaResource() *KafkaResource {
	assert.NotCircular()
	kafkaResourceOnce.Do(func() {
		singletonKafkaResource = &KafkaResource{}
	})
	assert.NotNil(singletonKafkaResource)
	return singletonKafkaResource
}

// MustOpen wires the producer client. No-op when kafka is disabled.
func (r *KafkaResource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before KafkaResource")
	}
	if !cfg.Kafka.Enabled {
		return
	}
	client := kafka.DefaultClient()
	client.MustOpen()
	r.client = client
}

// Client returns the producer client, nil when kafka is disabled.
func (r *KafkaResource) Client() *kafka.Client {
	return r.client
}

// Close flushes producers.
func (r *KafkaResource) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

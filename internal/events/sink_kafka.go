package events

import (
	"context"
	"encoding/json"
	"fmt"

	"impulsa/internal/platform/kafka/producer"
)

// Producer is the subset of the kafka producer the sink needs.
type Producer interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaSink forwards events to a topic, keyed by user so one user's events
// stay ordered within a partition.
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(p Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Handle(_ context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return s.producer.ProduceAsync(&producer.Message{
		Topic: s.topic,
		Key:   []byte(e.UserID.String()),
		Value: payload,
		Headers: map[string]string{
			"event_type": string(e.Kind),
			"event_id":   e.ID,
		},
	})
}

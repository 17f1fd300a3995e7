package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	supplykafka "supplyhub/internal/infrastructure/kafka"
)

// KafkaNotifier publishes notifications keyed by order id so every message
// of one order lands on the same partition.
type KafkaNotifier struct {
	producer supplykafka.Producer
}

func NewKafkaNotifier(producer supplykafka.Producer) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

func (k *KafkaNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(n.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(n.Type)},
		},
	}

	if err := k.producer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}
	return nil
}

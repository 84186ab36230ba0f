package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes change events to a Kafka topic keyed by table.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// kafkaEnvelope carries the recipients alongside the event so consumers can
// route it the same way the websocket hub does.
type kafkaEnvelope struct {
	Event
	Recipients []string `json:"recipients"`
}

func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := encodeKafka(event)
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Table),
		Value: value,
		Time:  event.Timestamp,
	}); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func encodeKafka(event Event) ([]byte, error) {
	value, err := json.Marshal(kafkaEnvelope{Event: event, Recipients: event.Recipients})
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return value, nil
}

// Close flushes pending messages and closes the writer.
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/yeremiapane/ekantin/utils"
)

// kafkaEnvelope mengikuti format {entity, action, resourceId, ...} yang
// dibaca oleh consumer realtime.
type kafkaEnvelope struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       interface{}       `json:"data"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			// publish tidak boleh menahan request HTTP
			Async: true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					utils.ErrorLogger.Errorf("kafka: gagal mengirim %d event: %v", len(messages), err)
				}
			},
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, ev OrderEvent) error {
	msg, err := encodeMessage(p.topic, ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// encodeMessage memakai id pesanan sebagai key agar event satu pesanan
// masuk ke partisi yang sama.
func encodeMessage(topic string, ev OrderEvent) (kafka.Message, error) {
	action := strings.TrimPrefix(ev.Type, "order_")
	metadata := map[string]string{
		"kantinId": ev.KantinID,
		"status":   string(ev.Order.Status),
	}
	if ev.PreviousStatus != "" {
		metadata["previousStatus"] = string(ev.PreviousStatus)
	}

	value, err := json.Marshal(kafkaEnvelope{
		Entity:     "order",
		Action:     action,
		ResourceID: ev.Order.ID,
		Topic:      "order." + action,
		Metadata:   metadata,
		Data:       ev,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.Order.ID),
		Value: value,
		Time:  ev.OccurredAt,
	}, nil
}

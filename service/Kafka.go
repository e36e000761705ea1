package service

import (
	"context"

	"github.com/apsdehal/go-logger"
	"github.com/segmentio/kafka-go"
)

// EventPublisher is the outbound port for post-transition events.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type KafkaPublisher struct {
	Broker string
	Logger *logger.Logger
}

func NewKafkaPublisher(broker string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{Broker: broker, Logger: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	//Try create topic first
	conn, err := kafka.DialLeader(ctx, "tcp", p.Broker, topic, 0)
	if err != nil {
		p.Logger.Errorf("failed to create topic: %s", err)
		return err
	}
	_ = conn.Close()

	w := &kafka.Writer{
		Addr:     kafka.TCP(p.Broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer w.Close()

	err = w.WriteMessages(
		ctx,
		kafka.Message{
			Value: payload,
		},
	)
	if err != nil {
		p.Logger.Errorf("failed to write messages: %s", err)
		return err
	}

	p.Logger.Infof("[KAFKA] Message Sent! Topic : %s Payload: %s", topic, string(payload))
	return nil
}

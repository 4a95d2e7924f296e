package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vehiclecare/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MQSink publishes every booking event on a topic exchange so other services can
// follow the booking lifecycle. Routing key: booking.<event>.
type MQSink struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewMQSink(url, exchange string) (*MQSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &MQSink{conn: conn, ch: ch, exchange: exchange}, nil
}

func (s *MQSink) Name() string { return "rabbitmq" }

func (s *MQSink) Deliver(ctx context.Context, n models.Notification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.ch.PublishWithContext(ctx, s.exchange, RoutingKey(n.Name), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID,
		Timestamp:    n.OccurredAt,
		Body:         b,
	})
}

// RoutingKey maps an event name to its topic routing key.
func RoutingKey(event string) string {
	return "booking." + strings.ToLower(event)
}

func (s *MQSink) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Package events publishes order lifecycle events to RabbitMQ for downstream
// consumers (notifications, analytics). The publisher is optional: a nil
// *Publisher is safe to call and does nothing, so the API runs without a
// broker configured.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderPaid          = "order.paid"
)

type OrderEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	BuyerID string `json:"buyer_id"`
	// Farmers carries the distinct sellers on the order so consumers can
	// route notifications without a catalog lookup.
	Farmers  []string  `json:"farmers,omitempty"`
	Status   string    `json:"status"`
	Total    string    `json:"total"`
	Occurred time.Time `json:"occurred"`
}

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish is fire-and-forget: a broker failure is logged, never surfaced to
// the request that triggered the event.
func (p *Publisher) Publish(ctx context.Context, ev OrderEvent) {
	if p == nil {
		return
	}
	if ev.Occurred.IsZero() {
		ev.Occurred = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[events] marshal %s: %v", ev.Type, err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.channel.PublishWithContext(ctx, p.exchange, ev.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.Occurred,
		Body:         body,
	}); err != nil {
		log.Printf("[events] publish %s order=%s: %v", ev.Type, ev.OrderID, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.channel.Close()
	_ = p.conn.Close()
}

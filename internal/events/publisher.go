package events

import (
	"context"
	"encoding/json"
	"fmt"

	"localfirst-bot/internal/connections/rabbitmq"
	"localfirst-bot/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ordersExchange  = "orders_topic"
	dispatchQueue   = "dispatch.q"
	orderCreatedKey = "dispatch.order.created"
)

// OrderPublisher hands finalized orders to the dispatch side over RabbitMQ.
// Fleet assignment and courier notification live in separate services that
// consume the dispatch queue.
type OrderPublisher struct {
	client *rabbitmq.Client
}

func NewOrderPublisher(client *rabbitmq.Client) *OrderPublisher {
	return &OrderPublisher{client: client}
}

// DeclareTopology declares the exchange and dispatch queue. Safe to call on
// every startup.
func (p *OrderPublisher) DeclareTopology() error {
	ch := p.client.Channel()
	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", ordersExchange, err)
	}
	if _, err := ch.QueueDeclare(dispatchQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", dispatchQueue, err)
	}
	if err := ch.QueueBind(dispatchQueue, "dispatch.#", ordersExchange, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", dispatchQueue, err)
	}
	return nil
}

func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, msg domain.OrderCreatedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal order message: %w", err)
	}
	headers := amqp.Table{"x-source": "whatsapp-bot"}
	if err := p.client.Publish(ctx, ordersExchange, orderCreatedKey, body, headers, "application/json", true); err != nil {
		return fmt.Errorf("publish order created: %w", err)
	}
	return nil
}

// Package broker publishes notifications to a RabbitMQ topic exchange so
// out-of-process displays can subscribe per branch and channel.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeremiapane/dinein/services"
)

type Connection interface {
	Channel() (Channel, error)
	Close() error
}

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpConnection struct {
	conn *amqp.Connection
}

func Dial(url string) (Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return &amqpConnection{conn: conn}, nil
}

func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return ch, nil
}

func (c *amqpConnection) Close() error {
	if c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}

// Publisher sends each notification to the exchange with routing key
// "<channel>.<branch>", e.g. "kitchen.8c1f...".
type Publisher struct {
	conn     Connection
	exchange string

	mu sync.Mutex
	ch Channel
}

func NewPublisher(conn Connection, exchange string) (*Publisher, error) {
	p := &Publisher{conn: conn, exchange: exchange}
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

func RoutingKey(channel, branchID string) string {
	return strings.ToLower(channel) + "." + branchID
}

// channel returns the open channel, reopening it after a failure. Callers
// hold p.mu except during construction.
func (p *Publisher) channel() (Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) Broadcast(ctx context.Context, n services.Notification) error {
	body, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, p.exchange, RoutingKey(n.Channel, n.BranchID), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		ch.Close()
		p.ch = nil
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	return p.conn.Close()
}

// Package events publishes cart lifecycle notifications to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Routing keys of the published events.
const (
	RoutingDiscountsResolved = "cart.discounts_resolved"
	RoutingOrderCheckedOut   = "order.checked_out"
)

// Publisher sends JSON events to a topic exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
	Close() error
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type rabbitPublisher struct {
	conn     *amqp.Connection
	ch       channel
	logger   zerolog.Logger
	mu       sync.Mutex
	declared map[string]struct{}
}

// NewRabbitPublisher dials RabbitMQ and opens a channel for publishing.
func NewRabbitPublisher(amqpURL string, logger zerolog.Logger) (Publisher, error) {
	logger = logger.With().Str("component", "rabbitmq-publisher").Logger()

	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(cleanURL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error().Err(err).Msg("failed to open RabbitMQ channel")
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	logger.Info().Msg("RabbitMQ publisher connected")

	p := newRabbitPublisher(ch, logger)
	p.conn = conn
	return p, nil
}

func newRabbitPublisher(ch channel, logger zerolog.Logger) *rabbitPublisher {
	return &rabbitPublisher{
		ch:       ch,
		logger:   logger,
		declared: make(map[string]struct{}),
	}
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("invalid AMQP URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	if u.Path == "" {
		clean += "/"
	}
	return clean, nil
}

// Publish declares the durable topic exchange on first use and sends body as JSON.
func (p *rabbitPublisher) Publish(ctx context.Context, exchange, routingKey string, body any) error {
	if err := p.declare(exchange); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", routingKey, err)
	}

	err = p.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("exchange", exchange).
			Str("routing_key", routingKey).
			Msg("failed to publish event")
		return fmt.Errorf("failed to publish event %s: %w", routingKey, err)
	}

	p.logger.Debug().
		Str("exchange", exchange).
		Str("routing_key", routingKey).
		Int("bytes", len(payload)).
		Msg("event published")

	return nil
}

func (p *rabbitPublisher) declare(exchange string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.declared[exchange]; ok {
		return nil
	}
	if err := p.ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		p.logger.Error().Err(err).Str("exchange", exchange).Msg("failed to declare exchange")
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	p.declared[exchange] = struct{}{}
	return nil
}

// Close closes the channel and connection.
func (p *rabbitPublisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

type noopPublisher struct {
	logger zerolog.Logger
}

// NewNoopPublisher returns a publisher that only logs the events it receives.
func NewNoopPublisher(logger zerolog.Logger) Publisher {
	return &noopPublisher{
		logger: logger.With().Str("component", "noop-publisher").Logger(),
	}
}

func (p *noopPublisher) Publish(_ context.Context, exchange, routingKey string, _ any) error {
	p.logger.Debug().
		Str("exchange", exchange).
		Str("routing_key", routingKey).
		Msg("event publishing disabled, dropping event")
	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

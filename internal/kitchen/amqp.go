package kitchen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// Opener returns a fresh channel, reconnecting first if the connection is gone.
type Opener func() (Channel, error)

// AMQPPublisher sends tickets to a durable topic exchange with routing key
// kitchen.kot.<event>. A channel closed by the broker is reopened on the next
// publish.
type AMQPPublisher struct {
	mu       sync.Mutex
	open     Opener
	conn     *amqp.Connection
	ch       Channel
	exchange string
	log      logrus.FieldLogger
}

// DialAMQP connects to url and declares exchange.
func DialAMQP(url, exchange string, log logrus.FieldLogger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{exchange: exchange, log: log}
	p.open = func() (Channel, error) {
		if p.conn == nil || p.conn.IsClosed() {
			conn, err := amqp.Dial(url)
			if err != nil {
				return nil, fmt.Errorf("connect to rabbitmq: %w", err)
			}
			p.conn = conn
		}
		ch, err := p.conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("open rabbitmq channel: %w", err)
		}
		return ch, nil
	}

	if err := p.reopen(); err != nil {
		if p.conn != nil {
			p.conn.Close()
		}
		return nil, err
	}
	return p, nil
}

func NewAMQPPublisher(open Opener, exchange string, log logrus.FieldLogger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{open: open, exchange: exchange, log: log}
	if err := p.reopen(); err != nil {
		return nil, err
	}
	return p, nil
}

// reopen replaces the channel and redeclares the exchange. Callers hold mu,
// except the constructors.
func (p *AMQPPublisher) reopen() error {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	ch, err := p.open()
	if err != nil {
		return err
	}
	err = ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	p.ch = ch
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, t Ticket) error {
	body, err := json.Marshal(t)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if err := p.reopen(); err != nil {
			return fmt.Errorf("publish kot %d/%d: %w", t.FoodOrderID, t.KOTNumber, err)
		}
		p.log.WithField("exchange", p.exchange).Info("rabbitmq channel reopened")
	}

	err = p.publish(ctx, t, body)
	if errors.Is(err, amqp.ErrClosed) {
		if rerr := p.reopen(); rerr == nil {
			p.log.WithField("exchange", p.exchange).Info("rabbitmq channel reopened")
			err = p.publish(ctx, t, body)
		}
	}
	if err != nil {
		return fmt.Errorf("publish kot %d/%d: %w", t.FoodOrderID, t.KOTNumber, err)
	}

	p.log.WithFields(logrus.Fields{
		"food_order_id": t.FoodOrderID,
		"kot_number":    t.KOTNumber,
		"routing_key":   t.RoutingKey(),
	}).Debug("kot published")
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, t Ticket, body []byte) error {
	return p.ch.PublishWithContext(ctx,
		p.exchange,     // exchange
		t.RoutingKey(), // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    t.CreatedAt,
		})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.ch != nil {
		err = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

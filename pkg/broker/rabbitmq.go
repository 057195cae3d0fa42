package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// RabbitMQ publishes staff notifications to fanout exchanges. Exchanges are
// declared on first use.
type RabbitMQ struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]struct{}
	log      *zap.Logger
}

func ConnectRabbitMQ(url string, log *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	r := &RabbitMQ{
		conn:     conn,
		declared: make(map[string]struct{}),
		log:      log.With(zap.String("component", "rabbitmq")),
	}
	if err := r.openChannel(); err != nil {
		conn.Close()
		return nil, err
	}

	r.log.Info("Connected to RabbitMQ")
	return r, nil
}

// openChannel must be called with mu held (or before r is shared).
func (r *RabbitMQ) openChannel() error {
	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	r.ch = ch
	r.declared = make(map[string]struct{})
	return nil
}

func (r *RabbitMQ) Publish(ctx context.Context, exchange, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn.IsClosed() {
		return fmt.Errorf("publish to %s: %w", exchange, amqp.ErrClosed)
	}
	if r.ch == nil || r.ch.IsClosed() {
		if err := r.openChannel(); err != nil {
			return err
		}
	}

	if _, ok := r.declared[exchange]; !ok {
		err := r.ch.ExchangeDeclare(
			exchange, // name
			"fanout", // type
			true,     // durable
			false,    // auto-deleted
			false,    // internal
			false,    // no-wait
			nil,      // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", exchange, err)
		}
		r.declared[exchange] = struct{}{}
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := r.ch.PublishWithContext(ctx,
		exchange, // exchange
		"",       // routing key
		false,    // mandatory
		false,    // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "text/plain; charset=utf-8",
			Timestamp:    time.Now(),
			Body:         []byte(text),
		})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", exchange, err)
	}
	return nil
}

func (r *RabbitMQ) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil {
		r.ch.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}

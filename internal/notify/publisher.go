package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"association-storefront/internal/domain"
)

const (
	defaultPoolSize = 4
	publishTimeout  = 5 * time.Second
)

// Publisher announces verified payments on a durable AMQP queue so that
// fulfilment can pick them up.
type Publisher struct {
	pool   *channelPool
	queue  string
	logger *log.Logger
}

// Dial connects to the broker at url and declares queue.
func Dial(url, queue string, logger *log.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp: %w", err)
	}
	open := func() (channel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			return nil, fmt.Errorf("declare queue %s: %w", queue, err)
		}
		return ch, nil
	}
	pool, err := newChannelPool(open, defaultPoolSize, conn.Close)
	if err != nil {
		return nil, err
	}
	return newPublisher(pool, queue, logger), nil
}

func newPublisher(pool *channelPool, queue string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Publisher{pool: pool, queue: queue, logger: logger}
}

// PublishReceipt sends one persistent JSON message for r.
func (p *Publisher) PublishReceipt(ctx context.Context, r domain.Receipt) error {
	msg, err := receiptMessage(r)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.pool.get(ctx)
	if err != nil {
		return fmt.Errorf("get amqp channel: %w", err)
	}
	defer p.pool.put(ch)

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish receipt %s: %w", r.Reference, err)
	}
	p.logger.Printf("notify: published receipt reference=%s order=%d queue=%s", r.Reference, r.Order.ID, p.queue)
	return nil
}

func (p *Publisher) Close() {
	p.pool.Close()
}

func receiptMessage(r domain.Receipt) (amqp.Publishing, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal receipt: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     r.Reference,
		CorrelationId: fmt.Sprintf("order-%d", r.Order.ID),
		Timestamp:     r.VerifiedAt,
		Type:          "payment.verified",
		Body:          body,
	}, nil
}

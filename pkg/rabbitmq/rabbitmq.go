package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storefront/pkg/mailer"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// EmailQueue is the durable queue carrying mailer.Message bodies.
const EmailQueue = "email_queue"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // guards channel publishes
	log     *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the email queue.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareEmailQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("rabbitmq connected", zap.String("queue", EmailQueue))
	return &Client{conn: conn, channel: ch, log: log}, nil
}

func declareEmailQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		EmailQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", EmailQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// Dispatch publishes msg as a persistent JSON message on the email queue.
func (c *Client) Dispatch(ctx context.Context, msg mailer.Message) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	c.mu.Lock()
	err = c.channel.Publish(
		"",         // default exchange
		EmailQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	c.log.Debug("email queued", zap.String("template", msg.Template))
	return nil
}

// EmailHandler processes one queued email.
type EmailHandler func(ctx context.Context, msg mailer.Message) error

// ConsumeEmails delivers queued emails to handler until ctx is done or the channel closes.
func (c *Client) ConsumeEmails(ctx context.Context, handler EmailHandler) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		EmailQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("waiting for queued emails", zap.String("queue", EmailQueue))
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					c.log.Warn("email queue consumer channel closed")
					return
				}
				process(ctx, c.log, d, handler)
			}
		}
	}()
	return nil
}

// process acks on success, requeues handler failures and drops undecodable bodies.
func process(ctx context.Context, log *zap.Logger, d amqp.Delivery, handler EmailHandler) {
	var msg mailer.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Error("dropping malformed email message", zap.Uint64("tag", d.DeliveryTag), zap.Error(err))
		if rejectErr := d.Reject(false); rejectErr != nil {
			log.Error("failed to reject message", zap.Uint64("tag", d.DeliveryTag), zap.Error(rejectErr))
		}
		return
	}

	if err := handler(ctx, msg); err != nil {
		log.Error("failed to deliver queued email",
			zap.Uint64("tag", d.DeliveryTag),
			zap.String("template", msg.Template),
			zap.Error(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", zap.Uint64("tag", d.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", zap.Uint64("tag", d.DeliveryTag), zap.Error(ackErr))
	}
}

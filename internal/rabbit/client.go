package rabbit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	routingKey = "notification"
	prefetch   = 10
)

type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      *zerolog.Logger
}

// NewRabbit connects and declares a delayed-message exchange bound to queue.
// The broker needs the rabbitmq_delayed_message_exchange plugin.
func NewRabbit(url, exchange, queue string, log *zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return nil, errors.Wrap(err, "dial rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		log.Error().Err(err).Msg("failed to open RabbitMQ channel")
		return nil, errors.Wrap(err, "open channel")
	}

	client := &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
		log:      log,
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"declare exchange", func() error {
			return ch.ExchangeDeclare(exchange, "x-delayed-message", true, false, false, false,
				amqp.Table{"x-delayed-type": "direct"})
		}},
		{"declare queue", func() error {
			_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
			return err
		}},
		{"bind queue", func() error {
			return ch.QueueBind(queue, routingKey, exchange, false, nil)
		}},
		{"set prefetch", func() error {
			return ch.Qos(prefetch, 0, false)
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			client.Close()
			return nil, errors.Wrap(err, step.name)
		}
	}

	log.Info().Str("exchange", exchange).Str("queue", queue).Msg("RabbitMQ initialized")
	return client, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.log.Info().Msg("RabbitMQ connection closed")
}

// Publish sends message to the exchange. A positive delaySeconds holds it in
// the exchange for that long before it reaches the queue.
func (c *Client) Publish(message []byte, delaySeconds int) error {
	headers := amqp.Table{}
	if delaySeconds > 0 {
		headers["x-delay"] = int32(delaySeconds * 1000)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         message,
			Timestamp:    time.Now(),
			Headers:      headers,
		},
	)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to publish message to RabbitMQ")
		return errors.Wrap(err, "publish")
	}
	c.log.Debug().Str("exchange", c.exchange).Int("delay_seconds", delaySeconds).Msg("message published")
	return nil
}

// Consume delivers messages to handler until ctx is done or the channel
// closes. A message whose handler fails is requeued once, then dropped.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, []byte) error) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to start consuming messages")
		return errors.Wrap(err, "consume")
	}

	c.log.Info().Str("queue", c.queue).Msg("started consuming")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := handler(ctx, d.Body); err != nil {
				c.log.Warn().Err(err).Bool("redelivered", d.Redelivered).Msg("failed to process message")
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

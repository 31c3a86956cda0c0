package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-matcher/internal/logging"
)

// Broker names
const (
	ImportQueue     = "cv_uploads"
	UpdatesExchange = "cv_updates"
)

// RoutingKey is the status routing key for a user
func RoutingKey(userID fmt.Stringer) string {
	return "user." + userID.String()
}

// AMQPPublisher publishes status updates to a topic exchange
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher declares the updates exchange and returns a publisher for it
func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		UpdatesExchange, // name
		"topic",         // kind
		true,            // durable
		false,           // auto-delete
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, exchange: UpdatesExchange}, nil
}

// Publish sends one update routed to its user
func (p *AMQPPublisher) Publish(_ context.Context, update StatusUpdate) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode status update: %w", err)
	}

	return ch.Publish(
		p.exchange,
		RoutingKey(update.UserID),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    update.Timestamp,
			Body:         body,
		},
	)
}

// Consumer runs a pool of workers reading the import queue
type Consumer struct {
	conn    *amqp.Connection
	handler *Handler
	workers int
	logger  *zap.Logger
}

// NewConsumer creates a Consumer with at least one worker
func NewConsumer(conn *amqp.Connection, handler *Handler, workers int, logger *zap.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{conn: conn, handler: handler, workers: workers, logger: logging.OrNop(logger)}
}

// Run consumes until ctx ends or a worker loses its channel
func (c *Consumer) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for i := range c.workers {
		id := i + 1
		g.Go(func() error {
			return c.work(gCtx, id)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Consumer) work(ctx context.Context, id int) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: failed to open channel: %w", id, err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		ImportQueue, // queue name
		true,        // durable
		false,       // auto-delete
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	); err != nil {
		return fmt.Errorf("worker %d: failed to declare queue: %w", id, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("worker %d: failed to set qos: %w", id, err)
	}

	msgs, err := ch.Consume(
		ImportQueue, // queue name
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("worker %d: failed to consume: %w", id, err)
	}

	c.logger.Info("import worker started", zap.Int("worker", id))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			update, _ := c.handler.Handle(ctx, msg.Body)
			c.logger.Debug("import message handled",
				zap.Int("worker", id),
				zap.String("status", update.Status))
			// Failures are reported to the user, not redelivered.
			if err := msg.Ack(false); err != nil {
				c.logger.Warn("failed to ack message", zap.Int("worker", id), zap.Error(err))
			}
		}
	}
}

// Enqueue publishes an import request to the import queue
func Enqueue(conn *amqp.Connection, msg ImportMessage) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(ImportQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return ch.Publish("", ImportQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Package amqpw implements the worker interface on top of an AMQP
// broker: one durable queue per registered handler, manual acks and
// bounded concurrency per consumer.
package amqpw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/paykit/go-money/worker"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ErrInvalidConnection is returned when the Connection opt is not defined.
var ErrInvalidConnection = errors.New("invalid connection")

// ErrNotStarted is returned by Perform and Register before Start
// opened the broker channel.
var ErrNotStarted = errors.New("worker not started")

// Ensure Adapter implements the Worker interface.
var _ worker.Worker = (*Adapter)(nil)

// Options are used to configure the AMQP worker adapter.
type Options struct {
	// Connection is the AMQP connection to use.
	Connection *amqp.Connection

	// Logger is a logger interface to write the worker logs.
	Logger *zap.Logger

	// Name is used to identify the app as a consumer. Defaults to "moneyd".
	Name string

	// Exchange is used to customize the AMQP exchange name. Defaults to "".
	Exchange string

	// MaxConcurrency restricts the amount of workers in parallel.
	// Defaults to 25.
	MaxConcurrency int
}

// Adapter dispatches jobs through an AMQP broker.
type Adapter struct {
	conn           *amqp.Connection
	channel        *amqp.Channel
	log            *zap.Logger
	consumerName   string
	exchange       string
	maxConcurrency int
}

// New creates a new AMQP adapter.
func New(opts Options) (*Adapter, error) {
	if opts.Connection == nil {
		return nil, ErrInvalidConnection
	}

	if opts.Name == "" {
		opts.Name = "moneyd"
	}

	if opts.MaxConcurrency == 0 {
		opts.MaxConcurrency = 25
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Adapter{
		conn:           opts.Connection,
		log:            opts.Logger,
		consumerName:   opts.Name,
		exchange:       opts.Exchange,
		maxConcurrency: opts.MaxConcurrency,
	}, nil
}

// Start opens the broker channel and declares the exchange.
// The connection is closed when the context is canceled.
func (q *Adapter) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = q.Stop()
	}()

	c, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("could not start a new broker channel: %w", err)
	}

	q.channel = c

	if q.exchange != "" {
		err = c.ExchangeDeclare(
			q.exchange, // Name
			"direct",   // Type
			true,       // Durable
			false,      // Auto-deleted
			false,      // Internal
			false,      // No wait
			nil,        // Args
		)
		if err != nil {
			return fmt.Errorf("unable to declare exchange: %w", err)
		}
	}

	return nil
}

// Stop closes the connection to the broker.
func (q *Adapter) Stop() error {
	q.log.Info("stopping AMQP worker")

	if q.channel == nil {
		return nil
	}

	if err := q.channel.Close(); err != nil {
		return err
	}

	return q.conn.Close()
}

// Perform enqueues a new job.
func (q *Adapter) Perform(job worker.Job) error {
	if q.channel == nil {
		return ErrNotStarted
	}

	q.log.Info("enqueuing job", zap.Stringer("job", job))

	err := q.channel.Publish(
		q.exchange,  // exchange
		job.Handler, // routing key
		true,        // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         []byte(job.Args.String()),
		},
	)
	if err != nil {
		q.log.Error("error enqueuing job", zap.Stringer("job", job), zap.Error(err))

		return fmt.Errorf("error enqueuing job: %w", err)
	}

	return nil
}

// Register declares a durable queue for the handler name and starts
// consuming it with the declared worker.Handler.
func (q *Adapter) Register(name string, h worker.Handler) error {
	if q.channel == nil {
		return ErrNotStarted
	}

	q.log.Info("register handler", zap.String("handler", name))

	_, err := q.channel.QueueDeclare(
		name,
		true,
		false,
		false,
		false,
		amqp.Table{},
	)
	if err != nil {
		return fmt.Errorf("unable to create queue: %w", err)
	}

	msgs, err := q.channel.Consume(
		name,
		fmt.Sprintf("%s_%s_%s", q.consumerName, name, uuid.NewString()),
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("could not consume queue: %w", err)
	}

	// Process deliveries with maxConcurrency workers.
	sem := make(chan struct{}, q.maxConcurrency)

	go func() {
		for d := range msgs {
			sem <- struct{}{}

			q.log.Debug(
				"received job",
				zap.String("handler", name),
				zap.ByteString("body", d.Body),
			)

			args := worker.Args{}

			if err := json.Unmarshal(d.Body, &args); err != nil {
				q.log.Error("unable to decode job", zap.String("handler", name))

				<-sem

				continue
			}

			if err := h(args); err != nil {
				q.log.Error(
					"unable to process job",
					zap.String("handler", name),
					zap.Error(err),
				)

				<-sem

				continue
			}

			if err := d.Ack(false); err != nil {
				q.log.Error("unable to ack job", zap.String("handler", name))
			}

			<-sem
		}
	}()

	return nil
}

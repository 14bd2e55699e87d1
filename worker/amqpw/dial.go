package amqpw

import (
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// Dial opens an AMQP connection, retrying with exponential backoff
// up to five times before giving up.
func Dial(url string) (*amqp.Connection, error) {
	var conn *amqp.Connection

	operation := func() error {
		c, err := amqp.Dial(url)
		if err != nil {
			return errors.Wrap(err, "opening rabbitmq connection")
		}

		conn = c

		return nil
	}

	err := backoff.Retry(
		operation,
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
	)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Package webhook delivers ledger balance events to an external URL
// as JSON, retrying failed deliveries with exponential backoff.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/paykit/go-money/ledger"
	"github.com/paykit/go-money/pubsub"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

// Notifier consumes a subscription of balance events and posts each
// one to the configured URL. A delivery that keeps failing after the
// retry budget is logged and dropped; the stream goes on.
type Notifier struct {
	url        string
	client     *http.Client
	log        *zap.Logger
	maxRetries uint64
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient overrides the HTTP client used for deliveries.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.client = c
	}
}

// WithMaxRetries overrides the per-delivery retry budget.
func WithMaxRetries(retries uint64) Option {
	return func(n *Notifier) {
		n.maxRetries = retries
	}
}

// NewNotifier creates a Notifier posting to url.
func NewNotifier(url string, log *zap.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		url:        url,
		client:     &http.Client{Timeout: defaultTimeout},
		log:        log,
		maxRetries: 5,
	}

	for _, o := range opts {
		o(n)
	}

	return n
}

// Run delivers events from sub until the context is canceled or the
// subscription is closed. It always returns a nil error on a closed
// subscription so it can serve as a run group actor.
func (n *Notifier) Run(
	ctx context.Context,
	sub pubsub.Subscription[ledger.BalanceChange],
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-sub.C():
			if !ok {
				return nil
			}

			n.notify(ctx, event)
		}
	}
}

func (n *Notifier) notify(
	ctx context.Context,
	event pubsub.Event[ledger.BalanceChange],
) {
	operation := func() error {
		return n.deliver(ctx, event)
	}

	err := backoff.Retry(
		operation,
		backoff.WithContext(
			backoff.WithMaxRetries(
				backoff.NewExponentialBackOff(),
				n.maxRetries,
			),
			ctx,
		),
	)
	if err != nil {
		n.log.Error(
			"dropping balance event",
			zap.String("account_id", event.Payload.AccountID.String()),
			zap.Error(err),
		)

		return
	}

	n.log.Debug(
		"delivered balance event",
		zap.String("account_id", event.Payload.AccountID.String()),
	)
}

func (n *Notifier) deliver(
	ctx context.Context,
	event pubsub.Event[ledger.BalanceChange],
) error {
	body, err := json.Marshal(event)
	if err != nil {
		// a marshal failure will never heal, do not retry it.
		return backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		n.url,
		bytes.NewReader(body),
	)
	if err != nil {
		return backoff.Permanent(err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK ||
		resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}

	return nil
}

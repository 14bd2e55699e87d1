package inmem

import (
	"sync"

	"github.com/paykit/go-money/pubsub"
)

// Ensure type inmem.Subscription implements interface pubsub.Subscription.
var _ pubsub.Subscription[any] = (*Subscription[any])(nil)

// Subscription represents a stream of events published to the
// channels of this subscription.
type Subscription[P any] struct {
	// Channels this subscription is subscribed to.
	channels []string

	// Ensures c is only closed once.
	once sync.Once
	// Channel of events.
	c chan pubsub.Event[P]

	pubsub *PubSub[P]
}

// Close disconnects the subscription from the service it was
// created from.
func (s *Subscription[P]) Close() error {
	s.pubsub.Unsubscribe(s)

	return nil
}

// C returns a receive-only go channel of events published
// on the channels this subscription is subscribed to.
func (s *Subscription[P]) C() <-chan pubsub.Event[P] {
	return s.c
}

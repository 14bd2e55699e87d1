// Package inmem implements the pubsub interfaces on top of an in
// memory channel registry.
package inmem

import (
	"errors"
	"sync"

	"github.com/paykit/go-money/pubsub"
)

// ErrNoChannel is returned when no channels are passed
// to Publish or Subscribe.
var ErrNoChannel = errors.New("no channel given")

// Ensure type inmem.PubSub implements interface pubsub.PublishSubscriber.
var _ pubsub.PublishSubscriber[any] = (*PubSub[any])(nil)

// PubSub represents a PubSub backed by an in memory storage.
type PubSub[P any] struct {
	mu sync.Mutex

	// map having channel names as keys and subscriptions as values.
	channelsSubs map[string]map[*Subscription[P]]struct{}

	// eventBufferSize is the buffer size of the go channel
	// for each subscription.
	eventBufferSize int
}

// NewPubSub returns a new instance of PubSub backed
// by an in memory storage.
func NewPubSub[P any](eventBufferSize int) *PubSub[P] {
	return &PubSub[P]{
		channelsSubs:    make(map[string]map[*Subscription[P]]struct{}),
		eventBufferSize: eventBufferSize,
	}
}

// Publish publishes event to all the subscriptions of the
// channels provided.
func (ps *PubSub[P]) Publish(
	event pubsub.Event[P],
	channels ...string,
) error {
	if len(channels) == 0 {
		return ErrNoChannel
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, channel := range channels {
		subs := ps.channelsSubs[channel]
		if len(subs) == 0 {
			continue
		}

		for sub := range subs {
			select {
			case sub.c <- event:

			// In case no one listens to the subscriptions channel
			// remove the subscription.
			default:
				ps.removeSubscription(sub)
			}
		}
	}

	return nil
}

// Subscribe creates a new subscription for the provided channels.
func (ps *PubSub[P]) Subscribe(
	channels ...string,
) (pubsub.Subscription[P], error) {
	if len(channels) == 0 {
		return nil, ErrNoChannel
	}

	sub := &Subscription[P]{
		channels: channels,
		c:        make(chan pubsub.Event[P], ps.eventBufferSize),
		pubsub:   ps,
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, c := range channels {
		subs, ok := ps.channelsSubs[c]
		if !ok {
			subs = make(map[*Subscription[P]]struct{})
			ps.channelsSubs[c] = subs
		}

		subs[sub] = struct{}{}
	}

	return sub, nil
}

// Unsubscribe removes a sub from the service.
// Safe to call from external entities, it wraps the internal
// removal with the pubsub mutex.
func (ps *PubSub[P]) Unsubscribe(sub *Subscription[P]) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.removeSubscription(sub)
}

// removeSubscription closes the subscriptions go channel and
// removes it from the pubsubs storage.
func (ps *PubSub[P]) removeSubscription(sub *Subscription[P]) {
	// Only close the underlying channel once.
	sub.once.Do(func() {
		close(sub.c)
	})

	for _, channel := range sub.channels {
		subs, ok := ps.channelsSubs[channel]
		if !ok {
			continue
		}

		delete(subs, sub)

		if len(subs) == 0 {
			delete(ps.channelsSubs, channel)
		}
	}
}

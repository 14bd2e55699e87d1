// Package pubsub defines the basic interfaces of the event fan-out
// used inside the repo, together with the Event envelope that carries
// the information.
//
// An Event is published to one or more named channels, from where the
// underlying implementation dispatches it to every subscriber of
// those channels.
package pubsub

// Publisher is the interface that wraps the basic Publish method.
type Publisher[P any] interface {
	// Publish publishes an event to the specified channels.
	Publish(event Event[P], channels ...string) error
}

// Subscriber is the interface that wraps the Subscribe method.
type Subscriber[P any] interface {
	// Subscribe creates a new subscription for the events published
	// in the specified channels.
	Subscribe(channels ...string) (Subscription[P], error)
}

// PublishSubscriber is the interface that groups the basic
// Publish and Subscribe methods.
type PublishSubscriber[P any] interface {
	Publisher[P]
	Subscriber[P]
}

// Subscription represents a stream of events for a single consumer.
type Subscription[P any] interface {
	// C returns the stream of events published in the channels
	// of this Subscription.
	C() <-chan Event[P]

	// Close disconnects the subscription from the PubSub service
	// and closes the event stream channel.
	Close() error
}

// Event represents an event that occurs in the system.
type Event[P any] struct {
	// Specifies the type of event that is occurring.
	Type string `json:"type"`

	// The actual data from the event.
	Payload P `json:"payload"`
}

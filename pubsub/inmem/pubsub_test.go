package inmem_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/paykit/go-money/pubsub"
	"github.com/paykit/go-money/pubsub/inmem"
)

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	ps := inmem.NewPubSub[string](1)

	sub, err := ps.Subscribe("ledger")
	i.NoErr(err)

	t.Cleanup(func() {
		i.NoErr(sub.Close())
	})

	i.NoErr(ps.Publish(
		pubsub.Event[string]{Type: "balance.changed", Payload: "9.25"},
		"ledger",
	))

	event := <-sub.C()

	i.Equal("balance.changed", event.Type)
	i.Equal("9.25", event.Payload)
}

func TestPublishNoChannel(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	ps := inmem.NewPubSub[string](1)

	err := ps.Publish(pubsub.Event[string]{Type: "balance.changed"})

	i.True(err == inmem.ErrNoChannel)
}

func TestSubscribeNoChannel(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	ps := inmem.NewPubSub[string](1)

	_, err := ps.Subscribe()

	i.True(err == inmem.ErrNoChannel)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	ps := inmem.NewPubSub[int](1)

	sub, err := ps.Subscribe("ledger")
	i.NoErr(err)

	// first event fills the buffer, second overflows it and
	// removes the subscription.
	i.NoErr(ps.Publish(pubsub.Event[int]{Payload: 1}, "ledger"))
	i.NoErr(ps.Publish(pubsub.Event[int]{Payload: 2}, "ledger"))

	event, ok := <-sub.C()
	i.True(ok)
	i.Equal(1, event.Payload)

	_, ok = <-sub.C()
	i.True(!ok)
}

func TestCloseStopsDelivery(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	ps := inmem.NewPubSub[int](1)

	sub, err := ps.Subscribe("ledger")
	i.NoErr(err)

	i.NoErr(sub.Close())

	_, ok := <-sub.C()
	i.True(!ok)

	// publishing after close must not panic.
	i.NoErr(ps.Publish(pubsub.Event[int]{Payload: 1}, "ledger"))
}

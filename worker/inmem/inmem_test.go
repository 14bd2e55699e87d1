package inmem_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paykit/go-money/worker"
	"github.com/paykit/go-money/worker/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPerformRunsHandler(t *testing.T) {
	t.Parallel()

	a := inmem.New(inmem.Options{Logger: zap.NewExample()})

	done := make(chan worker.Args, 1)

	require.NoError(t, a.Register("ledger.deposit", func(args worker.Args) error {
		done <- args
		return nil
	}))

	require.NoError(t, a.Start(context.Background()))

	t.Cleanup(func() {
		require.NoError(t, a.Stop())
	})

	require.NoError(t, a.Perform(worker.Job{
		Handler: "ledger.deposit",
		Args:    worker.Args{"amount": "5.75"},
	}))

	select {
	case args := <-done:
		assert.Equal(t, "5.75", args["amount"])
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestPerformBeforeStart(t *testing.T) {
	t.Parallel()

	a := inmem.New(inmem.Options{})

	err := a.Perform(worker.Job{Handler: "ledger.deposit"})

	assert.ErrorIs(t, err, inmem.ErrNotStarted)
}

func TestPerformUnknownHandler(t *testing.T) {
	t.Parallel()

	a := inmem.New(inmem.Options{})

	require.NoError(t, a.Start(context.Background()))

	t.Cleanup(func() {
		require.NoError(t, a.Stop())
	})

	err := a.Perform(worker.Job{Handler: "nope"})

	assert.ErrorIs(t, err, inmem.ErrUnknownHandler)
}

func TestRegisterTwice(t *testing.T) {
	t.Parallel()

	a := inmem.New(inmem.Options{})

	noop := func(worker.Args) error { return nil }

	require.NoError(t, a.Register("ledger.deposit", noop))

	assert.Error(t, a.Register("ledger.deposit", noop))
}

func TestHandlerPanicDoesNotKillWorker(t *testing.T) {
	t.Parallel()

	a := inmem.New(inmem.Options{})

	var calls int64

	require.NoError(t, a.Register("panics", func(worker.Args) error {
		panic("boom")
	}))
	require.NoError(t, a.Register("counts", func(worker.Args) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}))

	require.NoError(t, a.Start(context.Background()))

	t.Cleanup(func() {
		require.NoError(t, a.Stop())
	})

	require.NoError(t, a.Perform(worker.Job{Handler: "panics"}))
	require.NoError(t, a.Perform(worker.Job{Handler: "counts"}))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&calls) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStopWaitsForInFlightJobs(t *testing.T) {
	t.Parallel()

	a := inmem.New(inmem.Options{})

	var done int64

	require.NoError(t, a.Register("slow", func(worker.Args) error {
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt64(&done, 1)
		return nil
	}))

	require.NoError(t, a.Start(context.Background()))

	require.NoError(t, a.Perform(worker.Job{Handler: "slow"}))

	// give the loop a chance to pick the job up before stopping.
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, a.Stop())

	assert.Equal(t, int64(1), atomic.LoadInt64(&done))
}

func TestStopRunsQueuedJobs(t *testing.T) {
	t.Parallel()

	// a single slot keeps most jobs sitting in the buffer when Stop
	// is called; none of them may be lost.
	a := inmem.New(inmem.Options{MaxConcurrency: 1})

	var done int64

	require.NoError(t, a.Register("slow", func(worker.Args) error {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&done, 1)
		return nil
	}))

	require.NoError(t, a.Start(context.Background()))

	for i := 0; i < 5; i++ {
		require.NoError(t, a.Perform(worker.Job{Handler: "slow"}))
	}

	require.NoError(t, a.Stop())

	assert.Equal(t, int64(5), atomic.LoadInt64(&done))
}

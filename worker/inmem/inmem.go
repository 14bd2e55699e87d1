// Package inmem implements the worker interface on top of a buffered
// go channel. It is the default adapter of moneyd when no broker is
// configured.
package inmem

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/paykit/go-money/worker"
	"go.uber.org/zap"
)

// ErrNotStarted is returned by Perform before Start is called.
var ErrNotStarted = errors.New("worker not started")

// ErrUnknownHandler is returned by Perform for jobs whose handler
// was never registered.
var ErrUnknownHandler = errors.New("unknown handler")

// Ensure Adapter implements the Worker interface.
var _ worker.Worker = (*Adapter)(nil)

// Options are used to configure the in memory worker adapter.
type Options struct {
	// Logger is a logger interface to write the worker logs.
	Logger *zap.Logger

	// MaxConcurrency restricts the amount of jobs processed
	// in parallel. Defaults to 25.
	MaxConcurrency int

	// QueueSize is the capacity of the job buffer. Defaults to 256.
	QueueSize int
}

// Adapter processes jobs in memory with bounded concurrency.
type Adapter struct {
	log *zap.Logger

	mu       sync.Mutex
	handlers map[string]worker.Handler
	started  bool

	jobs chan worker.Job
	sem  chan struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new in memory adapter.
func New(opts Options) *Adapter {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if opts.MaxConcurrency == 0 {
		opts.MaxConcurrency = 25
	}

	if opts.QueueSize == 0 {
		opts.QueueSize = 256
	}

	return &Adapter{
		log:      opts.Logger,
		handlers: make(map[string]worker.Handler),
		jobs:     make(chan worker.Job, opts.QueueSize),
		sem:      make(chan struct{}, opts.MaxConcurrency),
	}
}

// Register stores a handler under the given name.
func (a *Adapter) Register(name string, h worker.Handler) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.handlers[name]; ok {
		return fmt.Errorf("handler %q already registered", name)
	}

	a.handlers[name] = h

	return nil
}

// Start launches the consuming loop. It returns immediately; jobs
// are processed until the context is canceled or Stop is called.
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return errors.New("worker already started")
	}

	ctx, a.cancel = context.WithCancel(ctx)

	a.started = true

	a.wg.Add(1)

	go a.loop(ctx)

	return nil
}

// Stop cancels the consuming loop, dispatches jobs that were already
// accepted and waits for all of them to finish.
func (a *Adapter) Stop() error {
	a.mu.Lock()

	if !a.started {
		a.mu.Unlock()

		return nil
	}

	a.started = false
	cancel := a.cancel

	a.mu.Unlock()

	cancel()
	a.wg.Wait()

	return nil
}

// Perform enqueues a new job.
func (a *Adapter) Perform(job worker.Job) error {
	a.mu.Lock()

	if !a.started {
		a.mu.Unlock()

		return ErrNotStarted
	}

	_, ok := a.handlers[job.Handler]

	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHandler, job.Handler)
	}

	a.log.Debug("enqueuing job", zap.Stringer("job", job))

	a.jobs <- job

	return nil
}

func (a *Adapter) loop(ctx context.Context) {
	defer a.wg.Done()

	for {
		select {
		case <-ctx.Done():
			a.drain()

			return

		case job := <-a.jobs:
			a.dispatch(job)
		}
	}
}

// drain dispatches jobs that were accepted by Perform but are still
// buffered when the loop shuts down. Stop waits for them through the
// wait group, so an accepted job is never lost.
func (a *Adapter) drain() {
	for {
		select {
		case job := <-a.jobs:
			a.dispatch(job)

		default:
			return
		}
	}
}

func (a *Adapter) dispatch(job worker.Job) {
	a.sem <- struct{}{}

	a.wg.Add(1)

	go func() {
		defer a.wg.Done()
		defer func() { <-a.sem }()

		a.run(job)
	}()
}

func (a *Adapter) run(job worker.Job) {
	a.mu.Lock()
	h := a.handlers[job.Handler]
	a.mu.Unlock()

	if err := a.safeHandle(h, job.Args); err != nil {
		a.log.Error(
			"job failed",
			zap.String("handler", job.Handler),
			zap.Error(err),
		)

		return
	}

	a.log.Debug("job done", zap.String("handler", job.Handler))
}

// safeHandle runs the handler and turns panics into errors so a bad
// job cannot take down the worker.
func (a *Adapter) safeHandle(h worker.Handler, args worker.Args) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return h(args)
}

// Package worker defines the background job interface implemented by
// the inmem and amqpw adapters.
package worker

import "context"

// Handler function that will be run by the worker and given
// the job arguments.
type Handler func(Args) error

// Worker processes jobs registered by name.
type Worker interface {
	// Start the worker with the given context.
	Start(context.Context) error
	// Stop the worker.
	Stop() error
	// Perform a job as soon as possible.
	Perform(job Job) error
	// Register a Handler under a name.
	Register(string, Handler) error
}

// Package httpserver handles the setup and shutdown of the http
// server serving the money API.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultAddr = ":8080"

// Info holds relevant information about the Server.
type Info struct {
	Addr string
}

// Server wraps an http.Server with logging and drain-aware shutdown.
type Server struct {
	// underlying http server.
	httpServer *http.Server

	log *zap.Logger

	// closed when the server was shutdown, meaning that either the
	// Serve() or ListenAndServe() methods returned.
	done chan struct{}

	// holds extra information about the service.
	info Info

	// only close the done channel once.
	closeDoneOnce sync.Once
}

// New builds a server with the defaults in place.
// Use Options to override them. Default list:
// - Address: ":8080"
func New(log *zap.Logger, handler http.Handler, options ...Option) *Server {
	server := &Server{
		httpServer: &http.Server{
			Handler: handler,
			Addr:    defaultAddr,
		},
		log:  log,
		done: make(chan struct{}),
		info: Info{Addr: defaultAddr},
	}

	for _, o := range options {
		o.apply(server)
	}

	return server
}

// Shutdown is a wrapper over http.Server.Shutdown() that also closes
// the Server done channel and bounds the shutdown duration.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	defer s.closeDoneOnce.Do(func() {
		close(s.done)
	})

	err := s.httpServer.Shutdown(ctx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Serve is a wrapper over http.Server.Serve(), accepting incoming
// connections on the provided listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.handleShutdown(s.httpServer.Serve(ln))
}

// ListenAndServe is a wrapper over http.Server.ListenAndServe() that
// logs basic information and blocks execution until the
// Server.Shutdown() method is called.
func (s *Server) ListenAndServe() error {
	s.log.Info("starting server", zap.String("address", s.httpServer.Addr))

	return s.handleShutdown(s.httpServer.ListenAndServe())
}

func (s *Server) handleShutdown(err error) error {
	s.log.Debug("listener shutdown, waiting for connections to drain")

	// wait until the Shutdown() method returns.
	<-s.done

	s.log.Debug("server connections are drained")

	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Info returns the server.Info object.
func (s *Server) Info() Info {
	return s.info
}

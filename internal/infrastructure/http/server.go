// Package http owns the server lifecycle: serving, signal handling, and the
// ordered graceful-shutdown sequence.
package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	defaultGrace    = 10 * time.Second
	defaultWatchdog = 30 * time.Second
)

// Lifecycle states. Transitions only run forward: Running → ShuttingDown →
// Terminated.
const (
	stateRunning int32 = iota
	stateShuttingDown
	stateTerminated
)

// Closer is one resource released during shutdown, after the HTTP side has
// drained (persistence, redis).
type Closer struct {
	Name  string
	Close func(ctx context.Context) error
}

// Server wraps an echo instance with graceful-shutdown sequencing:
//
//  1. stop accepting new connections
//  2. close idle keep-alive connections, wait the grace period for in-flight
//     requests (both via echo's Shutdown)
//  3. release registered closers in order
//  4. return from Run
//
// A watchdog timer forces the process down if the sequence hangs, so the
// process never waits forever on a stuck connection or store.
type Server struct {
	echo     *echo.Echo
	addr     string
	grace    time.Duration
	watchdog time.Duration
	closers  []Closer
	log      zerolog.Logger

	state atomic.Int32
	stop  chan string
	exit  func(int) // os.Exit, swappable in tests
}

// Option customizes a Server.
type Option func(*Server)

// WithGrace sets how long in-flight requests get to finish.
func WithGrace(d time.Duration) Option {
	return func(s *Server) { s.grace = d }
}

// WithWatchdog sets the hard deadline on the whole shutdown sequence.
func WithWatchdog(d time.Duration) Option {
	return func(s *Server) { s.watchdog = d }
}

func withExit(fn func(int)) Option {
	return func(s *Server) { s.exit = fn }
}

func NewServer(e *echo.Echo, addr string, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		echo:     e,
		addr:     addr,
		grace:    defaultGrace,
		watchdog: defaultWatchdog,
		log:      log,
		stop:     make(chan string, 1),
		exit:     os.Exit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnShutdown registers a resource to release once the HTTP side has drained.
// Closers run in registration order.
func (s *Server) OnShutdown(name string, fn func(ctx context.Context) error) {
	s.closers = append(s.closers, Closer{Name: name, Close: fn})
}

// Stop requests a graceful shutdown, as if a termination signal had arrived.
// Safe to call more than once; repeats are logged no-ops.
func (s *Server) Stop() {
	select {
	case s.stop <- "stop requested":
	default:
	}
}

// Run serves until a termination signal, a Stop call, or a fatal server
// error, then executes the shutdown sequence and returns the serve error, if
// any. Signals received while already shutting down are logged and ignored.
func (s *Server) Run() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("server listening")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var (
		runErr error
		done   = make(chan struct{})
	)

	trigger := func(reason string, err error) {
		if !s.state.CompareAndSwap(stateRunning, stateShuttingDown) {
			s.log.Info().Str("reason", reason).Msg("shutdown already in progress")
			return
		}
		runErr = err
		go func() {
			s.shutdown(reason)
			close(done)
		}()
	}

	for {
		select {
		case sig := <-sigCh:
			trigger(sig.String(), nil)
		case reason := <-s.stop:
			trigger(reason, nil)
		case err := <-serveErr:
			trigger("server error", err)
		case <-done:
			s.state.Store(stateTerminated)
			return runErr
		}
	}
}

func (s *Server) shutdown(reason string) {
	s.log.Info().Str("reason", reason).Msg("starting graceful shutdown")

	watchdog := time.AfterFunc(s.watchdog, func() {
		s.log.Error().
			Dur("timeout", s.watchdog).
			Msg("could not complete shutdown in time, forcing exit")
		s.exit(1)
	})
	defer watchdog.Stop()

	// Stops the listener, closes idle keep-alive connections, and waits up
	// to the grace period for in-flight requests.
	drainCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.echo.Shutdown(drainCtx); err != nil {
		s.log.Error().Err(err).Msg("server drain failed")
	} else {
		s.log.Info().Msg("http server drained")
	}

	for _, c := range s.closers {
		closeCtx, cancel := context.WithTimeout(context.Background(), s.grace)
		if err := c.Close(closeCtx); err != nil {
			s.log.Error().Err(err).Str("resource", c.Name).Msg("close failed")
		} else {
			s.log.Info().Str("resource", c.Name).Msg("closed")
		}
		cancel()
	}

	s.log.Info().Msg("graceful shutdown complete")
}

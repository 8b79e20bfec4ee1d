package shutdown

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Notices printed when a shutdown signal arrives. The crawl keeps the
// terminal busy with a progress bar, so the user needs explicit
// confirmation that the signal was seen and state will be saved.
const (
	stopNotice = "\nShutdown signal received. Saving state and exiting gracefully..."
	waitNotice = "Already shutting down. Please wait..."
)

// Controller converts shutdown signals into context cancellation.
// The crawl is never preempted: cancellation is observed between pages,
// the page in flight completes, and a final checkpoint is written
// before the process exits.
//
// The stopping flag is the only state shared with the signal goroutine,
// held in an atomic.Bool so no lock is needed.
type Controller struct {
	out      io.Writer
	signals  []os.Signal
	stopping atomic.Bool
	cancel   context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithOutput redirects the user-facing shutdown notices, which go to
// os.Stderr by default.
func WithOutput(w io.Writer) Option {
	return func(c *Controller) { c.out = w }
}

// WithSignals overrides the signals that trigger shutdown, which are
// os.Interrupt and SIGTERM by default.
func WithSignals(signals ...os.Signal) Option {
	return func(c *Controller) { c.signals = signals }
}

// NewController creates a Controller. Watch must be called to arm it.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		out:     os.Stderr,
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Watch registers for shutdown signals and returns a context derived
// from parent that is cancelled when the first signal arrives.
func (c *Controller) Watch(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, c.signals...)
	go func() {
		for range sigCh {
			c.handle()
		}
	}()

	return ctx
}

// Stopping reports whether a shutdown signal has been received.
func (c *Controller) Stopping() bool {
	return c.stopping.Load()
}

// handle processes one signal. Split out from the goroutine so tests
// can drive the state machine without delivering real signals.
func (c *Controller) handle() {
	if c.stopping.Swap(true) {
		fmt.Fprintln(c.out, waitNotice)
		return
	}
	fmt.Fprintln(c.out, stopNotice)
	c.cancel()
}

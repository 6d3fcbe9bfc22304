package greeting

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type result struct {
	greeting Greeting
	err      error
}

// Controller runs provider requests off the frame thread and hands results
// back through Poll. Apart from the provider call itself, every method must be
// called from the frame thread.
type Controller struct {
	provider Provider
	timeout  time.Duration

	current Greeting
	has     bool

	pending chan result // nil when idle
	done    chan struct{}

	// OnGreeting runs from Poll when a new greeting is applied.
	OnGreeting func(Greeting)
	// OnFailure runs from Poll when a request failed or returned an invalid
	// greeting.
	OnFailure func(error)
}

// NewController wraps p. A timeout of zero means requests are only bounded
// by the caller's context.
func NewController(p Provider, timeout time.Duration) *Controller {
	return &Controller{provider: p, timeout: timeout}
}

// Request starts a provider call unless one is already running, in which
// case the running one is joined. The returned channel closes once the result
// is ready for Poll.
func (c *Controller) Request(ctx context.Context) <-chan struct{} {
	if c.pending != nil {
		return c.done
	}

	res := make(chan result, 1)
	done := make(chan struct{})
	c.pending, c.done = res, done

	go func() {
		defer close(done)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		g, err := c.provider.Generate(ctx)
		res <- result{greeting: g, err: err}
	}()
	return done
}

// Poll applies a finished request, if any. It reports whether the displayed
// greeting changed. Failures leave the current greeting in place.
func (c *Controller) Poll() bool {
	if c.pending == nil {
		return false
	}

	var r result
	select {
	case r = <-c.pending:
	default:
		return false
	}
	c.pending, c.done = nil, nil

	if r.err == nil && !r.greeting.Valid() {
		r.err = fmt.Errorf("provider returned %+v: %w", r.greeting, ErrInvalidGreeting)
	}
	if r.err != nil {
		slog.Warn("greeting request failed", "error", r.err)
		if c.OnFailure != nil {
			c.OnFailure(r.err)
		}
		return false
	}

	c.current, c.has = r.greeting, true
	slog.Info("greeting received", "signature", r.greeting.Signature)
	if c.OnGreeting != nil {
		c.OnGreeting(r.greeting)
	}
	return true
}

// Loading reports whether a request is in flight or waiting for Poll.
func (c *Controller) Loading() bool {
	return c.pending != nil
}

// Greeting returns the displayed greeting and whether there is one.
func (c *Controller) Greeting() (Greeting, bool) {
	return c.current, c.has
}

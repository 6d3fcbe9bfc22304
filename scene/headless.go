package scene

import (
	"context"
	"log/slog"
)

// HeadlessOptions controls a fixed-step run without a frontend.
type HeadlessOptions struct {
	Frames         int     // Stop after this many frames (0 = only stop on convergence)
	DT             float64 // Seconds per frame
	ToggleAt       int     // Toggle formation before this frame (negative = never)
	GreetAt        int     // Request a greeting before this frame (negative = never)
	UntilConverged bool    // Stop once everything is within Epsilon of its target
	Epsilon        float64
}

// HeadlessResult summarises a headless run.
type HeadlessResult struct {
	Frames    int
	Elapsed   float64
	Mode      string
	Converged bool
	Greeting  string
}

// RunHeadless steps s at a fixed rate. A greeting still outstanding when the
// frame budget runs out is waited for and applied with one extra step.
func RunHeadless(ctx context.Context, s *Scene, opts HeadlessOptions) (HeadlessResult, error) {
	if opts.DT <= 0 {
		opts.DT = 1.0 / 60
	}
	if opts.Frames <= 0 && !opts.UntilConverged {
		opts.Frames = 600
	}

	var (
		clock   Clock
		pending <-chan struct{}
		res     HeadlessResult
	)
	for opts.Frames <= 0 || res.Frames < opts.Frames {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if res.Frames == opts.ToggleAt {
			s.ToggleFormation()
		}
		if res.Frames == opts.GreetAt {
			pending = s.RequestGreeting(ctx)
		}

		s.Step(clock.Tick(opts.DT))
		res.Frames++

		if opts.UntilConverged && pending == nil && s.Converged(opts.Epsilon) {
			res.Converged = true
			slog.Info("converged", "frame", res.Frames, "mode", s.Mode().String())
			break
		}
		if pending != nil && !s.GreetingLoading() {
			pending = nil
		}
	}

	if pending != nil {
		select {
		case <-pending:
			s.Step(clock.Tick(0))
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}

	res.Elapsed = clock.Elapsed()
	res.Mode = s.Mode().String()
	if !res.Converged {
		res.Converged = s.Converged(opts.Epsilon)
	}
	if g, ok := s.Greeting(); ok {
		res.Greeting = g.Message
	}
	return res, nil
}

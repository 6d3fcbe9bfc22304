package scene

import "github.com/pthm-cable/tinsel/components"

// Clock turns per-frame deltas into Frames.
type Clock struct {
	elapsed float64
}

// Tick advances the clock by dt seconds. Negative deltas count as zero.
func (c *Clock) Tick(dt float64) components.Frame {
	if dt < 0 {
		dt = 0
	}
	c.elapsed += dt
	return components.Frame{Elapsed: c.elapsed, Delta: dt}
}

// Elapsed returns the accumulated time in seconds.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

package telemetry

// Collector counts scene events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64

	windowStartFrame int32
	windowStartTime  float64

	toggles          int
	greetingRequests int
	greetings        int
	greetingFailures int
}

// NewCollector creates a collector flushing every windowDurationSec seconds
// of scene time.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordToggle records a formation toggle.
func (c *Collector) RecordToggle() {
	c.toggles++
}

// RecordGreetingRequest records a greeting trigger.
func (c *Collector) RecordGreetingRequest() {
	c.greetingRequests++
}

// RecordGreeting records a completed request.
func (c *Collector) RecordGreeting(ok bool) {
	if ok {
		c.greetings++
	} else {
		c.greetingFailures++
	}
}

// ShouldFlush reports whether the window starting at the last flush has
// elapsed by scene time elapsed.
func (c *Collector) ShouldFlush(elapsed float64) bool {
	return elapsed-c.windowStartTime >= c.windowDurationSec
}

// Snapshot is the scene state sampled at window end.
type Snapshot struct {
	Frame         int32
	Elapsed       float64
	Mode          string
	Distances     []float64 // Per particle distance to target
	Epsilon       float64
	Sparkles      int
	TopperDist    float64
	MeanLuminance float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(snap Snapshot) WindowStats {
	mean, p50, p90, max := DistanceStats(snap.Distances)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   snap.Frame,
		SimTimeSec:       snap.Elapsed,

		Mode:      snap.Mode,
		Particles: len(snap.Distances),
		Sparkles:  snap.Sparkles,

		Toggles:          c.toggles,
		GreetingRequests: c.greetingRequests,
		Greetings:        c.greetings,
		GreetingFailures: c.greetingFailures,

		DistMean: mean,
		DistP50:  p50,
		DistP90:  p90,
		DistMax:  max,
		Settled:  SettledFraction(snap.Distances, snap.Epsilon),

		TopperDist:    snap.TopperDist,
		MeanLuminance: snap.MeanLuminance,
	}

	c.windowStartFrame = snap.Frame
	c.windowStartTime = snap.Elapsed
	c.toggles = 0
	c.greetingRequests = 0
	c.greetings = 0
	c.greetingFailures = 0

	return stats
}

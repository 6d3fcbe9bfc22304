package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated scene statistics for a time window.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Scene state at window end
	Mode      string `csv:"mode"`
	Particles int    `csv:"particles"`
	Sparkles  int    `csv:"sparkles_visible"`

	// Events during window
	Toggles          int `csv:"toggles"`
	GreetingRequests int `csv:"greeting_requests"`
	Greetings        int `csv:"greetings"`
	GreetingFailures int `csv:"greeting_failures"`

	// Distance from each particle to its target, sampled at window end
	DistMean float64 `csv:"dist_mean"`
	DistP50  float64 `csv:"dist_p50"`
	DistP90  float64 `csv:"dist_p90"`
	DistMax  float64 `csv:"dist_max"`

	// Share of particles within the convergence epsilon
	Settled float64 `csv:"settled"`

	TopperDist    float64 `csv:"topper_dist"`
	MeanLuminance float64 `csv:"mean_luminance"`
}

// Percentile returns the empirical p-quantile of sorted, with p in [0, 1].
// It returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// DistanceStats summarises distances. values is left unmodified.
func DistanceStats(values []float64) (mean, p50, p90, max float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	max = floats.Max(sorted)
	return mean, p50, p90, max
}

// SettledFraction returns the share of values at or below eps.
func SettledFraction(values []float64, eps float64) float64 {
	if len(values) == 0 {
		return 1
	}
	n := 0
	for _, v := range values {
		if v <= eps {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("mode", s.Mode),
		slog.Int("particles", s.Particles),
		slog.Int("sparkles_visible", s.Sparkles),
		slog.Int("toggles", s.Toggles),
		slog.Int("greeting_requests", s.GreetingRequests),
		slog.Int("greetings", s.Greetings),
		slog.Int("greeting_failures", s.GreetingFailures),
		slog.Float64("dist_mean", s.DistMean),
		slog.Float64("dist_p50", s.DistP50),
		slog.Float64("dist_p90", s.DistP90),
		slog.Float64("dist_max", s.DistMax),
		slog.Float64("settled", s.Settled),
		slog.Float64("topper_dist", s.TopperDist),
		slog.Float64("mean_luminance", s.MeanLuminance),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

// Package scene owns the tree scene state and advances it once per frame.
// It has no rendering dependencies; frontends read from it after Step.
package scene

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/greeting"
	"github.com/pthm-cable/tinsel/systems"
	"github.com/pthm-cable/tinsel/telemetry"
)

// Options configures a Scene beyond the config file.
type Options struct {
	Seed int64
	// Provider overrides the provider selected in config.
	Provider greeting.Provider
	// Output receives telemetry; nil disables file output.
	Output   *telemetry.OutputManager
	LogStats bool
}

// Scene holds everything that changes from frame to frame. All methods must
// be called from the frame thread.
type Scene struct {
	cfg    *config.Config
	params systems.AnimParams

	field    *components.Field
	topper   components.Topper
	sparkles *systems.SparkleSystem
	rig      systems.LightRig
	colors   []color.RGBA // Lit particle colours, parallel to field.Particles

	mode    components.Mode
	greeter *greeting.Controller

	frame      components.Frame
	frameCount int32
	luminance  float64

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
	distances []float64

	// OnGreeting runs on the frame thread when a new greeting arrives.
	OnGreeting func(greeting.Greeting)
}

// New builds the scene: generates the field, spawns sparkles and sets up the
// greeting controller. Particles start at the origin in scattered mode.
func New(cfg *config.Config, opts Options) (*Scene, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	field, err := systems.GenerateField(cfg.Field, len(cfg.Derived.Palette), rng)
	if err != nil {
		return nil, fmt.Errorf("generating field: %w", err)
	}

	provider := opts.Provider
	if provider == nil {
		if provider, err = greeting.New(cfg.Greeting); err != nil {
			return nil, err
		}
	}

	s := &Scene{
		cfg:       cfg,
		params:    systems.NewAnimParams(cfg.Animation),
		field:     field,
		topper:    systems.NewTopper(cfg.Topper),
		sparkles:  systems.NewSparkleSystem(cfg.Sparkles, cfg.Derived.SparkleColor, rng),
		rig:       systems.NewLightRig(cfg.Lighting, cfg.Derived.Lights),
		colors:    make([]color.RGBA, field.Len()),
		mode:      components.ModeScattered,
		greeter:   greeting.NewController(provider, time.Duration(cfg.Greeting.Timeout*float64(time.Second))),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		output:    opts.Output,
		logStats:  opts.LogStats,
		distances: make([]float64, field.Len()),
	}
	s.greeter.OnGreeting = s.applyGreeting
	s.greeter.OnFailure = func(error) { s.collector.RecordGreeting(false) }
	s.shade()

	return s, nil
}

// Step advances the scene by one frame.
func (s *Scene) Step(frame components.Frame) {
	s.frame = frame
	s.frameCount++
	s.perf.StartStep()

	s.perf.StartPhase(telemetry.PhaseAnimate)
	systems.Animate(s.field, s.mode, frame, s.params)

	s.perf.StartPhase(telemetry.PhaseTopper)
	systems.UpdateTopper(&s.topper, s.mode, frame, s.params.LerpSpeed, s.cfg.Topper.SpinSpeed)

	s.perf.StartPhase(telemetry.PhaseSparkles)
	s.sparkles.Update(frame, s.mode, s.topper.Transform.Position)

	s.perf.StartPhase(telemetry.PhaseLighting)
	s.shade()

	s.perf.StartPhase(telemetry.PhaseGreeting)
	s.greeter.Poll()

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	if s.collector.ShouldFlush(frame.Elapsed) {
		s.flushTelemetry()
	}

	s.perf.EndStep()
}

// shade relights every particle at its current position.
func (s *Scene) shade() {
	palette := s.cfg.Derived.Palette
	var sum float64
	for i := range s.field.Particles {
		pos := s.field.Transforms[i].Position
		c := s.rig.Shade(pos, systems.SurfaceNormal(pos), palette[s.field.Particles[i].ColorIndex])
		s.colors[i] = c
		sum += systems.Luminance(c)
	}
	if n := len(s.colors); n > 0 {
		s.luminance = sum / float64(n)
	}
}

func (s *Scene) flushTelemetry() {
	s.distances = systems.TargetDistances(s.distances, s.field, s.mode)
	stats := s.collector.Flush(telemetry.Snapshot{
		Frame:         s.frameCount,
		Elapsed:       s.frame.Elapsed,
		Mode:          s.mode.String(),
		Distances:     s.distances,
		Epsilon:       s.cfg.Telemetry.ConvergedEpsilon,
		Sparkles:      s.visibleSparkles(),
		TopperDist:    r3.Norm(r3.Sub(s.topper.Transform.Position, s.topperTarget())),
		MeanLuminance: s.luminance,
	})
	perfStats := s.perf.Stats()

	if s.logStats {
		stats.LogStats()
		slog.Info("perf", "stats", perfStats)
	}
	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Warn("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, s.frameCount); err != nil {
		slog.Warn("failed to write perf", "error", err)
	}
}

func (s *Scene) visibleSparkles() int {
	n := 0
	s.sparkles.Visit(func(systems.SparkleSample) { n++ })
	return n
}

func (s *Scene) topperTarget() r3.Vec {
	if s.mode == components.ModeFormed {
		return s.topper.Formed
	}
	return s.topper.Scattered
}

// ToggleFormation flips between scattered and formed. The change takes
// effect on the next Step.
func (s *Scene) ToggleFormation() {
	s.mode = s.mode.Toggle()
	s.collector.RecordToggle()
	slog.Debug("formation toggled", "mode", s.mode.String())
}

// SetMode sets the formation mode directly.
func (s *Scene) SetMode(m components.Mode) {
	if m != s.mode {
		s.ToggleFormation()
	}
}

// RequestGreeting forms the tree and asks the provider for a greeting. The
// result is applied by a later Step once the returned channel closes.
func (s *Scene) RequestGreeting(ctx context.Context) <-chan struct{} {
	s.SetMode(components.ModeFormed)
	s.collector.RecordGreetingRequest()
	return s.greeter.Request(ctx)
}

func (s *Scene) applyGreeting(g greeting.Greeting) {
	s.collector.RecordGreeting(true)
	if err := s.output.WriteGreeting(telemetry.GreetingRecord{
		Frame:     s.frameCount,
		SimTime:   s.frame.Elapsed,
		Signature: g.Signature,
		Message:   g.Message,
	}); err != nil {
		slog.Warn("failed to write greeting", "error", err)
	}
	if s.OnGreeting != nil {
		s.OnGreeting(g)
	}
}

// Close writes a final telemetry window.
func (s *Scene) Close() {
	s.flushTelemetry()
}

// Mode returns the current formation mode.
func (s *Scene) Mode() components.Mode { return s.mode }

// Field returns the particle field. Callers must not modify it.
func (s *Scene) Field() *components.Field { return s.field }

// Colors returns the lit particle colours, parallel to Field().Particles.
func (s *Scene) Colors() []color.RGBA { return s.colors }

// Topper returns the topper state.
func (s *Scene) Topper() components.Topper { return s.topper }

// Sparkles returns the sparkle system for drawing.
func (s *Scene) Sparkles() *systems.SparkleSystem { return s.sparkles }

// Greeting returns the displayed greeting, if any.
func (s *Scene) Greeting() (greeting.Greeting, bool) { return s.greeter.Greeting() }

// GreetingLoading reports whether a greeting request is outstanding.
func (s *Scene) GreetingLoading() bool { return s.greeter.Loading() }

// Frame returns the last frame passed to Step.
func (s *Scene) Frame() components.Frame { return s.frame }

// FrameCount returns the number of steps taken.
func (s *Scene) FrameCount() int32 { return s.frameCount }

// Config returns the scene configuration.
func (s *Scene) Config() *config.Config { return s.cfg }

// Perf returns the step timings.
func (s *Scene) Perf() *telemetry.PerfCollector { return s.perf }

// Converged reports whether every particle and the topper are within eps of
// their targets.
func (s *Scene) Converged(eps float64) bool {
	if r3.Norm(r3.Sub(s.topper.Transform.Position, s.topperTarget())) > eps {
		return false
	}
	return systems.MaxTargetDistance(s.field, s.mode) <= eps
}

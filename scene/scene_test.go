package scene

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/greeting"
	"github.com/pthm-cable/tinsel/telemetry"
)

type failingProvider struct{}

func (failingProvider) Generate(context.Context) (greeting.Greeting, error) {
	return greeting.Greeting{}, errors.New("no signal")
}

func newTestScene(t *testing.T, opts Options) *Scene {
	t.Helper()
	s, err := New(config.Default(), opts)
	require.NoError(t, err)
	return s
}

func TestNewSceneStartsScatteredAtOrigin(t *testing.T) {
	s := newTestScene(t, Options{Seed: 1})

	assert.Equal(t, components.ModeScattered, s.Mode())
	assert.Equal(t, 2500, s.Field().Len())
	assert.Len(t, s.Colors(), 2500)
	for _, tr := range s.Field().Transforms {
		require.Equal(t, r3.Vec{}, tr.Position)
	}
	_, ok := s.Greeting()
	assert.False(t, ok)
}

func TestNewSceneRejectsEmptyField(t *testing.T) {
	cfg := config.Default()
	cfg.Field.Count = 0
	_, err := New(cfg, Options{})
	assert.Error(t, err)
}

func TestToggleScenarioConverges(t *testing.T) {
	s := newTestScene(t, Options{Seed: 2})
	var clock Clock

	s.ToggleFormation()
	require.Equal(t, components.ModeFormed, s.Mode())

	for i := 0; i < 600; i++ {
		s.Step(clock.Tick(1.0 / 60))
	}

	f := s.Field()
	for i := range f.Particles {
		d := r3.Norm(r3.Sub(f.Transforms[i].Position, f.Particles[i].Formed))
		require.LessOrEqualf(t, d, 0.01, "particle %d still %f from its formed target", i, d)
	}
	assert.True(t, s.Converged(0.01))
	assert.Equal(t, int32(600), s.FrameCount())
}

func TestToggleBackScatters(t *testing.T) {
	s := newTestScene(t, Options{Seed: 3})
	var clock Clock

	s.ToggleFormation()
	for i := 0; i < 120; i++ {
		s.Step(clock.Tick(1.0 / 60))
	}
	s.ToggleFormation()
	for i := 0; i < 600; i++ {
		s.Step(clock.Tick(1.0 / 60))
	}
	assert.Equal(t, components.ModeScattered, s.Mode())
	assert.True(t, s.Converged(0.01))
}

func TestGreetingScenario(t *testing.T) {
	s := newTestScene(t, Options{Seed: 4})
	var delivered []greeting.Greeting
	s.OnGreeting = func(g greeting.Greeting) { delivered = append(delivered, g) }
	var clock Clock

	done := s.RequestGreeting(context.Background())
	assert.Equal(t, components.ModeFormed, s.Mode(), "greeting forms the tree")
	<-done
	s.Step(clock.Tick(1.0 / 60))

	g, ok := s.Greeting()
	require.True(t, ok)
	assert.NotEmpty(t, g.Message)
	assert.NotEmpty(t, g.Signature)
	assert.Equal(t, components.ModeFormed, s.Mode())
	assert.Len(t, delivered, 1)
	assert.False(t, s.GreetingLoading())
}

func TestGreetingWhileFormedStaysFormed(t *testing.T) {
	s := newTestScene(t, Options{Seed: 5})
	s.ToggleFormation()

	<-s.RequestGreeting(context.Background())
	s.Step(components.Frame{Elapsed: 0.1, Delta: 0.1})
	assert.Equal(t, components.ModeFormed, s.Mode())
}

func TestGreetingFailureKeepsSceneRunning(t *testing.T) {
	s := newTestScene(t, Options{Seed: 6, Provider: failingProvider{}})
	var clock Clock

	<-s.RequestGreeting(context.Background())
	s.Step(clock.Tick(1.0 / 60))

	_, ok := s.Greeting()
	assert.False(t, ok)
	assert.False(t, s.GreetingLoading(), "a failed request can be retried")
	assert.Equal(t, components.ModeFormed, s.Mode())
}

func TestStepWritesTelemetry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := telemetry.NewOutputManager(dir)
	require.NoError(t, err)

	s := newTestScene(t, Options{Seed: 7, Output: om})
	var clock Clock
	<-s.RequestGreeting(context.Background())
	for i := 0; i < 130; i++ {
		s.Step(clock.Tick(1.0 / 60))
	}
	s.Close()
	require.NoError(t, om.Close())

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "formed")

	greetings, err := os.ReadFile(filepath.Join(dir, "greetings.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(greetings), greeting.Default.Signature)

	stats := s.Perf().Stats()
	assert.Contains(t, stats.PhaseAvg, telemetry.PhaseAnimate)
}

func TestLightingFollowsFormation(t *testing.T) {
	s := newTestScene(t, Options{Seed: 8})
	var clock Clock

	s.ToggleFormation()
	for i := 0; i < 300; i++ {
		s.Step(clock.Tick(1.0 / 60))
	}
	lit := 0
	for _, c := range s.Colors() {
		if c.R > 0 || c.G > 0 || c.B > 0 {
			lit++
		}
	}
	assert.Greater(t, lit, len(s.Colors())/2, "most of the tree should be lit")
}

func TestClockIgnoresNegativeDelta(t *testing.T) {
	var c Clock
	c.Tick(0.5)
	f := c.Tick(-1)
	assert.Equal(t, 0.0, f.Delta)
	assert.Equal(t, 0.5, f.Elapsed)
}

package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/tinsel/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// A nil manager swallows writes.
	assert.NoError(t, om.WriteTelemetry(WindowStats{}))
	assert.NoError(t, om.WriteGreeting(GreetingRecord{}))
	assert.NoError(t, om.Close())
	assert.Equal(t, "", om.Dir())
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)

	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndFrame: 60, Mode: "scattered", DistMax: 3.5}))
	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndFrame: 120, Mode: "formed"}))
	require.NoError(t, om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseAnimate: 50}}, 60))
	require.NoError(t, om.WriteGreeting(GreetingRecord{Frame: 90, Signature: "The Arix Collection", Message: "Hello, world"}))
	require.NoError(t, om.WriteConfig(config.Default()))
	require.NoError(t, om.Close())

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "window_end,sim_time,mode"))
	assert.Equal(t, 1, strings.Count(string(data), "window_end"))
	assert.Contains(t, lines[1], "scattered")
	assert.Contains(t, lines[2], "formed")

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(perf), "animate_pct")

	greetings, err := os.ReadFile(filepath.Join(dir, "greetings.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(greetings), `"Hello, world"`)

	_, err = config.Load(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err, "config snapshot should load back")
}

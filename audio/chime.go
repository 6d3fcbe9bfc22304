// Package audio synthesises the greeting chime.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Chime timing.
const (
	noteDuration = 900 * time.Millisecond
	noteAttack   = 5 * time.Millisecond
	noteGap      = 110 * time.Millisecond
)

// chimeNotes is a rising major arpeggio (C6 E6 G6 C7).
var chimeNotes = []float64{1046.50, 1318.51, 1567.98, 2093.00}

// sine is a fixed-length sine tone.
type sine struct {
	freq     float64
	phase    float64
	length   int
	position int
	rate     beep.SampleRate
}

func newSine(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sine{freq: freq, length: rate.N(d), rate: rate}
}

func (o *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *sine) Err() error { return nil }

// decay applies a linear attack followed by an exponential tail, the shape
// of a struck bell.
type decay struct {
	streamer beep.Streamer
	position int
	attack   int
	tau      float64 // Samples per e-fold of the tail
}

func newDecay(s beep.Streamer, attack, tail time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, attack: rate.N(attack), tau: float64(rate.N(tail)) / 5}
}

func (e *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		var vol float64
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		} else {
			vol = math.Exp(-float64(e.position-e.attack) / e.tau)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *decay) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// bell is one note with a quieter overtone an octave up.
func bell(freq float64, rate beep.SampleRate) beep.Streamer {
	return beep.Mix(
		newVolume(newDecay(newSine(freq, noteDuration, rate), noteAttack, noteDuration, rate), 0.7),
		newVolume(newDecay(newSine(freq*2, noteDuration, rate), noteAttack, noteDuration/2, rate), 0.3),
	)
}

// NewChime returns the full greeting chime at vol in [0, 1].
func NewChime(rate beep.SampleRate, vol float64) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(chimeNotes)+1)
	for i, f := range chimeNotes {
		offset := beep.Silence(rate.N(noteGap * time.Duration(i)))
		parts = append(parts, beep.Seq(offset, bell(f, rate)))
	}
	// Each note is scaled so the mix stays inside [-1, 1].
	return newVolume(beep.Mix(parts...), vol/float64(len(chimeNotes)))
}

// ChimeLength returns the chime's length in samples.
func ChimeLength(rate beep.SampleRate) int {
	return rate.N(noteGap*time.Duration(len(chimeNotes)-1) + noteDuration)
}

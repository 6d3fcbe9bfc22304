// Package anim holds small tweened values for overlays.
package anim

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Fader tweens an opacity between 0 and 1. Call Update once per frame.
type Fader struct {
	tween *gween.Tween
	delay float32
	value float32
	Done  bool
}

// NewFader creates a fader resting at value.
func NewFader(value float32) *Fader {
	return &Fader{value: value, Done: true}
}

// FadeTo starts a tween from the current value to target over duration
// seconds, after waiting delay seconds.
func (f *Fader) FadeTo(target, duration, delay float32, fn ease.TweenFunc) {
	if duration <= 0 {
		f.Reset(target)
		return
	}
	f.tween = gween.New(f.value, target, duration, fn)
	f.delay = delay
	f.Done = false
}

// Reset stops any running fade and rests at value.
func (f *Fader) Reset(value float32) {
	f.value, f.tween, f.delay, f.Done = value, nil, 0, true
}

// FadeIn tweens to fully opaque.
func (f *Fader) FadeIn(duration float32) {
	f.FadeTo(1, duration, 0, ease.OutCubic)
}

// FadeOut tweens to transparent after delay.
func (f *Fader) FadeOut(duration, delay float32) {
	f.FadeTo(0, duration, delay, ease.InOutQuad)
}

// Update advances the fade by dt seconds and returns the current value.
func (f *Fader) Update(dt float32) float32 {
	if f.Done || f.tween == nil {
		return f.value
	}
	if f.delay > 0 {
		f.delay -= dt
		if f.delay > 0 {
			return f.value
		}
		dt = -f.delay
		f.delay = 0
	}
	f.value, f.Done = f.tween.Update(dt)
	return f.value
}

// Value returns the current opacity.
func (f *Fader) Value() float32 {
	return f.value
}

// Alpha returns the value scaled to a colour alpha byte.
func (f *Fader) Alpha() uint8 {
	v := f.value
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

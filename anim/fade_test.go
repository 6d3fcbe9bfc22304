package anim

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestFadeInCompletes(t *testing.T) {
	f := NewFader(0)
	f.FadeIn(1.0)

	// Exact halves avoid float32 accumulation drift.
	f.Update(0.5)
	if f.Done {
		t.Fatal("fade finished early")
	}
	if v := f.Value(); v <= 0 || v >= 1 {
		t.Errorf("midway value = %f, want strictly between 0 and 1", v)
	}
	f.Update(0.5)

	if !f.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(float64(f.Value())-1) > 1e-4 {
		t.Errorf("value = %f, want 1", f.Value())
	}
	if f.Alpha() != 255 {
		t.Errorf("alpha = %d, want 255", f.Alpha())
	}
}

func TestFadeOutWaitsForDelay(t *testing.T) {
	f := NewFader(1)
	f.FadeOut(1.0, 2.0)

	f.Update(1.0)
	f.Update(0.5)
	if f.Value() != 1 {
		t.Errorf("value changed during delay: %f", f.Value())
	}

	// 0.5 s finishes the delay, the extra 0.5 s runs into the fade.
	f.Update(1.0)
	if v := f.Value(); v >= 1 || v <= 0 {
		t.Errorf("value = %f, want partway through the fade", v)
	}

	f.Update(0.5)
	if !f.Done || f.Value() > 1e-4 {
		t.Errorf("expected faded out, got %f (done=%v)", f.Value(), f.Done)
	}
}

func TestZeroDurationJumps(t *testing.T) {
	f := NewFader(0)
	f.FadeTo(0.75, 0, 0, ease.Linear)

	if !f.Done || f.Value() != 0.75 {
		t.Errorf("expected immediate jump to 0.75, got %f (done=%v)", f.Value(), f.Done)
	}
	if got := f.Update(1); got != 0.75 {
		t.Errorf("Update after completion = %f", got)
	}
}

func TestResetCancelsFade(t *testing.T) {
	f := NewFader(1)
	f.FadeOut(1.0, 0)
	f.Update(0.5)

	f.Reset(0)
	if !f.Done || f.Value() != 0 {
		t.Fatalf("expected rest at 0, got %f (done=%v)", f.Value(), f.Done)
	}
	if got := f.Update(0.5); got != 0 {
		t.Errorf("Update after Reset = %f, want 0", got)
	}
}

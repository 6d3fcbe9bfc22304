package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/tinsel/config"
)

// Player plays the chime through the system speaker. The speaker is opened
// on first use, so a disabled player never touches the audio device.
type Player struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	enabled     bool
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player from config.
func NewPlayer(cfg config.AudioConfig) *Player {
	return &Player{
		rate:    beep.SampleRate(cfg.SampleRate),
		volume:  cfg.Volume,
		enabled: cfg.Enabled && cfg.SampleRate > 0,
		mixer:   &beep.Mixer{},
	}
}

// Enabled reports whether Chime makes a sound.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *Player) init() error {
	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Chime plays the greeting chime. If the speaker cannot be opened the player
// disables itself and returns the error.
func (p *Player) Chime() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return nil
	}
	if err := p.init(); err != nil {
		p.enabled = false
		return err
	}

	speaker.Lock()
	p.mixer.Add(NewChime(p.rate, p.volume))
	speaker.Unlock()
	return nil
}

// Close silences anything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

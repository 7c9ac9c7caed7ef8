package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"penaltyshot/internal/shared/types"
)

const sampleRate = beep.SampleRate(44100)

// note is one tone of a cue. A zero frequency is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

var cues = map[types.EventType][]note{
	types.EventGoal: {{660, 90 * time.Millisecond}, {880, 160 * time.Millisecond}},
	types.EventSave: {{220, 180 * time.Millisecond}},
	types.EventMiss: {{440, 110 * time.Millisecond}, {330, 180 * time.Millisecond}},
	types.EventWin: {
		{523.25, 110 * time.Millisecond},
		{659.25, 110 * time.Millisecond},
		{783.99, 110 * time.Millisecond},
		{0, 40 * time.Millisecond},
		{1046.5, 260 * time.Millisecond},
	},
}

// Player plays one short cue per shot outcome. Every method is safe to call
// before Init or after a failed Init; the game runs without sound.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the audio device. Callers should treat an error as non-fatal.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues the cue for ev. Events without a cue are ignored.
func (p *Player) Play(ev types.EventType) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s, err := cue(ev)
	if err != nil || s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending cues.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// cue builds the streamer for ev, or nil when ev has no sound.
func cue(ev types.EventType) (beep.Streamer, error) {
	notes, ok := cues[ev]
	if !ok {
		return nil, nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := sampleRate.N(n.dur)
		if n.freq == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("tone %v Hz: %w", n.freq, err)
		}
		parts = append(parts, beep.Take(samples, tone))
	}
	return &effects.Gain{Streamer: beep.Seq(parts...), Gain: -0.75}, nil
}

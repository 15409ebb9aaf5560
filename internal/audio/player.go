package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/zataralive/seraph-ultimo-login/internal/sound"
)

// SampleRate is the rate every sound is rendered at.
const SampleRate = beep.SampleRate(44100)

// maxVoices bounds how many sounds the mixer holds at once.
const maxVoices = 24

// Player drains sound intents into a mixer on the default audio device.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	log         *log.Logger
	initialized bool
	played      int
}

// NewPlayer creates a player. Call Init before sounds are heard.
func NewPlayer(volume float64, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{mixer: &beep.Mixer{}, volume: volume, log: logger}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Consume drains the board and queues one sound per intent. It returns how
// many sounds were queued. Without an open device intents are discarded.
func (p *Player) Consume(b *sound.Board) int {
	intents := b.Drain()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return 0
	}

	n := 0
	for _, in := range intents {
		s := Render(Patches(in), p.volume, SampleRate)
		if s == nil {
			continue
		}
		speaker.Lock()
		if p.mixer.Len() < maxVoices {
			p.mixer.Add(s)
			n++
		}
		speaker.Unlock()
	}
	p.played += n
	return n
}

// Played returns the number of sounds queued so far.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Close silences the mixer.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	p.initialized = false
	p.log.Debug("audio closed", "played", p.played)
}

// Package audio turns sound intents into short procedural sounds played
// through a beep mixer. Nothing in the simulation waits on it.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveTriangle
	WaveNoise
)

// oscillator generates one wave, optionally sweeping linearly from freq to
// endFreq over its duration.
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     Wave
	rate     beep.SampleRate
	seed     uint32
}

// NewOscillator creates a streamer of the given wave. An endFreq of zero
// holds the frequency.
func NewOscillator(wave Wave, freq, endFreq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	if endFreq <= 0 {
		endFreq = freq
	}
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		seed:     uint32(freq*1000) | 1,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveTriangle:
			val = 1 - 4*math.Abs(o.phase-0.5)
		case WaveNoise:
			o.seed = o.seed*1664525 + 1013904223
			val = float64(o.seed)/float64(math.MaxUint32)*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		f := o.freq
		if o.duration > 0 {
			f += (o.endFreq - o.freq) * float64(o.position) / float64(o.duration)
		}
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with attack and release ramps.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.attackSamples > 0 && e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.releaseSamples > 0 {
			if remaining := e.totalSamples - e.position; remaining < e.releaseSamples {
				vol = math.Min(vol, float64(remaining)/float64(e.releaseSamples))
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly. math.Log2(0) is -Inf, so zero volume
// is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

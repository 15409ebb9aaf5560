package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/zataralive/seraph-ultimo-login/internal/sound"
)

// Patch is one layer of a sound: a shaped oscillator at a volume.
type Patch struct {
	Wave     Wave
	Freq     float64
	EndFreq  float64 // sweep target; zero holds Freq
	Duration time.Duration
	Attack   time.Duration
	Release  time.Duration
	Volume   float64
}

func ms(n float64) time.Duration {
	return time.Duration(n * float64(time.Millisecond))
}

// jitter derives a stable variation in [0, 1) from the intent time so
// repeated sounds differ without a random source.
func jitter(at float64) float64 {
	_, frac := math.Modf(math.Abs(math.Sin(at*12.9898) * 43758.5453))
	return frac
}

// Patches returns the layers played for intent i. Kinds without a sound
// return nil.
func Patches(i sound.Intent) []Patch {
	j := jitter(i.At)
	switch i.Kind {
	case sound.PlayerShoot:
		return shootPatches(i.Detail, j)
	case sound.PlayerJump:
		return []Patch{{Wave: WaveTriangle, Freq: 250, EndFreq: 600 + 150*j, Duration: ms(120), Attack: ms(10), Release: ms(50), Volume: 0.45}}
	case sound.PlayerLand:
		return []Patch{{Wave: WaveNoise, Duration: ms(100), Attack: ms(10), Release: ms(50), Volume: 0.3}}
	case sound.PlayerHit:
		f := math.Min(i.Amount/30, 1)
		return []Patch{
			{Wave: WaveNoise, Duration: ms(180), Attack: ms(1), Release: ms(100), Volume: 0.45 + 0.2*f},
			{Wave: WaveSquare, Freq: 160 - 40*f, Duration: ms(120), Attack: ms(5), Release: ms(60), Volume: 0.35 + 0.15*f},
		}
	case sound.EnemyHit:
		return []Patch{
			{Wave: WaveTriangle, Freq: 450 + 250*j, Duration: ms(60), Attack: ms(2), Release: ms(30), Volume: 0.35},
			{Wave: WaveNoise, Duration: ms(50), Attack: ms(1), Release: ms(20), Volume: 0.2},
		}
	case sound.EnemyDeath:
		return deathPatches(i.MaxHP, j)
	case sound.PlayerHeal, sound.Pickup:
		return []Patch{
			{Wave: WaveSine, Freq: 880, Duration: ms(160), Attack: ms(5), Release: ms(120), Volume: 0.35},
			{Wave: WaveSine, Freq: 1760, Duration: ms(160), Attack: ms(5), Release: ms(60), Volume: 0.15},
		}
	case sound.BarrierBlock:
		return []Patch{
			{Wave: WaveSquare, Freq: 550 + 80*j, Duration: ms(150), Attack: ms(2), Release: ms(60), Volume: 0.5},
			{Wave: WaveNoise, Duration: ms(120), Attack: ms(1), Release: ms(50), Volume: 0.35},
		}
	case sound.BarrierUp:
		return []Patch{{Wave: WaveSine, Freq: 500, EndFreq: 1500, Duration: ms(280), Attack: ms(80), Release: ms(100), Volume: 0.35}}
	case sound.Thunder:
		return []Patch{
			{Wave: WaveNoise, Duration: ms(350), Attack: ms(1), Release: ms(180), Volume: 0.65},
			{Wave: WaveSaw, Freq: 220, EndFreq: 60, Duration: ms(400), Attack: ms(5), Release: ms(150), Volume: 0.55},
		}
	case sound.BossRoar:
		return []Patch{
			{Wave: WaveSaw, Freq: 100, EndFreq: 50, Duration: ms(1000), Attack: ms(120), Release: ms(350), Volume: 0.75},
			{Wave: WaveNoise, Duration: ms(1200), Attack: ms(60), Release: ms(450), Volume: 0.5},
		}
	case sound.SceneCleared:
		return []Patch{
			{Wave: WaveSquare, Freq: 987.77, Duration: ms(90), Attack: ms(2), Release: ms(40), Volume: 0.3},
			{Wave: WaveSquare, Freq: 1318.51, Duration: ms(250), Attack: ms(90), Release: ms(150), Volume: 0.3},
		}
	case sound.ChoiceMade:
		return []Patch{{Wave: WaveTriangle, Freq: 660, Duration: ms(90), Attack: ms(5), Release: ms(50), Volume: 0.3}}
	case sound.EffectGained:
		return []Patch{
			{Wave: WaveSine, Freq: 80, EndFreq: 700, Duration: ms(350), Attack: ms(60), Release: ms(120), Volume: 0.45},
			{Wave: WaveNoise, Duration: ms(400), Attack: ms(30), Release: ms(150), Volume: 0.2},
		}
	}
	return nil
}

func shootPatches(staff string, j float64) []Patch {
	p := Patch{Wave: WaveTriangle, Freq: 700 + 200*j, Duration: ms(70), Attack: ms(2), Release: ms(40), Volume: 0.3}
	switch staff {
	case "emerald_staff":
		p.Wave, p.Freq, p.Duration, p.Volume = WaveSine, 900+150*j, ms(60), 0.28
	case "trident_staff":
		p.Wave, p.Freq, p.Duration, p.Volume = WaveSquare, 600+80*j, ms(90), 0.38
	case "boomstaff":
		return []Patch{
			{Wave: WaveNoise, Duration: ms(200), Attack: ms(10), Release: ms(100), Volume: 0.6},
			{Wave: WaveSine, Freq: 70 + 20*j, Duration: ms(180), Attack: ms(20), Release: ms(80), Volume: 0.5},
		}
	case "thunder_staff":
		return []Patch{
			{Wave: WaveNoise, Duration: ms(120), Attack: ms(1), Release: ms(50), Volume: 0.55},
			{Wave: WaveSaw, Freq: 180, EndFreq: 70, Duration: ms(180), Attack: ms(10), Release: ms(70), Volume: 0.4},
		}
	case "frozen_tip_staff":
		p.Wave, p.Freq, p.Duration = WaveSine, 500+100*j, ms(150)
	case "flesh_weaver_staff":
		p.Wave, p.Freq, p.Duration, p.Volume = WaveSaw, 130+40*j, ms(120), 0.3
	case "void_gaze_staff":
		p.Wave, p.Freq, p.Duration, p.Volume = WaveSaw, 90+40*j, ms(280), 0.45
	case "nexus_key_staff":
		p.Wave, p.Freq, p.EndFreq, p.Duration, p.Volume = WaveSine, 80, 700, ms(350), 0.45
	case "rainbow_staff", "chaos_orb_staff":
		p.Wave = Wave(int(j*4) % 4)
		p.Freq = 300 + 600*j
	case "cosmic_echo_staff", "reality_bender_staff":
		p.Freq, p.EndFreq, p.Duration = 700, 1200, ms(150)
	}
	return []Patch{p}
}

// deathPatches scale the pitch down and the length up with enemy toughness.
func deathPatches(maxHP, j float64) []Patch {
	size := math.Min(maxHP/400, 1)
	base := 220 - 140*size + 30*j
	dur := 150 + 350*size
	out := []Patch{
		{Wave: WaveNoise, Duration: ms(dur), Attack: ms(10), Release: ms(dur * 0.5), Volume: 0.4 + 0.3*size},
		{Wave: WaveSaw, Freq: base * 1.8, EndFreq: base * 0.4, Duration: ms(dur * 0.8), Attack: ms(20), Release: ms(dur * 0.4), Volume: 0.3 + 0.25*size},
	}
	if size >= 1 {
		out = append(out, Patch{Wave: WaveSine, Freq: base * 0.7, Duration: ms(dur * 1.3), Attack: ms(120), Release: ms(dur * 0.6), Volume: 0.4})
	}
	return out
}

// Render mixes patches into one finite streamer, scaled by master.
func Render(patches []Patch, master float64, rate beep.SampleRate) beep.Streamer {
	if len(patches) == 0 {
		return nil
	}
	layers := make([]beep.Streamer, 0, len(patches))
	for _, p := range patches {
		osc := NewOscillator(p.Wave, p.Freq, p.EndFreq, p.Duration, rate)
		shaped := NewEnvelope(osc, p.Duration, p.Attack, p.Release, rate)
		layers = append(layers, newVolume(shaped, p.Volume))
	}
	return newVolume(beep.Mix(layers...), master)
}

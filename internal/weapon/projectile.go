// Package weapon implements the staves. Each staff registers itself with the
// staff registry at init time; the simulation only sees registry.Staff.
package weapon

import (
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	baseInterval = 600.0
	baseDamage   = 12.0
	baseSize     = 12.0

	// BleedTicks and BleedFactor describe the bleed a critical bleeding shot applies.
	BleedTicks  = 5
	BleedFactor = 0.1
)

// DefaultID is the staff every run can use.
const DefaultID = "wizard_staff"

// Get returns the staff for id, falling back to the default staff.
func Get(id string) registry.Staff {
	if s, err := registry.Create(id); err == nil {
		return s
	}
	s, err := registry.Create(DefaultID)
	if err != nil {
		panic("weapon: default staff not registered")
	}
	return s
}

// BaseProjectile builds one aimed player projectile from the player's center.
// spread is added to the aim angle. When the player or chaotic is set, one
// random twist is rolled.
func BaseProjectile(s registry.Shot, spread float64, chaotic bool) *world.Projectile {
	p := s.Player
	center := p.Center()
	size := baseSize * p.ProjectileSize
	angle := s.Aim.Sub(center).Angle() + spread
	speed := s.Speed
	damage := p.Damage
	chaos := world.ChaosNone

	if chaotic || p.Absurd.Chaotic {
		roll := s.RNG.Float64()
		switch {
		case roll < 0.2:
			angle += (s.RNG.Float64() - 0.5) * 0.25
			chaos = world.ChaosErratic
		case roll < 0.4:
			size *= 0.6 + s.RNG.Float64()*0.8
			chaos = world.ChaosPulse
		case roll < 0.6:
			speed *= 0.7 + s.RNG.Float64()*0.6
		case roll < 0.8:
			chaos = world.ChaosColor
		default:
			damage *= 0.8 + s.RNG.Float64()*0.4
			if s.RNG.Chance(0.15) {
				chaos = world.ChaosStatus
			}
		}
	}

	return &world.Projectile{
		Owner:    world.OwnerPlayer,
		Kind:     world.KindStandard,
		Box:      core.CenteredAt(center, size, size),
		Vel:      core.Polar(angle, speed),
		Damage:   damage,
		Piercing: p.Piercing,
		SpawnAt:  s.Now,
		Chaos:    chaos,
		Bleeds:   p.Vengeance.CritBleed && s.RNG.Chance(p.CritChance),
	}
}

// aimAngle returns the direction from the player's center to the aim point.
func aimAngle(s registry.Shot) float64 {
	return s.Aim.Sub(s.Player.Center()).Angle()
}

// Spread returns n angle offsets evenly spaced across arc, centered on zero.
func Spread(n int, arc float64) []float64 {
	if n <= 1 {
		return []float64{0}
	}
	out := make([]float64, n)
	step := arc / float64(n-1)
	for i := range out {
		out[i] = (float64(i) - float64(n-1)/2) * step
	}
	return out
}

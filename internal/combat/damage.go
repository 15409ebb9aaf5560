// Package combat resolves hits between projectiles and entities for one
// tick: damage, on-hit procs, deaths with their rewards, and hits on the
// player with every ward that may stop them.
package combat

import (
	"math"

	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// Scoring holds the per-event score values. Hit and kill scores grow with the
// number of cleared combat scenes.
type Scoring struct {
	Hit       int `yaml:"hit"`
	CritBonus int `yaml:"crit_bonus"`
	Kill      int `yaml:"kill"`
	BossBonus int `yaml:"boss_bonus"`
}

// DefaultScoring returns the standard score table.
func DefaultScoring() Scoring {
	return Scoring{Hit: 10, CritBonus: 20, Kill: 50, BossBonus: 500}
}

// HitScore is the score for one hit after cleared combat scenes.
func (s Scoring) HitScore(cleared int, crit bool) int {
	n := s.Hit * (cleared + 1)
	if crit {
		n += s.CritBonus
	}
	return n
}

// KillScore is the bonus for a kill after cleared combat scenes.
func (s Scoring) KillScore(cleared int, boss bool) int {
	n := s.Kill * (cleared + 1)
	if boss {
		n += s.BossBonus
	}
	return n
}

const (
	buffedFactor   = 0.5
	armorStep      = 0.05
	fearChance     = 0.15
	fragmentFactor = 0.3
	minPlayerHit   = 1.0
)

// Damage computes the damage an enemy takes from a hit of base damage.
// Modifiers apply in a fixed order: crit, support buff, armor weaken,
// vulnerability stacks. The result is never negative.
func Damage(base float64, crit bool, critMult float64, s world.Status, perStack float64) float64 {
	d := base
	if crit {
		d *= critMult
	}
	if s.Buffed {
		d *= buffedFactor
	}
	if s.ArmorWeaken > 0 {
		d *= 1 + s.ArmorWeaken
	}
	if s.VulnStacks > 0 {
		d *= 1 + perStack*float64(s.VulnStacks)
	}
	return math.Max(0, d)
}

// PlayerDamage is what a hit of dmg costs a player with defense. Every
// landed hit costs at least one point.
func PlayerDamage(dmg, defense float64) float64 {
	return math.Max(minPlayerHit, dmg*(1-unit(defense)))
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

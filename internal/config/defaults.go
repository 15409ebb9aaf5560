package config

import (
	_ "embed"
)

//go:embed defaults/seraph.yaml
var defaultSeraphYAML []byte

// DefaultSeraphConfig returns the default Seraph configuration.
func DefaultSeraphConfig() SeraphConfig {
	return SeraphConfig{
		World: WorldConfig{
			Width:        1000,
			Height:       600,
			GroundHeight: 30,
		},
		Physics: PhysicsConfig{
			Gravity:            0.6,
			CollectibleGravity: 0.5,
			MaxDeltaMS:         50,
		},
		Player: PlayerConfig{
			HP:                120,
			Speed:             5,
			JumpForce:         13,
			Width:             40,
			Height:            60,
			CritChance:        0.05,
			CritMultiplier:    1.5,
			InvulnerabilityMS: 600,
			HealOrbChance:     0.03,
			ProjectileScale:   1,
		},
		Projectiles: ProjectileConfig{
			PlayerSpeed: 10,
			EnemySpeed:  3.7,
		},
		Scoring: ScoringConfig{
			Hit:       10,
			CritBonus: 20,
			Kill:      50,
			BossBonus: 500,
		},
		Difficulty: DifficultyConfig{
			Step:    0.10,
			Damping: 0.5,
		},
	}
}

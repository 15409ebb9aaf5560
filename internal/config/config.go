// Package config provides YAML-based game configuration loading, difficulty
// presets and environment overrides for Seraph.
package config

// SeraphConfig contains all tunables of the simulation.
type SeraphConfig struct {
	World       WorldConfig      `yaml:"world"`
	Physics     PhysicsConfig    `yaml:"physics"`
	Player      PlayerConfig     `yaml:"player"`
	Projectiles ProjectileConfig `yaml:"projectiles"`
	Scoring     ScoringConfig    `yaml:"scoring"`
	Difficulty  DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the arena size in world pixels.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"`
}

// PhysicsConfig defines the integrator parameters.
type PhysicsConfig struct {
	Gravity            float64 `yaml:"gravity"`
	CollectibleGravity float64 `yaml:"collectible_gravity"`
	MaxDeltaMS         float64 `yaml:"max_delta_ms"` // ticks longer than this are clamped
}

// PlayerConfig defines the starting player.
type PlayerConfig struct {
	HP                float64 `yaml:"hp"`
	Speed             float64 `yaml:"speed"`
	JumpForce         float64 `yaml:"jump_force"`
	Width             float64 `yaml:"width"`
	Height            float64 `yaml:"height"`
	CritChance        float64 `yaml:"crit_chance"`
	CritMultiplier    float64 `yaml:"crit_multiplier"`
	InvulnerabilityMS float64 `yaml:"invulnerability_ms"`
	HealOrbChance     float64 `yaml:"heal_orb_chance"`
	ProjectileScale   float64 `yaml:"projectile_scale"`
}

// ProjectileConfig defines base projectile speeds per frame.
type ProjectileConfig struct {
	PlayerSpeed float64 `yaml:"player_speed"`
	EnemySpeed  float64 `yaml:"enemy_speed"`
}

// ScoringConfig defines the score table.
type ScoringConfig struct {
	Hit       int `yaml:"hit"`
	CritBonus int `yaml:"crit_bonus"`
	Kill      int `yaml:"kill"`
	BossBonus int `yaml:"boss_bonus"`
}

// DifficultyConfig defines how enemies grow with cleared combat scenes.
type DifficultyConfig struct {
	Step      float64 `yaml:"step"`       // raw growth per cleared scene
	Damping   float64 `yaml:"damping"`    // diminishing-return damping
	HeadStart int     `yaml:"head_start"` // scenes counted as already cleared
	Fixed     bool    `yaml:"fixed"`      // no growth at all
}

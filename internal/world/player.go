package world

import (
	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
)

// Weapon describes the equipped staff.
type Weapon struct {
	ID           string
	Name         string
	BaseInterval float64 // ms between shots before modifiers
	BaseDamage   float64
}

// Loot holds drop-chance modifiers.
type Loot struct {
	HealChance      float64
	ExtraHealChance float64
	SoulOrbs        bool
	SoulChance      float64
	PotentOrbs      bool
}

// Sustain holds healing and drain modifiers.
type Sustain struct {
	LifeSteal float64
	Regrowth  float64 // fraction of max hp per second per live enemy
	Regen     float64 // hp per second
	Degen     bool
	DegenRate float64 // hp per second once the grace period passes

	LastDamageDealt float64
}

// Thunder is the periodic bolt ability.
type Thunder struct {
	Cooldown      float64
	PerActivation int
	LastAt        float64
	Armed         bool // set once the first activation time has been scheduled
	ResetChance   float64
}

// Barrier is the rechargeable shield that blocks one hit.
type Barrier struct {
	Enabled  bool
	Ready    bool
	Cooldown float64
	LastAt   float64
}

// Friction launches sparks after running a distance.
type Friction struct {
	Threshold float64
	Launch    int
	Distance  float64
}

// Fragmentation makes killed enemies burst into fragments.
type Fragmentation struct {
	Enabled  bool
	Count    int
	Modifier float64
	Recoil   bool
}

// Vengeance groups the Vingança on-hit modifiers.
type Vengeance struct {
	Rage         bool
	FearOnHit    bool
	FearDuration float64
	CritBleed    bool
	CritArmor    bool
}

// Intellect groups the Intelecto modifiers.
type Intellect struct {
	ExtraChoice      bool
	ConversionChance float64
	ConversionMult   float64
	Aura             bool
	AuraRadius       float64
	AuraSlow         float64
}

// Abyss groups the Abismo modifiers.
type Abyss struct {
	Vulnerability   bool
	VulnMaxStacks   int
	VulnPerStack    float64
	BlackHoleChance float64
}

// Flesh groups the Carne modifiers.
type Flesh struct {
	ContactDamage  float64
	Minions        bool
	MinionKind     string
	MinionInterval float64
	MinionCap      int
	LastMinionAt   float64
}

// Hope groups the Esperança modifiers.
type Hope struct {
	DivineIntervention bool
	DivineReady        bool
	NullifyChance      float64
	NullifyHeal        float64
}

// Absurd groups the Absurdo modifiers.
type Absurd struct {
	Chaotic         bool
	ConfuseChance   float64
	ConfuseDuration float64
	Unpredictable   bool
	TeleportOnHit   float64
	DuplicateChance float64
}

// Transcendence groups the Transcendência modifiers.
type Transcendence struct {
	Ethereal         bool
	EtherealDuration float64
	EtherealUntil    float64
	Psychic          bool
	PsychicFactor    float64
}

// WispKind distinguishes orbiting companions.
type WispKind int

const (
	WispStandard WispKind = iota
	WispShadow
	WispAegis
)

// Wisp orbits the player; standard and shadow wisps shoot, aegis wisps absorb hits.
type Wisp struct {
	Kind           WispKind
	Box            core.Rect
	Angle          float64
	AttackInterval float64
	Damage         float64
	LastAttack     float64
	Shield         int
}

// Minion is a player-owned summon that orbits and shoots.
type Minion struct {
	Kind       string
	Box        core.Rect
	Angle      float64
	Damage     float64
	Cooldown   float64
	LastAttack float64
}

// Player is the run's single player record.
type Player struct {
	Box      core.Rect
	VelX     float64 // horizontal displacement of the last tick, per frame
	VelY     float64
	Facing   float64 // -1 left, +1 right
	Grounded bool
	JumpHeld bool // jump input on the previous tick, for edge detection

	HP        float64
	MaxHP     float64
	Speed     float64
	JumpForce float64
	JumpsLeft int
	MaxJumps  int

	AttackInterval float64
	LastShot       float64
	BaseDamage     float64
	Damage         float64 // BaseDamage after rage
	CritChance     float64
	CritMult       float64
	Defense        float64
	Piercing       int
	ProjectileSize float64

	InvulnerableUntil float64
	InvulnOnHit       float64
	SlowedUntil       float64

	Weapon  Weapon
	Effects []string

	AscensionLevel    int
	AscensionAffinity affinity.Affinity

	Loot          Loot
	Sustain       Sustain
	Thunder       Thunder
	Barrier       Barrier
	Friction      Friction
	Fragmentation Fragmentation
	Vengeance     Vengeance
	Intellect     Intellect
	Abyss         Abyss
	Flesh         Flesh
	Hope          Hope
	Absurd        Absurd
	Transcendence Transcendence

	Wisps   []Wisp
	Minions []Minion
}

// PlayerStats are the starting values for a new player.
type PlayerStats struct {
	Width, Height   float64
	HP              float64
	Speed           float64
	JumpForce       float64
	CritChance      float64
	CritMult        float64
	InvulnOnHit     float64
	HealOrbChance   float64
	ProjectileScale float64
}

// NewPlayer creates a player standing on groundY, centered in a world of width w.
// Optional modifiers start at their neutral defaults.
func NewPlayer(stats PlayerStats, weapon Weapon, w, groundY float64) *Player {
	p := &Player{
		Box:            core.NewRect(w/2-stats.Width/2, groundY-stats.Height, stats.Width, stats.Height),
		Facing:         1,
		Grounded:       true,
		HP:             stats.HP,
		MaxHP:          stats.HP,
		Speed:          stats.Speed,
		JumpForce:      stats.JumpForce,
		JumpsLeft:      1,
		MaxJumps:       1,
		AttackInterval: weapon.BaseInterval,
		BaseDamage:     weapon.BaseDamage,
		Damage:         weapon.BaseDamage,
		CritChance:     stats.CritChance,
		CritMult:       stats.CritMult,
		ProjectileSize: stats.ProjectileScale,
		InvulnOnHit:    stats.InvulnOnHit,
		Weapon:         weapon,
	}
	p.Loot.HealChance = stats.HealOrbChance
	p.Fragmentation.Modifier = 1
	p.Vengeance.FearDuration = 2000
	p.Intellect.ConversionMult = 0.5
	p.Intellect.AuraRadius = 180
	p.Intellect.AuraSlow = 0.6
	p.Abyss.VulnMaxStacks = 5
	p.Abyss.VulnPerStack = 0.08
	p.Sustain.DegenRate = 1
	p.Flesh.MinionKind = "carne_spawnling"
	p.Flesh.MinionInterval = 7000
	p.Flesh.MinionCap = 3
	p.Hope.NullifyHeal = 10
	p.Absurd.ConfuseDuration = 3000
	p.Transcendence.EtherealDuration = 600
	p.Transcendence.PsychicFactor = 0.4
	return p
}

// ClampHP enforces 0 <= HP <= MaxHP and keeps jump charges in range.
func (p *Player) ClampHP() {
	if p.MaxHP < 1 {
		p.MaxHP = 1
	}
	p.HP = core.ClampF(p.HP, 0, p.MaxHP)
	p.JumpsLeft = core.Clamp(p.JumpsLeft, 0, p.MaxJumps)
}

// Heal adds hp, capped at MaxHP.
func (p *Player) Heal(amount float64) {
	if amount <= 0 {
		return
	}
	p.HP += amount
	p.ClampHP()
}

// Hurt removes hp, floored at zero.
func (p *Player) Hurt(amount float64) {
	if amount <= 0 {
		return
	}
	p.HP -= amount
	p.ClampHP()
}

// Center returns the center of the player's box.
func (p *Player) Center() core.Vec {
	return p.Box.Center()
}

// Invulnerable reports whether hits are ignored at time now.
func (p *Player) Invulnerable(now float64) bool {
	return now < p.InvulnerableUntil
}

// Slowed reports whether a slowing hit still drags the player at time now.
func (p *Player) Slowed(now float64) bool {
	return now < p.SlowedUntil
}

// Ethereal reports whether the player phases through projectiles at time now.
func (p *Player) Ethereal(now float64) bool {
	return now < p.Transcendence.EtherealUntil
}

// HasEffect reports whether id has been acquired at least once.
func (p *Player) HasEffect(id string) bool {
	for _, e := range p.Effects {
		if e == id {
			return true
		}
	}
	return false
}

// CountWisps returns how many wisps of kind k are active.
func (p *Player) CountWisps(k WispKind) int {
	n := 0
	for _, w := range p.Wisps {
		if w.Kind == k {
			n++
		}
	}
	return n
}

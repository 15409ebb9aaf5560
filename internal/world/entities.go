package world

import "github.com/zataralive/seraph-ultimo-login/internal/core"

// Status holds transient debuffs on an enemy.
type Status struct {
	FearedUntil   float64
	ConfusedUntil float64
	BleedTicks    float64
	BleedRate     float64
	VulnStacks    int
	ArmorWeaken   float64
	Buffed        bool // within range of a supporting ally
	Slowed        bool // inside the player's temporal aura this tick
}

// DashPhase is the state of a telegraphed dash.
type DashPhase int

const (
	DashIdle DashPhase = iota
	DashPreparing
	DashCharging
)

// Brain is the per-enemy runtime state used by movement policies.
type Brain struct {
	Target      core.Vec
	Phase       float64 // bob/wander phase offset
	PatrolIndex int

	LastTeleport float64

	Dash         DashPhase
	DashFrom     float64 // time the current dash phase started
	LastDash     float64
	DashVelocity core.Vec

	LastLunge  float64
	LungeUntil float64
	LungeVel   core.Vec

	BossTimers []float64 // last use per boss ability, indexed like the archetype's kit
	Enraged    bool

	LastFirewall float64

	Charging    bool
	ChargeFrom  float64
	LastPhase   float64
	PhasedUntil float64
	BurstUntil  float64
	LastBurst   float64
}

// Enemy is a live hostile entity.
type Enemy struct {
	ID         int
	Archetype  string
	Box        core.Rect
	HP         float64
	MaxHP      float64
	Speed      float64
	Damage     float64
	Cooldown   float64
	LastAttack float64
	Boss       bool
	HasSplit   bool
	SpawnedAt  float64

	Status Status
	Brain  Brain

	removed bool
}

// Removed reports whether the enemy has left the world.
func (e *Enemy) Removed() bool {
	return e.removed
}

// Kill marks the enemy removed. It returns true only for the first call, so
// rewards tied to a death are granted once even when several sources finish
// the same enemy in one tick.
func (e *Enemy) Kill() bool {
	if e.removed {
		return false
	}
	e.removed = true
	return true
}

// Feared reports whether the enemy is fleeing at time now.
func (e *Enemy) Feared(now float64) bool {
	return now < e.Status.FearedUntil
}

// Confused reports whether the enemy wanders at time now.
func (e *Enemy) Confused(now float64) bool {
	return now < e.Status.ConfusedUntil
}

// Phased reports whether projectiles pass through the enemy at time now.
func (e *Enemy) Phased(now float64) bool {
	return now < e.Brain.PhasedUntil
}

// Owner tags who fired a projectile.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
	OwnerNeutral
	OwnerMinion
	OwnerConverted
)

// HitsEnemies reports whether projectiles of this owner damage enemies.
func (o Owner) HitsEnemies() bool {
	return o != OwnerEnemy
}

// CanCrit reports whether hits from this owner roll the player's crit chance.
func (o Owner) CanCrit() bool {
	return o == OwnerPlayer || o == OwnerMinion
}

// Kind selects special resolution behavior for a projectile.
type Kind int

const (
	KindStandard Kind = iota
	KindWispShot
	KindMinionShot
	KindFragment
	KindThunderbolt
	KindFrictionSpark
	KindCosmicOrb
	KindEchoBurst
	KindPsychicBurst
	KindBender
	KindTentacle
	KindBeam
	KindPortal
	KindPortalShot
	KindBlackHole
	KindEnemyShot
	KindSharpShot
	KindWaveShot
	KindSlowOrb
	KindPsionicOrb
	KindPsionicBurst
	KindGlitchShot
	KindAreaBurst
	KindChain
	KindFirewall
	KindVortex
)

var kindNames = [...]string{
	"standard", "wisp_shot", "minion_shot", "fragment", "thunderbolt", "friction_spark",
	"cosmic_orb", "echo_burst", "psychic_burst", "bender", "tentacle", "beam", "portal",
	"portal_shot", "black_hole", "enemy_shot", "sharp_shot", "wave_shot", "slow_orb",
	"psionic_orb", "psionic_burst", "glitch_shot", "area_burst", "chain", "firewall", "vortex",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return KindStandard, false
}

// Area reports whether the kind is a stationary area effect that damages
// everything it overlaps for its lifetime.
func (k Kind) Area() bool {
	switch k {
	case KindEchoBurst, KindPsychicBurst, KindPsionicBurst, KindAreaBurst, KindFirewall:
		return true
	}
	return false
}

// Chaos is the random twist applied to a chaotic shot.
type Chaos int

const (
	ChaosNone Chaos = iota
	ChaosErratic
	ChaosPulse
	ChaosColor
	ChaosStatus
)

// Projectile is a moving hitbox.
type Projectile struct {
	ID       int
	Owner    Owner
	Kind     Kind
	Box      core.Rect
	Vel      core.Vec
	Damage   float64
	Piercing int
	SpawnAt  float64
	Duration float64 // ms; zero means until it leaves the world

	Homing  float64 // steering strength toward the nearest target
	Chaos   Chaos
	Bleeds  bool
	Slows   bool // slows the player on hit
	Echoes  bool // leaves an echo burst behind
	Pull    float64
	Radius  float64
	Bursts  int
	Every   float64
	LastAct float64

	struck  map[int]bool
	removed bool
}

// Strike records a hit on enemy id. It returns false when the projectile has
// already struck that enemy, so one projectile damages an enemy at most once.
func (p *Projectile) Strike(id int) bool {
	if p.struck[id] {
		return false
	}
	if p.struck == nil {
		p.struck = make(map[int]bool, 1)
	}
	p.struck[id] = true
	return true
}

// Removed reports whether the projectile has left the world.
func (p *Projectile) Removed() bool {
	return p.removed
}

// Remove marks the projectile for removal at the next commit.
func (p *Projectile) Remove() {
	p.removed = true
}

// Expired reports whether the projectile's lifetime has elapsed at time now.
func (p *Projectile) Expired(now float64) bool {
	return p.Duration > 0 && now-p.SpawnAt >= p.Duration
}

// CollectibleKind distinguishes pickups.
type CollectibleKind int

const (
	CollectHeal CollectibleKind = iota
	CollectSoul
)

// Collectible is a dropped orb. It can only be picked up once landed.
type Collectible struct {
	ID      int
	Kind    CollectibleKind
	Box     core.Rect
	Value   float64
	VelY    float64
	Falling bool
	Potent  bool

	removed bool
}

// Removed reports whether the collectible has been taken.
func (c *Collectible) Removed() bool {
	return c.removed
}

// Take marks the collectible as picked up.
func (c *Collectible) Take() {
	c.removed = true
}

// EffectKind distinguishes visual effects.
type EffectKind int

const (
	EffectThunderTelegraph EffectKind = iota
	EffectSpark
	EffectDeath
	EffectDashTelegraph
	EffectMessage
)

// VisualEffect is a short-lived marker. Telegraphs carry the payload they
// release when they expire.
type VisualEffect struct {
	ID       int
	Kind     EffectKind
	Box      core.Rect
	At       float64
	Duration float64
	Damage   float64
	Text     string
}

// Done reports whether the effect has run its course at time now.
func (v *VisualEffect) Done(now float64) bool {
	return now >= v.At+v.Duration
}

// Platform is a static surface. The ground platform spans the bottom of the world.
type Platform struct {
	Box    core.Rect
	Ground bool
}

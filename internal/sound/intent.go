// Package sound carries audio intents from the simulation to the audio
// collaborator. The simulation raises an intent by stamping its slot with the
// current time; the consumer drains and clears the slots. Nothing waits on
// playback.
package sound

// Kind names one sound intent slot.
type Kind int

const (
	EnemyHit Kind = iota
	EnemyDeath
	PlayerHit
	PlayerShoot
	PlayerJump
	PlayerLand
	PlayerHeal
	Pickup
	BarrierBlock
	BarrierUp
	Thunder
	BossRoar
	SceneCleared
	ChoiceMade
	EffectGained
	ProjectileGone
	numKinds
)

var kindNames = [numKinds]string{
	"enemy_hit", "enemy_death", "player_hit", "player_shoot", "player_jump", "player_land",
	"player_heal", "pickup", "barrier_block", "barrier_up", "thunder", "boss_roar",
	"scene_cleared", "choice_made", "effect_gained", "projectile_gone",
}

// String returns the snake_case name of the intent.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Intent is one raised sound with its payload.
type Intent struct {
	Kind      Kind
	At        float64 // simulation time in ms
	Archetype string  // enemy_hit, enemy_death
	MaxHP     float64 // enemy_death
	Amount    float64 // player_hit damage, pickup value
	Detail    string  // staff id for player_shoot, pickup kind
}

// Board holds at most one pending intent per kind; a later raise overwrites
// an unconsumed earlier one.
type Board struct {
	slots [numKinds]Intent
	set   [numKinds]bool
}

// Raise stamps kind k at time at.
func (b *Board) Raise(k Kind, at float64) {
	b.Put(Intent{Kind: k, At: at})
}

// Put stores a full intent.
func (b *Board) Put(i Intent) {
	if b == nil || i.Kind < 0 || i.Kind >= numKinds {
		return
	}
	b.slots[i.Kind] = i
	b.set[i.Kind] = true
}

// Pending reports whether kind k has an unconsumed intent.
func (b *Board) Pending(k Kind) bool {
	if b == nil || k < 0 || k >= numKinds {
		return false
	}
	return b.set[k]
}

// Drain returns the pending intents in kind order and clears the board.
func (b *Board) Drain() []Intent {
	if b == nil {
		return nil
	}
	var out []Intent
	for k := Kind(0); k < numKinds; k++ {
		if b.set[k] {
			out = append(out, b.slots[k])
			b.set[k] = false
		}
	}
	return out
}

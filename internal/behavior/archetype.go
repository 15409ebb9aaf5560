// Package behavior drives enemies. Every archetype maps to one movement
// variant and one attack variant; bosses add a kit of abilities on their own
// cooldowns. Dispatch is a type switch over the variant.
package behavior

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// Movement is one of the closed set of movement policies.
type Movement interface {
	movement()
}

// Patrol hovers between waypoints, or wanders the upper arena without them.
type Patrol struct {
	Points       []core.Vec `yaml:"points,omitempty"`
	Bob          bool       `yaml:"bob,omitempty"`
	PauseToShoot bool       `yaml:"pause_to_shoot,omitempty"`
}

// Pursue closes in on the player.
type Pursue struct {
	Erratic bool   `yaml:"erratic,omitempty"`
	Wavy    bool   `yaml:"wavy,omitempty"`
	Lurch   bool   `yaml:"lurch,omitempty"`
	Burst   *Burst `yaml:"burst,omitempty"`
	Lunge   *Lunge `yaml:"lunge,omitempty"`
	Phase   *Phase `yaml:"phase,omitempty"`
}

// Burst is a periodic speed spike.
type Burst struct {
	Every    float64 `yaml:"every"`
	Factor   float64 `yaml:"factor"`
	Duration float64 `yaml:"duration"`
}

// Lunge is a short charge when the player is in range.
type Lunge struct {
	Speed    float64 `yaml:"speed"`
	Range    float64 `yaml:"range"`
	Cooldown float64 `yaml:"cooldown"`
}

// Phase makes the enemy intangible for a moment every so often.
type Phase struct {
	Every    float64 `yaml:"every"`
	Duration float64 `yaml:"duration"`
}

// Teleport drifts toward the player and blinks to a nearby point periodically.
type Teleport struct {
	Every float64 `yaml:"every"`
	Range float64 `yaml:"range"`
}

// Dash waits, telegraphs, then charges in a straight line.
type Dash struct {
	Speed    float64 `yaml:"speed"`
	Duration float64 `yaml:"duration"`
	Cooldown float64 `yaml:"cooldown"`
	Prepare  float64 `yaml:"prepare"`
}

// Kite keeps a preferred distance from the player.
type Kite struct {
	Distance float64 `yaml:"distance"`
}

// Flee keeps away from the player and wanders otherwise.
type Flee struct {
	Radius float64 `yaml:"radius"`
}

func (*Patrol) movement()   {}
func (*Pursue) movement()   {}
func (*Teleport) movement() {}
func (*Dash) movement()     {}
func (*Kite) movement()     {}
func (*Flee) movement()     {}

// Attack is one of the closed set of attack patterns.
type Attack interface {
	attack()
}

// NoAttack never fires.
type NoAttack struct{}

// Shot fires aimed projectiles.
type Shot struct {
	Shot       string  `yaml:"shot"`
	SpeedBonus float64 `yaml:"speed_bonus,omitempty"`
	Size       float64 `yaml:"size,omitempty"`
	Count      int     `yaml:"count,omitempty"`
	Arc        float64 `yaml:"arc,omitempty"` // total spread in radians
	Predict    float64 `yaml:"predict,omitempty"`
	Homing     float64 `yaml:"homing,omitempty"`
	Burst      float64 `yaml:"burst,omitempty"` // area radius on impact

	kind world.Kind
}

// Beam charges in place, then fires a fast piercing beam.
type Beam struct {
	Charge     float64 `yaml:"charge"`
	Duration   float64 `yaml:"duration,omitempty"`
	SpeedBonus float64 `yaml:"speed_bonus,omitempty"`
	Thin       bool    `yaml:"thin,omitempty"`
}

func (NoAttack) attack() {}
func (*Shot) attack()    {}
func (*Beam) attack()    {}

// Kind returns the projectile kind the shot fires.
func (s *Shot) Kind() world.Kind { return s.kind }

// AbilityKind names a boss ability.
type AbilityKind string

const (
	AbilityAreaBurst AbilityKind = "area_burst"
	AbilityChain     AbilityKind = "chain"
	AbilityBeamSweep AbilityKind = "beam_sweep"
	AbilitySummon    AbilityKind = "summon"
	AbilityVortex    AbilityKind = "vortex"
	AbilityHeal      AbilityKind = "heal"
	AbilitySlam      AbilityKind = "slam"
	AbilityCharge    AbilityKind = "charge"
	AbilityTeleport  AbilityKind = "teleport"
	AbilityNova      AbilityKind = "nova"
)

// Ability is one entry of a boss kit.
type Ability struct {
	Kind     AbilityKind `yaml:"kind"`
	Cooldown float64     `yaml:"cooldown"`
	Summon   string      `yaml:"summon,omitempty"`
	Count    int         `yaml:"count,omitempty"`
	Amount   float64     `yaml:"amount,omitempty"` // heal amount, slam damage
	Speed    float64     `yaml:"speed,omitempty"`
}

// Enrage is the one-way phase shift below an hp fraction.
type Enrage struct {
	Below  float64 `yaml:"below"`
	Speed  float64 `yaml:"speed"`
	Damage float64 `yaml:"damage"`
}

// BossKit composes abilities with independent cooldowns.
type BossKit struct {
	Kit    []Ability `yaml:"kit"`
	Enrage *Enrage   `yaml:"enrage,omitempty"`
}

// Support buffs allies standing within Radius.
type Support struct {
	Radius float64 `yaml:"radius"`
}

// Spawn releases enemies of another archetype.
type Spawn struct {
	Archetype string  `yaml:"archetype"`
	Count     int     `yaml:"count"`
	Below     float64 `yaml:"below,omitempty"` // hp fraction for splits
}

// Firewall drops a burning strip under the player periodically.
type Firewall struct {
	Every    float64 `yaml:"every"`
	Duration float64 `yaml:"duration"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
}

// Archetype is the static template of an enemy kind.
type Archetype struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Affinity      affinity.Affinity `yaml:"affinity,omitempty"`
	HP            float64           `yaml:"hp"`
	Speed         float64           `yaml:"speed"`
	Width         float64           `yaml:"width"`
	Height        float64           `yaml:"height"`
	Damage        float64           `yaml:"damage"`
	Cooldown      float64           `yaml:"cooldown"`
	ContactDamage float64           `yaml:"contact_damage,omitempty"`
	Lifespan      float64           `yaml:"lifespan,omitempty"`

	Move   MoveSpec   `yaml:"move"`
	Attack AttackSpec `yaml:"attack"`

	Boss     *BossKit  `yaml:"boss,omitempty"`
	Support  *Support  `yaml:"support,omitempty"`
	OnDeath  *Spawn    `yaml:"on_death,omitempty"`
	Split    *Spawn    `yaml:"split,omitempty"`
	Firewall *Firewall `yaml:"firewall,omitempty"`
}

// MoveSpec decodes a movement variant from its kind field.
type MoveSpec struct {
	Movement
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *MoveSpec) UnmarshalYAML(n *yaml.Node) error {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := n.Decode(&head); err != nil {
		return err
	}
	var mv Movement
	switch head.Kind {
	case "patrol":
		mv = &Patrol{}
	case "pursue":
		mv = &Pursue{}
	case "teleport":
		mv = &Teleport{}
	case "dash":
		mv = &Dash{}
	case "kite":
		mv = &Kite{}
	case "flee":
		mv = &Flee{}
	default:
		return fmt.Errorf("unknown movement %q", head.Kind)
	}
	if err := n.Decode(mv); err != nil {
		return err
	}
	m.Movement = mv
	return nil
}

// AttackSpec decodes an attack variant from its kind field.
type AttackSpec struct {
	Attack
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *AttackSpec) UnmarshalYAML(n *yaml.Node) error {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := n.Decode(&head); err != nil {
		return err
	}
	switch head.Kind {
	case "", "none":
		a.Attack = NoAttack{}
		return nil
	case "shot":
		s := &Shot{}
		if err := n.Decode(s); err != nil {
			return err
		}
		k, ok := world.ParseKind(s.Shot)
		if !ok {
			return fmt.Errorf("unknown shot %q", s.Shot)
		}
		s.kind = k
		if s.Count < 1 {
			s.Count = 1
		}
		a.Attack = s
		return nil
	case "beam":
		b := &Beam{}
		if err := n.Decode(b); err != nil {
			return err
		}
		a.Attack = b
		return nil
	}
	return fmt.Errorf("unknown attack %q", head.Kind)
}

func (a *Archetype) validate() error {
	if a.ID == "" {
		return fmt.Errorf("archetype without id")
	}
	if a.HP <= 0 || a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("%s: hp and size must be positive", a.ID)
	}
	if a.Affinity != "" && !a.Affinity.Valid() {
		return fmt.Errorf("%s: unknown affinity %q", a.ID, a.Affinity)
	}
	if a.Move.Movement == nil {
		a.Move.Movement = &Patrol{}
	}
	if a.Attack.Attack == nil {
		a.Attack.Attack = NoAttack{}
	}
	if a.Boss != nil {
		for _, ab := range a.Boss.Kit {
			switch ab.Kind {
			case AbilityAreaBurst, AbilityChain, AbilityBeamSweep, AbilityVortex, AbilityHeal,
				AbilitySlam, AbilityCharge, AbilityTeleport, AbilityNova:
			case AbilitySummon:
				if ab.Summon == "" {
					return fmt.Errorf("%s: summon without archetype", a.ID)
				}
			default:
				return fmt.Errorf("%s: unknown ability %q", a.ID, ab.Kind)
			}
		}
	}
	return nil
}

// References returns the archetype ids this archetype spawns.
func (a *Archetype) References() []string {
	var out []string
	if a.OnDeath != nil {
		out = append(out, a.OnDeath.Archetype)
	}
	if a.Split != nil {
		out = append(out, a.Split.Archetype)
	}
	if a.Boss != nil {
		for _, ab := range a.Boss.Kit {
			if ab.Summon != "" {
				out = append(out, ab.Summon)
			}
		}
	}
	return out
}

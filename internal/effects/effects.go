// Package effects is the registry of named abilities a run can acquire.
// Each entry is data: a list of operations over player attributes plus an
// optional affinity contribution. Applying an entry never reads anything but
// the player record it transforms.
package effects

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// ErrUnknownEffect is returned when an id is not registered.
var ErrUnknownEffect = errors.New("effects: unknown effect")

// Rarity groups effects for presentation.
type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Epic      Rarity = "epic"
	Attribute Rarity = "attribute"
	Ascension Rarity = "ascension"
)

// OpKind is the operation applied to a field.
type OpKind string

const (
	OpAdd      OpKind = "add"      // field += value
	OpMul      OpKind = "mul"      // field = (field or init) * value
	OpSet      OpKind = "set"      // field = value
	OpInit     OpKind = "init"     // field = value when unset
	OpCompound OpKind = "compound" // unset: field = init; otherwise field *= value
	OpEnable   OpKind = "enable"   // flag = true
	OpHealFull OpKind = "heal_full"
	OpAddWisp  OpKind = "add_wisp"
)

// WispSpec describes a companion granted by add_wisp.
type WispSpec struct {
	Kind         string  `yaml:"kind"` // standard or shadow
	Size         float64 `yaml:"size"`
	IntervalMult float64 `yaml:"interval_mult"` // of the player's attack interval
	DamageMult   float64 `yaml:"damage_mult"`
	DamageOf     string  `yaml:"damage_of"` // damage (default) or max_hp
}

// Op is one mutation step.
type Op struct {
	Op    OpKind    `yaml:"op"`
	Field string    `yaml:"field,omitempty"`
	Value float64   `yaml:"value,omitempty"`
	Init  float64   `yaml:"init,omitempty"`
	Floor *float64  `yaml:"floor,omitempty"`
	Cap   *float64  `yaml:"cap,omitempty"`
	Wisp  *WispSpec `yaml:"wisp,omitempty"`
}

// AscensionTag marks an effect granted by an ascension chamber.
type AscensionTag struct {
	Affinity affinity.Affinity `yaml:"affinity"`
	Tier     int               `yaml:"tier"`
}

// Def is one registry entry.
type Def struct {
	ID          string          `yaml:"id"`
	Version     int             `yaml:"version"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Rarity      Rarity          `yaml:"rarity"`
	Affinity    affinity.Deltas `yaml:"affinity,omitempty"`
	Ascension   *AscensionTag   `yaml:"ascension,omitempty"`
	Ops         []Op            `yaml:"ops"`
}

type document struct {
	Effects []Def `yaml:"effects"`
}

// Registry holds effect definitions keyed by id.
type Registry struct {
	defs  map[string]*Def
	order []string
}

// Parse decodes and validates an effects document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("effects: yaml unmarshal: %w", err)
	}
	return New(doc.Effects)
}

// New builds a registry from definitions, validating each one.
func New(defs []Def) (*Registry, error) {
	r := &Registry{defs: make(map[string]*Def, len(defs))}
	for i := range defs {
		d := defs[i]
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.defs[d.ID]; dup {
			return nil, fmt.Errorf("effects: duplicate id %q", d.ID)
		}
		if d.Version == 0 {
			d.Version = 1
		}
		r.defs[d.ID] = &d
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

func (d *Def) validate() error {
	if d.ID == "" {
		return errors.New("effects: entry without id")
	}
	for a, v := range d.Affinity {
		if !a.Valid() {
			return fmt.Errorf("effects: %s: unknown affinity %q", d.ID, a)
		}
		if v < 0 {
			return fmt.Errorf("effects: %s: negative affinity contribution", d.ID)
		}
	}
	if d.Ascension != nil {
		if !d.Ascension.Affinity.Valid() || d.Ascension.Tier < 1 || d.Ascension.Tier > 3 {
			return fmt.Errorf("effects: %s: invalid ascension tag", d.ID)
		}
	}
	for i, op := range d.Ops {
		if err := op.validate(); err != nil {
			return fmt.Errorf("effects: %s: op %d: %w", d.ID, i, err)
		}
	}
	return nil
}

func (op Op) validate() error {
	numeric, counter, flag := knownField(op.Field)
	switch op.Op {
	case OpAdd, OpMul, OpSet, OpInit, OpCompound:
		if !numeric && !counter {
			return fmt.Errorf("unknown numeric field %q", op.Field)
		}
	case OpEnable:
		if !flag {
			return fmt.Errorf("unknown flag %q", op.Field)
		}
	case OpHealFull:
	case OpAddWisp:
		if op.Wisp == nil || (op.Wisp.Kind != "standard" && op.Wisp.Kind != "shadow") {
			return errors.New("add_wisp needs a standard or shadow wisp")
		}
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
	return nil
}

// Get returns the definition for id.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns all ids in document order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ByRarity returns the definitions of one rarity sorted by id.
func (r *Registry) ByRarity(rarity Rarity) []*Def {
	var out []*Def
	for _, id := range r.order {
		if d := r.defs[id]; d.Rarity == rarity {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered effects.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Apply runs the effect's mutation on p, appends its id to the acquired list
// and adds its affinity contribution to scores.
func (r *Registry) Apply(p *world.Player, scores affinity.Map, id string) error {
	d, ok := r.defs[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownEffect, id)
	}
	*p = d.Transform(*p)
	p.Effects = append(p.Effects, d.ID)
	if scores != nil {
		scores.Apply(d.Affinity)
	}
	return nil
}

// Transform returns p with the effect's operations applied. The input value
// is not modified; slices are copied before being extended.
func (d *Def) Transform(p world.Player) world.Player {
	p.Effects = append([]string(nil), p.Effects...)
	p.Wisps = append([]world.Wisp(nil), p.Wisps...)
	p.Minions = append([]world.Minion(nil), p.Minions...)

	bottom := p.Box.Bottom()
	centerX := p.Box.Center().X
	for _, op := range d.Ops {
		op.apply(&p)
	}
	// Size changes keep the player standing where it stood.
	p.Box.Y = bottom - p.Box.H
	p.Box.X = centerX - p.Box.W/2

	if d.Ascension != nil {
		p.AscensionLevel = d.Ascension.Tier
		p.AscensionAffinity = d.Ascension.Affinity
	}
	p.ClampHP()
	return p
}

func (op Op) apply(p *world.Player) {
	switch op.Op {
	case OpEnable:
		*flagField(p, op.Field) = true
		return
	case OpHealFull:
		p.HP = p.MaxHP
		return
	case OpAddWisp:
		p.Wisps = append(p.Wisps, newWisp(p, *op.Wisp))
		return
	}

	if f := floatField(p, op.Field); f != nil {
		*f = op.eval(*f)
		return
	}
	if n := intField(p, op.Field); n != nil {
		*n = int(math.Round(op.eval(float64(*n))))
	}
}

func (op Op) eval(cur float64) float64 {
	v := cur
	switch op.Op {
	case OpAdd:
		v = cur + op.Value
	case OpMul:
		if cur == 0 && op.Init != 0 {
			cur = op.Init
		}
		v = cur * op.Value
	case OpSet:
		v = op.Value
	case OpInit:
		if cur == 0 {
			v = op.Value
		}
	case OpCompound:
		if cur == 0 {
			return op.Init
		}
		v = cur * op.Value
	}
	if op.Floor != nil && v < *op.Floor {
		v = *op.Floor
	}
	if op.Cap != nil && v > *op.Cap {
		v = *op.Cap
	}
	return v
}

func newWisp(p *world.Player, spec WispSpec) world.Wisp {
	kind := world.WispStandard
	if spec.Kind == "shadow" {
		kind = world.WispShadow
	}
	base := p.BaseDamage
	if spec.DamageOf == "max_hp" {
		base = p.MaxHP
	}
	size := spec.Size
	if size <= 0 {
		size = 15
	}
	return world.Wisp{
		Kind:           kind,
		Box:            core.CenteredAt(p.Box.Center(), size, size),
		Angle:          float64(len(p.Wisps)) * math.Pi / 2,
		AttackInterval: p.AttackInterval * spec.IntervalMult,
		Damage:         base * spec.DamageMult,
	}
}

package behavior

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// FallbackID is the archetype used for unknown keys.
const FallbackID = "basic_flyer"

// Bestiary holds the archetype templates.
type Bestiary struct {
	byID  map[string]*Archetype
	order []string
}

// ParseBestiary decodes and validates an archetypes document.
func ParseBestiary(data []byte) (*Bestiary, error) {
	var doc struct {
		Archetypes []Archetype `yaml:"archetypes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("behavior: yaml unmarshal: %w", err)
	}
	return NewBestiary(doc.Archetypes)
}

// NewBestiary builds a bestiary. The fallback archetype must be present and
// every spawn reference must resolve.
func NewBestiary(list []Archetype) (*Bestiary, error) {
	b := &Bestiary{byID: make(map[string]*Archetype, len(list))}
	for i := range list {
		a := list[i]
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("behavior: %w", err)
		}
		if _, dup := b.byID[a.ID]; dup {
			return nil, fmt.Errorf("behavior: duplicate archetype %q", a.ID)
		}
		b.byID[a.ID] = &a
		b.order = append(b.order, a.ID)
	}
	if _, ok := b.byID[FallbackID]; !ok {
		return nil, fmt.Errorf("behavior: fallback archetype %q missing", FallbackID)
	}
	for _, id := range b.order {
		for _, ref := range b.byID[id].References() {
			if _, ok := b.byID[ref]; !ok {
				return nil, fmt.Errorf("behavior: %s spawns unknown archetype %q", id, ref)
			}
		}
	}
	return b, nil
}

// Has reports whether id is a known archetype.
func (b *Bestiary) Has(id string) bool {
	_, ok := b.byID[id]
	return ok
}

// Get returns the archetype for id. Unknown ids resolve to the fallback;
// ok reports whether id itself was found.
func (b *Bestiary) Get(id string) (a *Archetype, ok bool) {
	if a, ok := b.byID[id]; ok {
		return a, true
	}
	return b.byID[FallbackID], false
}

// IDs returns archetype ids sorted.
func (b *Bestiary) IDs() []string {
	out := append([]string(nil), b.order...)
	sort.Strings(out)
	return out
}

// Scaling grows enemy stats with the number of cleared combat scenes. Growth
// has diminishing returns: the raw factor f becomes f/(1+f*Damping).
type Scaling struct {
	Step      float64 `yaml:"step"`
	Damping   float64 `yaml:"damping"`
	HeadStart int     `yaml:"head_start"`
	Fixed     bool    `yaml:"fixed"`
}

// DefaultScaling is the normal difficulty curve.
func DefaultScaling() Scaling {
	return Scaling{Step: 0.10, Damping: 0.5}
}

const (
	bossScale     = 1.25
	speedScale    = 0.35
	damageScale   = 0.12
	cooldownStep  = 20.0
	cooldownFloor = 300.0
)

// Factor returns the effective growth after cleared scenes.
func (s Scaling) Factor(cleared int) float64 {
	if s.Fixed {
		return 0
	}
	f := float64(cleared+s.HeadStart) * s.Step
	if f <= 0 {
		return 0
	}
	return f / (1 + f*s.Damping)
}

// Stats are an archetype's numbers after scaling.
type Stats struct {
	HP       float64
	Speed    float64
	Damage   float64
	Cooldown float64
}

// Scale applies the curve to a. Bosses grow hp and damage faster.
func (s Scaling) Scale(a *Archetype, cleared int, boss bool) Stats {
	f := s.Factor(cleared)
	mult := 1.0
	if boss {
		mult = bossScale
	}
	st := Stats{
		HP:       a.HP * (1 + f*mult),
		Speed:    a.Speed * (1 + f*speedScale),
		Damage:   a.Damage * (1 + f*damageScale*mult),
		Cooldown: a.Cooldown,
	}
	if !s.Fixed && a.Cooldown > cooldownFloor {
		st.Cooldown = math.Max(cooldownFloor, a.Cooldown-float64(cleared+s.HeadStart)*cooldownStep)
	}
	return st
}

// NewEnemy builds an enemy of archetype id at the top of the arena. Unknown
// ids spawn the fallback archetype; ok reports whether id was found.
func (b *Bestiary) NewEnemy(id string, st *world.State, rng *core.SimpleRNG, sc Scaling, cleared int, boss bool) (e *world.Enemy, ok bool) {
	a, ok := b.Get(id)
	boss = boss || a.Boss != nil
	stats := sc.Scale(a, cleared, boss)

	x := rng.Range(0, math.Max(0, st.Width-a.Width))
	y := rng.Float64()*50 + 20
	if boss {
		x = st.Width/2 - a.Width/2
	}
	e = &world.Enemy{
		Archetype:  a.ID,
		Box:        core.NewRect(x, y, a.Width, a.Height),
		HP:         stats.HP,
		MaxHP:      stats.HP,
		Speed:      stats.Speed,
		Damage:     stats.Damage,
		Cooldown:   stats.Cooldown,
		LastAttack: st.Now + rng.Float64()*stats.Cooldown,
		Boss:       boss,
		SpawnedAt:  st.Now,
	}
	e.Brain.Phase = rng.Angle()
	e.Brain.Target = e.Box.Center()
	e.Brain.LastDash = st.Now
	e.Brain.LastTeleport = st.Now
	e.Brain.LastPhase = st.Now
	e.Brain.LastFirewall = st.Now
	if a.Boss != nil {
		e.Brain.BossTimers = make([]float64, len(a.Boss.Kit))
		for i := range e.Brain.BossTimers {
			e.Brain.BossTimers[i] = st.Now
		}
	}
	return e, ok
}

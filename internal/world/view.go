package world

import "github.com/zataralive/seraph-ultimo-login/internal/core"

// Box is a plain rectangle for views.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func boxOf(r core.Rect) Box {
	return Box{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// Rect converts the view box back to a geometry rectangle.
func (b Box) Rect() core.Rect {
	return core.NewRect(b.X, b.Y, b.W, b.H)
}

// PlayerView is the read-only projection of the player.
type PlayerView struct {
	Box          Box     `json:"box"`
	HP           float64 `json:"hp"`
	MaxHP        float64 `json:"maxHp"`
	Facing       float64 `json:"facing"`
	Invulnerable bool    `json:"invulnerable"`
	Ethereal     bool    `json:"ethereal"`
	Shielded     bool    `json:"shielded"`
	Staff        string  `json:"staff"`
	Wisps        []Box   `json:"wisps,omitempty"`
	Minions      []Box   `json:"minions,omitempty"`
}

// EnemyView is the read-only projection of an enemy.
type EnemyView struct {
	Box       Box     `json:"box"`
	Archetype string  `json:"archetype"`
	HP        float64 `json:"hp"`
	MaxHP     float64 `json:"maxHp"`
	Boss      bool    `json:"boss,omitempty"`
	Feared    bool    `json:"feared,omitempty"`
	Confused  bool    `json:"confused,omitempty"`
	Bleeding  bool    `json:"bleeding,omitempty"`
	Buffed    bool    `json:"buffed,omitempty"`
	Charging  bool    `json:"charging,omitempty"`
}

// ProjectileView is the read-only projection of a projectile.
type ProjectileView struct {
	Box   Box    `json:"box"`
	Owner Owner  `json:"owner"`
	Kind  string `json:"kind"`
}

// CollectibleView is the read-only projection of a collectible.
type CollectibleView struct {
	Box  Box             `json:"box"`
	Kind CollectibleKind `json:"kind"`
}

// EffectView is the read-only projection of a visual effect.
type EffectView struct {
	Box  Box        `json:"box"`
	Kind EffectKind `json:"kind"`
	Text string     `json:"text,omitempty"`
}

// View is a value snapshot of the world for the render collaborator and
// spectators. It shares no memory with the State it was taken from.
type View struct {
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	Now          float64           `json:"now"`
	Player       PlayerView        `json:"player"`
	Enemies      []EnemyView       `json:"enemies"`
	Projectiles  []ProjectileView  `json:"projectiles"`
	Collectibles []CollectibleView `json:"collectibles"`
	Effects      []EffectView      `json:"effects"`
	Platforms    []Box             `json:"platforms"`
}

// View captures the current state.
func (s *State) View() View {
	v := View{
		Width:  s.Width,
		Height: s.Height,
		Now:    s.Now,
	}
	if p := s.Player; p != nil {
		v.Player = PlayerView{
			Box:          boxOf(p.Box),
			HP:           p.HP,
			MaxHP:        p.MaxHP,
			Facing:       p.Facing,
			Invulnerable: p.Invulnerable(s.Now),
			Ethereal:     p.Ethereal(s.Now),
			Shielded:     p.Barrier.Enabled && p.Barrier.Ready,
			Staff:        p.Weapon.ID,
		}
		for _, w := range p.Wisps {
			v.Player.Wisps = append(v.Player.Wisps, boxOf(w.Box))
		}
		for _, m := range p.Minions {
			v.Player.Minions = append(v.Player.Minions, boxOf(m.Box))
		}
	}
	for _, e := range s.Enemies {
		if e.Removed() {
			continue
		}
		v.Enemies = append(v.Enemies, EnemyView{
			Box:       boxOf(e.Box),
			Archetype: e.Archetype,
			HP:        e.HP,
			MaxHP:     e.MaxHP,
			Boss:      e.Boss,
			Feared:    e.Feared(s.Now),
			Confused:  e.Confused(s.Now),
			Bleeding:  e.Status.BleedTicks > 0,
			Buffed:    e.Status.Buffed,
			Charging:  e.Brain.Dash != DashIdle,
		})
	}
	for _, p := range s.Projectiles {
		if p.Removed() {
			continue
		}
		v.Projectiles = append(v.Projectiles, ProjectileView{Box: boxOf(p.Box), Owner: p.Owner, Kind: p.Kind.String()})
	}
	for _, c := range s.Collectibles {
		if c.Removed() {
			continue
		}
		v.Collectibles = append(v.Collectibles, CollectibleView{Box: boxOf(c.Box), Kind: c.Kind})
	}
	for _, fx := range s.Effects {
		v.Effects = append(v.Effects, EffectView{Box: boxOf(fx.Box), Kind: fx.Kind, Text: fx.Text})
	}
	for _, pl := range s.Platforms {
		v.Platforms = append(v.Platforms, boxOf(pl.Box))
	}
	return v
}

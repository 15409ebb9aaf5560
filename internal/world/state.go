// Package world is the single source of truth for the entities of the
// current scene. It holds records and invariants only; behavior lives in the
// physics, behavior and combat packages, which mutate the store during their
// phase of the tick.
package world

import "github.com/zataralive/seraph-ultimo-login/internal/core"

// State owns every entity of the running scene.
//
// Entities spawned during a phase are buffered and become visible at the next
// Commit, so no phase iterates over records created by a later phase of the
// same tick. Removal is a flag; Commit drops flagged records.
type State struct {
	Width  float64
	Height float64
	Now    float64 // simulation clock in ms

	Player       *Player
	Enemies      []*Enemy
	Projectiles  []*Projectile
	Collectibles []*Collectible
	Effects      []*VisualEffect
	Platforms    []Platform

	nextID       int
	pendEnemies  []*Enemy
	pendShots    []*Projectile
	pendCollects []*Collectible
	pendEffects  []*VisualEffect
}

// NewState creates an empty world of the given size.
func NewState(width, height float64) *State {
	return &State{Width: width, Height: height}
}

// NextID returns a fresh entity id.
func (s *State) NextID() int {
	s.nextID++
	return s.nextID
}

// SpawnEnemy buffers e for the next commit and assigns its id.
func (s *State) SpawnEnemy(e *Enemy) {
	e.ID = s.NextID()
	s.pendEnemies = append(s.pendEnemies, e)
}

// SpawnProjectile buffers p for the next commit and assigns its id.
func (s *State) SpawnProjectile(p *Projectile) {
	p.ID = s.NextID()
	if p.SpawnAt == 0 {
		p.SpawnAt = s.Now
	}
	s.pendShots = append(s.pendShots, p)
}

// SpawnCollectible buffers c for the next commit and assigns its id.
func (s *State) SpawnCollectible(c *Collectible) {
	c.ID = s.NextID()
	s.pendCollects = append(s.pendCollects, c)
}

// SpawnEffect buffers v for the next commit and assigns its id.
func (s *State) SpawnEffect(v *VisualEffect) {
	v.ID = s.NextID()
	if v.At == 0 {
		v.At = s.Now
	}
	s.pendEffects = append(s.pendEffects, v)
}

// Commit merges buffered spawns and drops removed entities.
func (s *State) Commit() {
	s.Enemies = appendLive(s.Enemies, s.pendEnemies, func(e *Enemy) bool { return !e.Removed() })
	s.Projectiles = appendLive(s.Projectiles, s.pendShots, func(p *Projectile) bool { return !p.Removed() })
	s.Collectibles = appendLive(s.Collectibles, s.pendCollects, func(c *Collectible) bool { return !c.Removed() })
	s.Effects = appendLive(s.Effects, s.pendEffects, func(*VisualEffect) bool { return true })
	s.pendEnemies = s.pendEnemies[:0]
	s.pendShots = s.pendShots[:0]
	s.pendCollects = s.pendCollects[:0]
	s.pendEffects = s.pendEffects[:0]
}

func appendLive[T any](live, pending []*T, keep func(*T) bool) []*T {
	out := live[:0]
	for _, x := range live {
		if keep(x) {
			out = append(out, x)
		}
	}
	for _, x := range pending {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

// LiveEnemies counts enemies that are present and not flagged for removal,
// including ones spawned this tick.
func (s *State) LiveEnemies() int {
	n := 0
	for _, e := range s.Enemies {
		if !e.Removed() {
			n++
		}
	}
	for _, e := range s.pendEnemies {
		if !e.Removed() {
			n++
		}
	}
	return n
}

// ResetScene clears every scene-scoped entity and installs new platforms.
// The player record survives.
func (s *State) ResetScene(platforms []Platform) {
	s.Enemies = nil
	s.Projectiles = nil
	s.Collectibles = nil
	s.Effects = nil
	s.pendEnemies = nil
	s.pendShots = nil
	s.pendCollects = nil
	s.pendEffects = nil
	s.Platforms = platforms
}

// GroundY returns the top of the ground platform, or the world floor.
func (s *State) GroundY() float64 {
	for _, p := range s.Platforms {
		if p.Ground {
			return p.Box.Y
		}
	}
	return s.Height
}

// InBounds reports whether r is inside the world extended by margin.
func (s *State) InBounds(r core.Rect, margin float64) bool {
	return r.Right() > -margin && r.X < s.Width+margin && r.Bottom() > -margin && r.Y < s.Height+margin
}

// NearestEnemy returns the closest live enemy to p within maxDist, or nil.
func (s *State) NearestEnemy(p core.Vec, maxDist float64) *Enemy {
	var best *Enemy
	bestDist := maxDist
	for _, e := range s.Enemies {
		if e.Removed() {
			continue
		}
		if d := core.Dist(p, e.Box.Center()); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

// DefaultPlatforms returns the ground plus three floating ledges.
func DefaultPlatforms(width, height, groundHeight float64) []Platform {
	return []Platform{
		{Box: core.NewRect(0, height-groundHeight, width, groundHeight), Ground: true},
		{Box: core.NewRect(100, height-120, 150, 20)},
		{Box: core.NewRect(400, height-200, 200, 20)},
		{Box: core.NewRect(750, height-150, 150, 20)},
	}
}

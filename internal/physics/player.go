// Package physics integrates motion for one tick: the player's run and jump
// against the scene's platforms, projectile flight with its steering and
// pulls, and falling orbs. Velocities are in pixels per 60 Hz frame and every
// step is scaled by the frame factor of the tick.
package physics

import (
	"math"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// Params holds the tunables of the integrator.
type Params struct {
	Gravity            float64 // player, per frame squared
	CollectibleGravity float64
	ShotSpeed          float64 // player projectile speed, scales pulls and jitter
}

// DefaultParams returns the standard physics tuning.
func DefaultParams() Params {
	return Params{Gravity: 0.6, CollectibleGravity: 0.5, ShotSpeed: 10}
}

const (
	landTolerance    = 1.0
	slowFactor       = 0.5
	unpredictableOdd = 0.03
)

// Step is what happened to the player during one move.
type Step struct {
	Jumped bool
	Landed bool
	Moved  float64 // horizontal distance run
}

// MovePlayer applies input, gravity and platform collision to the player.
// Jumping triggers on the rising edge of the jump action only.
func MovePlayer(st *world.State, in core.InputFrame, prm Params, rng *core.SimpleRNG, dt float64) Step {
	var step Step
	p := st.Player
	if p == nil {
		return step
	}
	dtF := dt * 60
	now := st.Now

	speed := p.Speed
	if p.Absurd.Unpredictable && rng.Chance(unpredictableOdd*dtF) {
		speed *= 0.5 + rng.Float64()
	}
	if p.Slowed(now) {
		speed *= slowFactor
	}

	startX := p.Box.X
	if in.Has(core.ActionLeft) {
		p.Box.X -= speed * dtF
		step.Moved += speed * dtF
		p.Facing = -1
	}
	if in.Has(core.ActionRight) {
		p.Box.X += speed * dtF
		step.Moved += speed * dtF
		p.Facing = 1
	}
	p.Box.X = core.ClampF(p.Box.X, 0, math.Max(0, st.Width-p.Box.W))
	p.VelX = 0
	if dtF > 0 {
		p.VelX = (p.Box.X - startX) / dtF
	}

	jump := in.Has(core.ActionJump)
	if jump && !p.JumpHeld && p.JumpsLeft > 0 {
		p.VelY = -p.JumpForce
		p.JumpsLeft--
		p.Grounded = false
		step.Jumped = true
		if p.Transcendence.Ethereal && p.Transcendence.EtherealDuration > 0 {
			p.Transcendence.EtherealUntil = now + p.Transcendence.EtherealDuration
		}
	}
	p.JumpHeld = jump

	wasGrounded := p.Grounded
	p.VelY += prm.Gravity * dtF
	p.Box, p.VelY, p.Grounded = collide(st, p.Box, p.VelY, dtF)
	if p.Grounded {
		p.JumpsLeft = p.MaxJumps
		step.Landed = !wasGrounded
	}
	return step
}

// collide moves box vertically by vy and resolves it against the platforms.
// A box moving down lands on a platform whose top its bottom edge crosses;
// a box moving up stops under a platform whose underside its top crosses.
func collide(st *world.State, box core.Rect, vy, dtF float64) (core.Rect, float64, bool) {
	next := box.Y + vy*dtF
	landOn, bumpOn := math.Inf(1), math.Inf(-1)
	for _, pl := range st.Platforms {
		if box.Right() <= pl.Box.X || box.X >= pl.Box.Right() {
			continue
		}
		if vy >= 0 {
			top := pl.Box.Y
			if box.Bottom() <= top+landTolerance && next+box.H >= top {
				landOn = math.Min(landOn, top)
			}
			continue
		}
		under := pl.Box.Bottom()
		if box.Y >= under-landTolerance && next <= under {
			bumpOn = math.Max(bumpOn, under)
		}
	}

	switch {
	case !math.IsInf(landOn, 1):
		box.Y = landOn - box.H
		return box, 0, true
	case !math.IsInf(bumpOn, -1):
		box.Y = bumpOn
		return box, 0, false
	}

	box.Y = next
	if floor := st.GroundY(); box.Bottom() >= floor {
		box.Y = floor - box.H
		return box, 0, true
	}
	if box.Y < 0 {
		box.Y = 0
	}
	return box, vy, false
}

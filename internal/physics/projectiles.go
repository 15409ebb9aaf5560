package physics

import (
	"math"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	homingRange  = 400.0
	erraticOdds  = 0.2
	erraticKick  = 0.3
	glitchOdds   = 0.15
	glitchEvery  = 300.0
	holeDeadZone = 10.0
)

// MoveProjectiles steers and moves every live projectile, then applies the
// pulls of benders, vortices and black holes.
func MoveProjectiles(st *world.State, prm Params, rng *core.SimpleRNG, dt float64) {
	dtF := dt * 60
	for _, p := range st.Projectiles {
		if p.Removed() {
			continue
		}
		if p.Homing > 0 {
			home(st, p, dtF)
		}
		switch {
		case p.Kind == world.KindGlitchShot:
			if st.Now-p.LastAct > glitchEvery && rng.Chance(glitchOdds*dtF) {
				a := p.Vel.Angle() + (rng.Float64()-0.5)*math.Pi/3
				p.Vel = core.Polar(a, p.Vel.Len())
				p.LastAct = st.Now
			}
		case p.Chaos == world.ChaosErratic:
			if rng.Chance(erraticOdds * dtF) {
				p.Vel.X += (rng.Float64() - 0.5) * prm.ShotSpeed * erraticKick
				p.Vel.Y += (rng.Float64() - 0.5) * prm.ShotSpeed * erraticKick
			}
		}
		p.Box = p.Box.Moved(p.Vel.X*dtF, p.Vel.Y*dtF)
	}

	for _, p := range st.Projectiles {
		if p.Removed() || p.Radius <= 0 {
			continue
		}
		switch p.Kind {
		case world.KindBender:
			bend(st, p, prm, dtF)
		case world.KindVortex:
			vortex(st, p, prm, dtF)
		case world.KindBlackHole:
			blackHole(st, p, dtF)
		}
	}
}

// home turns p toward its target while keeping its speed. Player shots seek
// the nearest enemy in range; enemy shots seek the player.
func home(st *world.State, p *world.Projectile, dtF float64) {
	c := p.Box.Center()
	var target core.Vec
	if p.Owner.HitsEnemies() {
		e := st.NearestEnemy(c, homingRange)
		if e == nil {
			return
		}
		target = e.Box.Center()
	} else {
		if st.Player == nil {
			return
		}
		target = st.Player.Center()
	}
	speed := p.Vel.Len()
	if speed == 0 {
		return
	}
	want := core.Polar(target.Sub(c).Angle(), speed)
	k := math.Min(1, p.Homing*dtF)
	v := p.Vel.Add(want.Sub(p.Vel).Scale(k))
	if l := v.Len(); l > 0 {
		p.Vel = v.Scale(speed / l)
	}
}

// bend draws every other projectile within the bender's radius toward it.
func bend(st *world.State, b *world.Projectile, prm Params, dtF float64) {
	c := b.Box.Center()
	for _, o := range st.Projectiles {
		if o == b || o.Removed() || o.Kind == world.KindBender {
			continue
		}
		oc := o.Box.Center()
		d := core.Dist(c, oc)
		if d >= b.Radius {
			continue
		}
		f := (1 - d/b.Radius) * b.Pull * prm.ShotSpeed * dtF
		o.Vel = o.Vel.Add(core.Polar(c.Sub(oc).Angle(), f))
	}
}

// vortex drags the player toward its center.
func vortex(st *world.State, v *world.Projectile, prm Params, dtF float64) {
	pl := st.Player
	if pl == nil || pl.Ethereal(st.Now) {
		return
	}
	c, pc := v.Box.Center(), pl.Center()
	d := core.Dist(c, pc)
	if d >= v.Radius || d < holeDeadZone {
		return
	}
	step := core.Polar(c.Sub(pc).Angle(), (1-d/v.Radius)*v.Pull*prm.ShotSpeed*dtF)
	pl.Box = pl.Box.Moved(step.X, step.Y)
	pl.Box.X = core.ClampF(pl.Box.X, 0, math.Max(0, st.Width-pl.Box.W))
}

// blackHole drags nearby enemies toward its core.
func blackHole(st *world.State, h *world.Projectile, dtF float64) {
	c := h.Box.Center()
	for _, e := range st.Enemies {
		if e.Removed() {
			continue
		}
		ec := e.Box.Center()
		d := core.Dist(c, ec)
		if d >= h.Radius || d <= holeDeadZone {
			continue
		}
		step := core.Polar(c.Sub(ec).Angle(), (1-d/h.Radius)*h.Pull*dtF)
		e.Box = e.Box.Moved(step.X, step.Y)
	}
}

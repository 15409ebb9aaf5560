package behavior

import (
	"math"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	pauseAfterShot  = 300.0
	lungeDuration   = 200.0
	kiteSlack       = 40.0
	telegraphBlink  = 130.0
	bossHoverHeight = 80.0
)

func (en *Engine) move(st *world.State, a *Archetype, e *world.Enemy, speed, dtF float64) {
	p := st.Player
	now := st.Now

	switch mv := a.Move.Movement.(type) {
	case *Patrol:
		if mv.PauseToShoot && now >= e.LastAttack && now-e.LastAttack < pauseAfterShot {
			return
		}
		if len(mv.Points) > 0 {
			target := mv.Points[e.Brain.PatrolIndex%len(mv.Points)]
			if core.Dist(e.Box.Center(), target) <= math.Max(speed*dtF, 4) {
				e.Brain.PatrolIndex = (e.Brain.PatrolIndex + 1) % len(mv.Points)
			}
			stepToward(e, target, speed*dtF)
			return
		}
		en.hover(st, e, speed, dtF, mv.Bob)

	case *Pursue:
		en.pursue(st, mv, e, speed, dtF)

	case *Teleport:
		if now-e.Brain.LastTeleport >= mv.Every {
			e.Brain.LastTeleport = now
			st.SpawnEffect(&world.VisualEffect{Kind: world.EffectSpark, Box: e.Box, Duration: telegraphBlink})
			var c core.Vec
			if mv.Range > 0 {
				c = p.Center().Add(core.Vec{
					X: (en.RNG.Float64() - 0.5) * mv.Range,
					Y: (en.RNG.Float64() - 0.5) * mv.Range * 2 / 3,
				})
			} else {
				c = core.Vec{X: en.RNG.Range(0, st.Width), Y: en.RNG.Range(0, st.Height/2)}
			}
			e.Box = core.CenteredAt(c, e.Box.W, e.Box.H)
			return
		}
		en.hover(st, e, speed, dtF, false)

	case *Dash:
		en.dash(st, mv, e, dtF)

	case *Kite:
		c, pc := e.Box.Center(), p.Center()
		d := core.Dist(c, pc)
		ang := pc.Sub(c).Angle()
		switch {
		case d < mv.Distance-kiteSlack:
			step(e, core.Polar(ang+math.Pi, speed*dtF))
		case d > mv.Distance+kiteSlack:
			step(e, core.Polar(ang, speed*dtF))
		default:
			step(e, core.Vec{Y: math.Sin(now/700+e.Brain.Phase) * speed * 0.5 * dtF})
		}

	case *Flee:
		c, pc := e.Box.Center(), p.Center()
		if core.Dist(c, pc) < mv.Radius {
			step(e, core.Polar(c.Sub(pc).Angle(), speed*dtF))
			return
		}
		en.hover(st, e, speed, dtF, true)
	}
}

// hover drifts toward a random x across the arena. Bosses keep to the middle
// band and sway at a fixed height.
func (en *Engine) hover(st *world.State, e *world.Enemy, speed, dtF float64, bob bool) {
	now := st.Now
	if e.Boss {
		if math.Abs(e.Box.X-e.Brain.Target.X) < 15 || en.RNG.Chance(0.02*dtF) {
			e.Brain.Target.X = en.RNG.Range(st.Width*0.2, st.Width*0.8)
		}
		e.Box.X += math.Copysign(math.Min(speed*dtF, math.Abs(e.Brain.Target.X-e.Box.X)), e.Brain.Target.X-e.Box.X)
		e.Box.Y = bossHoverHeight + math.Sin(now/1800+e.Brain.Phase)*40
		return
	}
	if math.Abs(e.Box.X-e.Brain.Target.X) < 5 {
		e.Brain.Target.X = en.RNG.Range(0, math.Max(0, st.Width-e.Box.W))
	}
	e.Box.X += math.Copysign(math.Min(speed*dtF, math.Abs(e.Brain.Target.X-e.Box.X)), e.Brain.Target.X-e.Box.X)
	if bob {
		e.Box.Y += math.Sin(now/500+e.Brain.Phase) * 0.5 * dtF
	} else {
		e.Box.Y += math.Sin(now/1000+e.Brain.Phase) * 0.3 * dtF
	}
}

func (en *Engine) pursue(st *world.State, mv *Pursue, e *world.Enemy, speed, dtF float64) {
	p := st.Player
	now := st.Now
	c, pc := e.Box.Center(), p.Center()
	ang := pc.Sub(c).Angle()

	if mv.Phase != nil && now-e.Brain.LastPhase >= mv.Phase.Every {
		e.Brain.LastPhase = now
		e.Brain.PhasedUntil = now + mv.Phase.Duration
	}
	if mv.Lunge != nil && now-e.Brain.LastLunge > mv.Lunge.Cooldown && core.Dist(c, pc) < mv.Lunge.Range {
		e.Brain.LastLunge = now
		e.Brain.LungeUntil = now + lungeDuration
		e.Brain.LungeVel = core.Polar(ang, mv.Lunge.Speed)
		step(e, e.Brain.LungeVel.Scale(dtF))
		return
	}

	s := speed
	if mv.Burst != nil {
		if now-e.Brain.LastBurst >= mv.Burst.Every {
			e.Brain.LastBurst = now
			e.Brain.BurstUntil = now + mv.Burst.Duration
		}
		if now < e.Brain.BurstUntil {
			s *= mv.Burst.Factor
		}
	}
	if mv.Lurch {
		s *= 0.3 + 0.7*math.Abs(math.Sin(now/400+e.Brain.Phase))
	}

	d := core.Vec{X: math.Cos(ang) * s * dtF, Y: math.Sin(ang) * s * 0.7 * dtF}
	if mv.Erratic {
		d.X += (en.RNG.Float64() - 0.5) * s * dtF
		d.Y += (en.RNG.Float64() - 0.5) * s * dtF
	}
	if mv.Wavy {
		d.Y += math.Sin(now/300+e.Brain.Phase) * 1.2 * dtF
	}
	step(e, d)
}

// dash cycles idle, telegraph and charge. The charge direction is fixed when
// the telegraph ends.
func (en *Engine) dash(st *world.State, mv *Dash, e *world.Enemy, dtF float64) {
	now := st.Now
	switch e.Brain.Dash {
	case world.DashIdle:
		if now-e.Brain.LastDash >= mv.Cooldown {
			e.Brain.Dash = world.DashPreparing
			e.Brain.DashFrom = now
			st.SpawnEffect(&world.VisualEffect{Kind: world.EffectDashTelegraph, Box: e.Box, Duration: mv.Prepare})
			return
		}
		en.hover(st, e, e.Speed, dtF, false)
	case world.DashPreparing:
		if now-e.Brain.DashFrom >= mv.Prepare {
			e.Brain.Dash = world.DashCharging
			e.Brain.DashFrom = now
			e.Brain.DashVelocity = core.Polar(st.Player.Center().Sub(e.Box.Center()).Angle(), mv.Speed+e.Speed)
		}
	case world.DashCharging:
		step(e, e.Brain.DashVelocity.Scale(dtF))
		if now-e.Brain.DashFrom >= mv.Duration {
			e.Brain.Dash = world.DashIdle
			e.Brain.LastDash = now
		}
	}
}

package behavior

import (
	"math"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	homingLifetime = 6000.0
	beamLifetime   = 600.0
	slowOrbSpeed   = 0.6
)

var shotSizes = map[world.Kind]float64{
	world.KindEnemyShot:  10,
	world.KindSharpShot:  8,
	world.KindWaveShot:   12,
	world.KindSlowOrb:    20,
	world.KindPsionicOrb: 14,
	world.KindGlitchShot: 10,
}

func (en *Engine) shotSpeed(e *world.Enemy) float64 {
	s := en.ShotSpeed + float64(en.Cleared)*shotSpeedStep
	if e.Boss {
		s *= bossShotFactor
	}
	return s
}

// aimAt returns the angle from the enemy to the player, leading a moving
// player by predict times the projectile's travel time.
func aimAt(p *world.Player, e *world.Enemy, speed, predict float64) float64 {
	c, t := e.Box.Center(), p.Center()
	if predict > 0 && speed > 0 {
		frames := core.Dist(c, t) / speed
		t.X += p.VelX * frames * predict
	}
	return t.Sub(c).Angle()
}

func (en *Engine) attack(st *world.State, a *Archetype, e *world.Enemy) {
	now := st.Now
	switch at := a.Attack.Attack.(type) {
	case *Shot:
		if now-e.LastAttack <= e.Cooldown {
			return
		}
		e.LastAttack = now
		en.fireShot(st, at, e)

	case *Beam:
		if e.Brain.Charging {
			if now-e.Brain.ChargeFrom >= at.Charge {
				e.Brain.Charging = false
				e.LastAttack = now
				en.fireBeam(st, at, e)
			}
			return
		}
		if now-e.LastAttack > e.Cooldown {
			e.Brain.Charging = true
			e.Brain.ChargeFrom = now
			st.SpawnEffect(&world.VisualEffect{Kind: world.EffectDashTelegraph, Box: e.Box, Duration: at.Charge})
		}
	}
}

func (en *Engine) fireShot(st *world.State, at *Shot, e *world.Enemy) {
	speed := en.shotSpeed(e) + at.SpeedBonus
	if at.Kind() == world.KindSlowOrb {
		speed *= slowOrbSpeed
	}
	if e.Status.Slowed {
		speed *= st.Player.Intellect.AuraSlow
	}
	size := at.Size
	if size <= 0 {
		size = shotSizes[at.Kind()]
		if size == 0 {
			size = 10
		}
	}
	base := aimAt(st.Player, e, speed, at.Predict)
	for _, off := range spread(at.Count, at.Arc) {
		pr := &world.Projectile{
			Owner:  world.OwnerEnemy,
			Kind:   at.Kind(),
			Box:    core.CenteredAt(e.Box.Center(), size, size),
			Vel:    core.Polar(base+off, speed),
			Damage: e.Damage,
			Homing: at.Homing,
			Radius: at.Burst,
			Slows:  at.Kind() == world.KindSlowOrb,
		}
		if at.Homing > 0 {
			pr.Duration = homingLifetime
		}
		if at.Kind() == world.KindGlitchShot {
			pr.Chaos = world.ChaosErratic
		}
		st.SpawnProjectile(pr)
	}
}

func (en *Engine) fireBeam(st *world.State, at *Beam, e *world.Enemy) {
	speed := en.shotSpeed(e) + at.SpeedBonus
	ang := aimAt(st.Player, e, speed, 0)
	h := 10.0
	if at.Thin {
		h = 4
	}
	dur := at.Duration
	if dur <= 0 {
		dur = beamLifetime
	}
	st.SpawnProjectile(&world.Projectile{
		Owner:    world.OwnerEnemy,
		Kind:     world.KindBeam,
		Box:      core.CenteredAt(e.Box.Center(), 40, h),
		Vel:      core.Polar(ang, speed),
		Damage:   e.Damage,
		Duration: dur,
	})
}

func (en *Engine) firewall(st *world.State, fw *Firewall, e *world.Enemy) {
	now := st.Now
	if now-e.Brain.LastFirewall < fw.Every {
		return
	}
	e.Brain.LastFirewall = now
	pc := st.Player.Center()
	st.SpawnProjectile(&world.Projectile{
		Owner:    world.OwnerEnemy,
		Kind:     world.KindFirewall,
		Box:      core.NewRect(pc.X-fw.Width/2, st.GroundY()-fw.Height, fw.Width, fw.Height),
		Damage:   e.Damage * 0.5,
		Duration: fw.Duration,
		Piercing: 999,
	})
}

// spread returns n angle offsets evenly covering arc, centered on zero.
func spread(n int, arc float64) []float64 {
	if n <= 1 {
		return []float64{0}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = -arc/2 + arc*float64(i)/float64(n-1)
	}
	return out
}

// boss handles enrage and the kit's abilities.
func (en *Engine) boss(st *world.State, kit *BossKit, e *world.Enemy) {
	if r := kit.Enrage; r != nil && !e.Brain.Enraged && e.HP < e.MaxHP*r.Below {
		e.Brain.Enraged = true
		e.Speed *= r.Speed
		e.Damage *= r.Damage
		en.Sounds.Raise(sound.BossRoar, st.Now)
		st.SpawnEffect(&world.VisualEffect{Kind: world.EffectMessage, Box: e.Box, Duration: 1200, Text: "ENFURECIDO"})
	}
	for i, ab := range kit.Kit {
		if i >= len(e.Brain.BossTimers) {
			break
		}
		if st.Now-e.Brain.BossTimers[i] < ab.Cooldown {
			continue
		}
		e.Brain.BossTimers[i] = st.Now
		en.use(st, ab, e)
	}
}

func (en *Engine) use(st *world.State, ab Ability, e *world.Enemy) {
	now := st.Now
	c := e.Box.Center()
	speed := en.shotSpeed(e)
	radial := func(kind world.Kind, n int, spd, dmg, dur, size float64) {
		for i := 0; i < n; i++ {
			st.SpawnProjectile(&world.Projectile{
				Owner:    world.OwnerEnemy,
				Kind:     kind,
				Box:      core.CenteredAt(c, size, size),
				Vel:      core.Polar(float64(i)*2*math.Pi/float64(n), spd),
				Damage:   dmg,
				Duration: dur,
			})
		}
	}

	switch ab.Kind {
	case AbilityAreaBurst:
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerEnemy,
			Kind:     world.KindAreaBurst,
			Box:      core.CenteredAt(c, 220, 220),
			Damage:   e.Damage * 0.8,
			Duration: 400,
			Piercing: 999,
		})
	case AbilityChain:
		base := aimAt(st.Player, e, speed+1, 0)
		for _, off := range spread(5, 0.8) {
			st.SpawnProjectile(&world.Projectile{
				Owner:  world.OwnerEnemy,
				Kind:   world.KindChain,
				Box:    core.CenteredAt(c, 10, 10),
				Vel:    core.Polar(base+off, speed+1),
				Damage: e.Damage * 0.7,
			})
		}
	case AbilityBeamSweep:
		radial(world.KindBeam, 8, speed+2, e.Damage*0.6, 900, 16)
	case AbilityNova:
		radial(world.KindSharpShot, 12, speed+1, e.Damage*0.6, 0, 8)
	case AbilitySummon:
		n := ab.Count
		if n < 1 {
			n = 1
		}
		for i := 0; i < n && st.LiveEnemies() < maxEnemies; i++ {
			m := en.Spawn(st, ab.Summon, false)
			m.Box = core.CenteredAt(c.Add(core.Vec{X: en.RNG.Range(-80, 80), Y: en.RNG.Range(-20, 40)}), m.Box.W, m.Box.H)
		}
	case AbilityVortex:
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerEnemy,
			Kind:     world.KindVortex,
			Box:      core.CenteredAt(st.Player.Center(), 60, 60),
			Damage:   e.Damage * 0.3,
			Duration: 2500,
			Pull:     0.08,
			Radius:   220,
			Piercing: 999,
		})
	case AbilityHeal:
		e.HP = math.Min(e.MaxHP, e.HP+ab.Amount)
		st.SpawnEffect(&world.VisualEffect{Kind: world.EffectMessage, Box: e.Box, Duration: 800, Text: "+"})
	case AbilitySlam:
		dmg := ab.Amount
		if dmg <= 0 {
			dmg = e.Damage * 1.4
		}
		ground := st.GroundY()
		for _, dir := range []float64{-1, 1} {
			st.SpawnProjectile(&world.Projectile{
				Owner:    world.OwnerEnemy,
				Kind:     world.KindWaveShot,
				Box:      core.NewRect(c.X-15, ground-20, 30, 20),
				Vel:      core.Vec{X: dir * (speed + 2)},
				Damage:   dmg,
				Duration: 2000,
			})
		}
	case AbilityCharge:
		spd := ab.Speed
		if spd <= 0 {
			spd = 6.5
		}
		e.Brain.LungeVel = core.Polar(st.Player.Center().Sub(c).Angle(), spd)
		e.Brain.LungeUntil = now + 600
		st.SpawnEffect(&world.VisualEffect{Kind: world.EffectDashTelegraph, Box: e.Box, Duration: 300})
	case AbilityTeleport:
		st.SpawnEffect(&world.VisualEffect{Kind: world.EffectSpark, Box: e.Box, Duration: telegraphBlink})
		e.Box.X = en.RNG.Range(0, math.Max(0, st.Width-e.Box.W))
		e.Box.Y = en.RNG.Range(0, st.Height/2)
	}
}

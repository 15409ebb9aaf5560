package sim

import (
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	boltDamage      = 1.5
	boltWarning     = 500.0
	boltSpeed       = 1.3
	boltLifetime    = 1200.0
	boltFirstDelay  = 500.0
	boltResetFactor = 0.8

	sparkDamage   = 0.5
	sparkSpeed    = 0.7
	sparkLifetime = 2000.0

	wispOrbit     = 70.0
	wispSpin      = 0.03
	wispRange     = 250.0
	wispShotSpeed = 0.7
	maxAegisOrbs  = 3
	aegisSize     = 20.0

	minionOrbit     = 80.0
	minionSpin      = 0.02
	minionRange     = 200.0
	minionShotSpeed = 0.6
	minionDamage    = 6.0
	minionCooldown  = 1800.0
	minionSize      = 20.0

	degenGrace = 5000.0
	rageMax    = 0.5
	dupJitter  = 10.0
)

// rage scales damage with missing hp below half health.
func (g *Game) rage() {
	pl := g.st.Player
	pl.Damage = pl.BaseDamage
	if !pl.Vengeance.Rage || pl.MaxHP <= 0 {
		return
	}
	if ratio := pl.HP / pl.MaxHP; ratio < 0.5 {
		pl.Damage = pl.BaseDamage * (1 + (0.5-ratio)*2*rageMax)
	}
}

// aim returns the point the player shoots at: the pointer, else the nearest
// enemy, else straight ahead.
func (g *Game) aim(in core.InputFrame) core.Vec {
	if in.HasPointer {
		return in.Pointer
	}
	pl := g.st.Player
	c := pl.Center()
	if e := g.st.NearestEnemy(c, g.st.Width*2); e != nil {
		return e.Box.Center()
	}
	return c.Add(core.Vec{X: pl.Facing * 100})
}

// shoot fires the staff while the trigger is held and the cadence allows.
func (g *Game) shoot(in core.InputFrame) {
	st := g.st
	pl := st.Player
	now := st.Now
	if !in.ShotRequested && !in.Has(core.ActionShoot) {
		return
	}
	if now-pl.LastShot <= pl.AttackInterval {
		return
	}

	shot := registry.Shot{Player: pl, Aim: g.aim(in), RNG: g.rng, Now: now, Speed: g.cfg.Projectiles.PlayerSpeed}
	volley := g.staff.Fire(shot)
	if g.rng.Chance(pl.Absurd.DuplicateChance) {
		shot.Aim = shot.Aim.Add(core.Vec{X: (g.rng.Float64() - 0.5) * dupJitter, Y: (g.rng.Float64() - 0.5) * dupJitter})
		dup := g.staff.Fire(shot)
		volley.Projectiles = append(volley.Projectiles, dup.Projectiles...)
		g.message("Projétil Duplicado!", 1000)
	}

	for _, p := range volley.Projectiles {
		st.SpawnProjectile(p)
	}
	if volley.Bolts > 0 {
		for i := 0; i < volley.Bolts; i++ {
			x := shot.Aim.X + float64(i)*20 - float64(volley.Bolts-1)*10
			g.bolt(x, pl.Damage*boltDamage)
		}
		g.sounds.Raise(sound.Thunder, now)
	}
	if volley.AegisWisp && pl.CountWisps(world.WispAegis) < maxAegisOrbs {
		n := pl.CountWisps(world.WispAegis)
		pl.Wisps = append(pl.Wisps, world.Wisp{
			Kind:   world.WispAegis,
			Box:    core.CenteredAt(pl.Center(), aegisSize, aegisSize),
			Angle:  float64(n) / maxAegisOrbs * 2 * 3.141592653589793,
			Shield: 1,
		})
		g.sounds.Raise(sound.BarrierUp, now)
	}

	pl.LastShot = now
	pl.Sustain.LastDamageDealt = now
	g.sounds.Put(sound.Intent{Kind: sound.PlayerShoot, At: now, Detail: g.staff.ID()})
}

// bolt drops a thunderbolt from the top of the arena at x.
func (g *Game) bolt(x, damage float64) {
	g.st.SpawnProjectile(&world.Projectile{
		Owner:    world.OwnerPlayer,
		Kind:     world.KindThunderbolt,
		Box:      core.NewRect(x-5, 0, 10, 40),
		Vel:      core.Vec{Y: g.cfg.Projectiles.PlayerSpeed * boltSpeed},
		Damage:   damage,
		Duration: boltLifetime,
	})
}

// thunder telegraphs the periodic bolts. The first activation comes shortly
// after the ability is acquired.
func (g *Game) thunder() {
	st := g.st
	pl := st.Player
	th := &pl.Thunder
	if th.PerActivation <= 0 || th.Cooldown <= 0 {
		return
	}
	now := st.Now
	if !th.Armed {
		th.LastAt = now - th.Cooldown + boltFirstDelay
		th.Armed = true
	}
	if now-th.LastAt <= th.Cooldown {
		return
	}
	y := st.GroundY() - 10
	for i := 0; i < th.PerActivation; i++ {
		x := g.rng.Range(15, st.Width-15)
		st.SpawnEffect(&world.VisualEffect{
			Kind:     world.EffectThunderTelegraph,
			Box:      core.NewRect(x-15, y, 30, 10),
			Duration: boltWarning,
			Damage:   pl.Damage * boltDamage,
		})
	}
	g.sounds.Raise(sound.Thunder, now)
	th.LastAt = now
	if g.rng.Chance(th.ResetChance) {
		th.LastAt = now - th.Cooldown*boltResetFactor
		g.message("Recarga de Raio Resetada!", 1500)
	}
}

// friction launches explosive sparks every time the player has run the
// threshold distance.
func (g *Game) friction(moved float64) {
	st := g.st
	pl := st.Player
	f := &pl.Friction
	if f.Threshold <= 0 || f.Launch <= 0 {
		return
	}
	f.Distance += moved
	if f.Distance < f.Threshold {
		return
	}
	f.Distance = 0
	c := pl.Center()
	for i := 0; i < f.Launch; i++ {
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerNeutral,
			Kind:     world.KindFrictionSpark,
			Box:      core.CenteredAt(core.Vec{X: c.X, Y: pl.Box.Y - 5}, 10, 10),
			Vel:      core.Vec{X: (g.rng.Float64() - 0.5) * 2, Y: -g.cfg.Projectiles.PlayerSpeed * sparkSpeed},
			Damage:   pl.Damage * sparkDamage,
			Duration: sparkLifetime,
		})
		st.SpawnEffect(&world.VisualEffect{Kind: world.EffectSpark, Box: core.CenteredAt(c, 20, 20), Duration: 300})
	}
}

// wisps orbit the player; shooting wisps fire at the nearest enemy in range.
func (g *Game) wisps(dt float64) {
	st := g.st
	pl := st.Player
	dtF := dt * 60
	c := pl.Center()
	for i := range pl.Wisps {
		w := &pl.Wisps[i]
		w.Angle += wispSpin * dtF
		w.Box = core.CenteredAt(c.Add(core.Polar(w.Angle, wispOrbit)), w.Box.W, w.Box.H)
		if w.Kind == world.WispAegis || st.Now-w.LastAttack <= w.AttackInterval {
			continue
		}
		wc := w.Box.Center()
		e := st.NearestEnemy(wc, wispRange)
		if e == nil {
			continue
		}
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerMinion,
			Kind:     world.KindWispShot,
			Box:      core.CenteredAt(wc, 6, 6),
			Vel:      core.Polar(e.Box.Center().Sub(wc).Angle(), g.cfg.Projectiles.PlayerSpeed*wispShotSpeed),
			Damage:   w.Damage,
			Duration: 1500,
		})
		w.LastAttack = st.Now
	}
}

// minions summons carne minions on an interval up to the cap, orbits them
// and lets them shoot.
func (g *Game) minions(dt float64) {
	st := g.st
	pl := st.Player
	now := st.Now
	fl := &pl.Flesh
	dtF := dt * 60
	c := pl.Center()

	if fl.Minions && fl.MinionInterval > 0 && len(pl.Minions) < fl.MinionCap && now-fl.LastMinionAt > fl.MinionInterval {
		w, h := minionSize, minionSize
		if a, ok := g.bundle.Bestiary.Get(fl.MinionKind); ok {
			w, h = a.Width, a.Height
		}
		pl.Minions = append(pl.Minions, world.Minion{
			Kind:     fl.MinionKind,
			Box:      core.CenteredAt(c, w, h),
			Angle:    g.rng.Angle(),
			Damage:   minionDamage,
			Cooldown: minionCooldown,
		})
		fl.LastMinionAt = now
	}

	for i := range pl.Minions {
		m := &pl.Minions[i]
		m.Angle += minionSpin * dtF
		m.Box = core.CenteredAt(c.Add(core.Polar(m.Angle, minionOrbit)), m.Box.W, m.Box.H)
		if now-m.LastAttack <= m.Cooldown {
			continue
		}
		mc := m.Box.Center()
		e := st.NearestEnemy(mc, minionRange)
		if e == nil {
			continue
		}
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerMinion,
			Kind:     world.KindMinionShot,
			Box:      core.CenteredAt(mc, 6, 6),
			Vel:      core.Polar(e.Box.Center().Sub(mc).Angle(), g.cfg.Projectiles.PlayerSpeed*minionShotSpeed),
			Damage:   m.Damage,
			Duration: 1200,
		})
		m.LastAttack = now
	}
}

// sustain applies regeneration, degeneration and regrowth. Rates are per
// second.
func (g *Game) sustain(dt float64) {
	st := g.st
	pl := st.Player
	s := &pl.Sustain
	if s.Regen > 0 {
		pl.Heal(s.Regen * dt)
	}
	if s.Degen && s.DegenRate > 0 && st.Now-s.LastDamageDealt > degenGrace {
		pl.Hurt(s.DegenRate * dt)
	}
	if s.Regrowth > 0 {
		if n := st.LiveEnemies(); n > 0 {
			pl.Heal(s.Regrowth * float64(n) * pl.MaxHP * dt)
		}
	}
}

// barrier recharges a spent barrier shield after its cooldown.
func (g *Game) barrier() {
	pl := g.st.Player
	b := &pl.Barrier
	if !b.Enabled || b.Ready || b.Cooldown <= 0 {
		return
	}
	if g.st.Now-b.LastAt > b.Cooldown {
		b.Ready = true
		g.sounds.Raise(sound.BarrierUp, g.st.Now)
	}
}

// pickups applies collected orbs.
func (g *Game) pickups(got []*world.Collectible) {
	pl := g.st.Player
	now := g.st.Now
	for _, c := range got {
		switch c.Kind {
		case world.CollectHeal:
			v := c.Value
			if c.Potent {
				v *= 1.5
			}
			pl.Heal(v)
			g.sounds.Put(sound.Intent{Kind: sound.PlayerHeal, At: now, Amount: v})
		case world.CollectSoul:
			g.score += int(c.Value)
			g.sounds.Put(sound.Intent{Kind: sound.Pickup, At: now, Amount: c.Value, Detail: "soul"})
		}
	}
}

// expireEffects drops finished visual effects. An expiring thunder telegraph
// releases its bolt.
func (g *Game) expireEffects() {
	st := g.st
	kept := st.Effects[:0]
	for _, fx := range st.Effects {
		if !fx.Done(st.Now) {
			kept = append(kept, fx)
			continue
		}
		if fx.Kind == world.EffectThunderTelegraph {
			g.bolt(fx.Box.Center().X, fx.Damage)
		}
	}
	st.Effects = kept
}

package combat

import (
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	teleportInvuln = 300.0
	slowDuration   = 1500.0
	divineFloor    = 0.3
	convertDrag    = -0.8
)

// enemyShot resolves a hostile projectile against the player side.
func (r *Resolver) enemyShot(st *world.State, p *world.Projectile, rep *Report) {
	pl := st.Player
	now := st.Now

	touchesWard := r.wardAt(pl, p) >= 0
	touchesPlayer := p.Box.Intersects(pl.Box) && !pl.Invulnerable(now) && !pl.Ethereal(now)
	if !touchesWard && !touchesPlayer {
		return
	}

	if convertible(p) && r.RNG.Chance(pl.Intellect.ConversionChance) {
		p.Owner = world.OwnerConverted
		p.Damage *= pl.Intellect.ConversionMult
		p.Vel = p.Vel.Scale(convertDrag)
		r.message(st, "Protocolo Reescrito!", 1000)
		return
	}

	if i := r.wardAt(pl, p); i >= 0 {
		pl.Wisps[i].Shield--
		if pl.Wisps[i].Shield <= 0 {
			pl.Wisps = append(pl.Wisps[:i], pl.Wisps[i+1:]...)
		}
		r.Sounds.Raise(sound.BarrierBlock, now)
		r.spend(p)
		return
	}

	if p.Slows {
		pl.SlowedUntil = now + slowDuration
	}
	r.strike(st, p.Damage, rep)
	r.spend(p)
}

// convertible reports whether a hostile projectile can be turned around.
// Stationary hazards cannot.
func convertible(p *world.Projectile) bool {
	return !p.Kind.Area() && p.Kind != world.KindVortex
}

// spend uses up one hit of an enemy projectile. Lingering hazards such as
// fire walls keep their piercing and stay; the post-hit window stops them
// from hitting every frame.
func (r *Resolver) spend(p *world.Projectile) {
	if p.Piercing > 0 {
		p.Piercing--
		return
	}
	p.Remove()
}

// wardAt returns the index of the aegis orb p overlaps, or -1.
func (r *Resolver) wardAt(pl *world.Player, p *world.Projectile) int {
	for i, w := range pl.Wisps {
		if w.Kind == world.WispAegis && w.Shield > 0 && p.Box.Intersects(w.Box) {
			return i
		}
	}
	return -1
}

// strike resolves a hit of dmg on the player. In priority order: nullify and
// heal, glitch teleport, barrier block, and finally damage reduced by defense.
func (r *Resolver) strike(st *world.State, dmg float64, rep *Report) {
	pl := st.Player
	now := st.Now

	switch {
	case r.RNG.Chance(pl.Hope.NullifyChance):
		pl.Heal(pl.Hope.NullifyHeal)
		r.Sounds.Raise(sound.PlayerHeal, now)
		r.message(st, "Intervenção Divina!", 1500)

	case r.RNG.Chance(pl.Absurd.TeleportOnHit):
		pl.Box.X = r.RNG.Float64() * (st.Width - pl.Box.W)
		pl.Box.Y -= r.RNG.Float64() * 50
		pl.InvulnerableUntil = now + teleportInvuln
		r.message(st, "Glitch na Matrix!", 1500)

	case pl.Barrier.Enabled && pl.Barrier.Ready:
		pl.Barrier.Ready = false
		pl.Barrier.LastAt = now
		pl.InvulnerableUntil = now + pl.InvulnOnHit
		r.Sounds.Raise(sound.BarrierBlock, now)

	default:
		taken := PlayerDamage(dmg, pl.Defense)
		r.hurt(st, taken)
		pl.InvulnerableUntil = now + pl.InvulnOnHit
		rep.DamageTaken += taken
		r.Sounds.Put(sound.Intent{Kind: sound.PlayerHit, At: now, Amount: taken})
	}
}

// hurt removes hp from the player. A ready divine intervention turns a lethal
// hit into survival at a fraction of max hp, once per scene.
func (r *Resolver) hurt(st *world.State, amount float64) {
	pl := st.Player
	if pl.HP-amount <= 0 && pl.Hope.DivineIntervention && pl.Hope.DivineReady {
		pl.Hope.DivineReady = false
		pl.HP = pl.MaxHP * divineFloor
		pl.ClampHP()
		r.message(st, "Intervenção Divina!", 1500)
		return
	}
	pl.Hurt(amount)
}

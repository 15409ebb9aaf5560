package combat

import (
	"github.com/zataralive/seraph-ultimo-login/internal/behavior"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	orbSize          = 16.0
	defaultSoulOrb   = 0.01
	defaultFragments = 2
	recoilInvuln     = 200.0
	splitScatter     = 20.0
)

// kill removes e and grants its rewards. Kill is idempotent on the enemy, so
// an enemy finished by several sources in one tick is rewarded once.
func (r *Resolver) kill(st *world.State, e *world.Enemy, rep *Report) {
	if !e.Kill() {
		return
	}
	now := st.Now
	pl := st.Player

	r.Sounds.Put(sound.Intent{Kind: sound.EnemyDeath, At: now, Archetype: e.Archetype, MaxHP: e.MaxHP})
	if e.Boss {
		r.Sounds.Raise(sound.BossRoar, now)
		rep.BossKills++
	}
	st.SpawnEffect(&world.VisualEffect{Kind: world.EffectDeath, Box: e.Box, Duration: 400})
	rep.Kills++
	rep.Score += r.Scoring.KillScore(r.Cleared, e.Boss)

	r.loot(st, e)

	if pl.Fragmentation.Enabled {
		r.fragments(st, e)
	}
	if r.RNG.Chance(pl.Abyss.BlackHoleChance) {
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerNeutral,
			Kind:     world.KindBlackHole,
			Box:      core.CenteredAt(e.Box.Center(), 30, 30),
			Damage:   pl.Damage * 0.2,
			Duration: 3000,
			Piercing: 999,
			Pull:     0.3,
			Radius:   150,
		})
	}

	a, _ := r.Bestiary.Get(e.Archetype)
	if a.OnDeath != nil {
		r.release(st, e, a.OnDeath.Archetype, a.OnDeath.Count)
	}
	r.split(st, e, a)
}

// loot rolls the independent heal and soul orb drops.
func (r *Resolver) loot(st *world.State, e *world.Enemy) {
	pl := st.Player
	c := e.Box.Center()

	if r.RNG.Chance(pl.Loot.HealChance + pl.Loot.ExtraHealChance) {
		st.SpawnCollectible(&world.Collectible{
			Kind:    world.CollectHeal,
			Box:     core.CenteredAt(c, orbSize, orbSize),
			Value:   float64(15 + r.Cleared),
			VelY:    -2 - r.RNG.Float64()*2,
			Falling: true,
			Potent:  pl.Loot.PotentOrbs,
		})
	}

	chance := pl.Loot.SoulChance
	if chance <= 0 {
		chance = defaultSoulOrb
	}
	if pl.Loot.SoulOrbs && r.RNG.Chance(chance) {
		st.SpawnCollectible(&world.Collectible{
			Kind:    world.CollectSoul,
			Box:     core.CenteredAt(c, orbSize, orbSize),
			Value:   float64(50 + 5*r.Cleared),
			VelY:    -2 - r.RNG.Float64()*2,
			Falling: true,
		})
	}
}

// fragments bursts a dead enemy into neutral shrapnel. A modifier above 1
// also hurts the player.
func (r *Resolver) fragments(st *world.State, e *world.Enemy) {
	pl := st.Player
	count := pl.Fragmentation.Count
	if count <= 0 {
		count = defaultFragments
	}
	mod := pl.Fragmentation.Modifier
	if mod <= 0 {
		mod = 1
	}
	dmg := pl.Damage * fragmentFactor * mod
	speed := r.PlayerShotSpeed * 0.6

	for i := 0; i < round(float64(count)*mod); i++ {
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerNeutral,
			Kind:     world.KindFragment,
			Box:      core.CenteredAt(e.Box.Center(), 8, 8),
			Vel:      core.Vec{X: (r.RNG.Float64() - 0.5) * speed, Y: (r.RNG.Float64() - 0.5) * speed},
			Damage:   dmg,
			Duration: 1000,
		})
	}

	if pl.Fragmentation.Recoil && mod > 1 {
		pl.Hurt(dmg * 0.1 * float64(count))
		pl.InvulnerableUntil = st.Now + recoilInvuln
	}
}

// split releases a dying enemy's children. Children never split again, and
// an enemy splits at most once even if it is killed by several sources.
func (r *Resolver) split(st *world.State, e *world.Enemy, a *behavior.Archetype) {
	if a == nil || a.Split == nil || e.HasSplit || e.HP > e.MaxHP*a.Split.Below {
		return
	}
	e.HasSplit = true
	for _, c := range r.release(st, e, a.Split.Archetype, a.Split.Count) {
		c.HasSplit = true
	}
}

// release spawns n enemies of archetype id around e.
func (r *Resolver) release(st *world.State, e *world.Enemy, id string, n int) []*world.Enemy {
	if r.Spawner == nil || n <= 0 {
		return nil
	}
	out := make([]*world.Enemy, 0, n)
	for i := 0; i < n; i++ {
		c := r.Spawner.Spawn(st, id, false)
		pos := e.Box.Center().Add(core.Vec{
			X: (r.RNG.Float64() - 0.5) * splitScatter,
			Y: (r.RNG.Float64() - 0.5) * splitScatter,
		})
		c.Box = core.CenteredAt(pos, c.Box.W, c.Box.H)
		c.LastAttack = st.Now
		out = append(out, c)
	}
	return out
}

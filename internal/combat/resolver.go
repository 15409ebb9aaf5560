package combat

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/zataralive/seraph-ultimo-login/internal/behavior"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/weapon"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	outMargin       = 50.0
	bleedTickFrames = 6.0
	blackHoleCore   = 30.0
	contactInvuln   = 100.0
)

// Spawner adds enemies to the world. The behavior engine implements it.
type Spawner interface {
	Spawn(st *world.State, id string, boss bool) *world.Enemy
}

// Report sums up what happened during one resolution pass.
type Report struct {
	Score       int
	Hits        int
	Crits       int
	Kills       int
	BossKills   int
	DamageTaken float64
}

// Resolver applies combat for one tick.
type Resolver struct {
	Bestiary *behavior.Bestiary
	Spawner  Spawner
	RNG      *core.SimpleRNG
	Sounds   *sound.Board
	Scoring  Scoring

	// PlayerShotSpeed scales fragment velocity.
	PlayerShotSpeed float64

	// Cleared is the number of combat scenes cleared, for score and loot values.
	Cleared int

	log *log.Logger
}

// NewResolver creates a resolver. A nil logger discards.
func NewResolver(b *behavior.Bestiary, sp Spawner, rng *core.SimpleRNG, sounds *sound.Board, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		Bestiary:        b,
		Spawner:         sp,
		RNG:             rng,
		Sounds:          sounds,
		Scoring:         DefaultScoring(),
		PlayerShotSpeed: 10,
		log:             logger,
	}
}

// Resolve runs the combat phase. dt is in seconds. Projectiles must already
// have moved for this tick; everything spawned here is buffered until the
// next commit.
func (r *Resolver) Resolve(st *world.State, dt float64) Report {
	var rep Report
	if st.Player == nil {
		return rep
	}
	dtF := dt * 60

	for _, p := range st.Projectiles {
		if p.Removed() {
			continue
		}
		if p.Expired(st.Now) || !st.InBounds(p.Box, outMargin) {
			r.followUp(st, p)
			p.Remove()
			r.Sounds.Raise(sound.ProjectileGone, st.Now)
			continue
		}
		r.pulse(st, p)
		if p.Removed() {
			continue
		}
		if p.Owner.HitsEnemies() {
			r.playerShot(st, p, &rep)
		} else {
			r.enemyShot(st, p, &rep)
		}
	}

	r.blackHoles(st, dtF, &rep)
	r.bleed(st, dtF, &rep)
	r.contact(st, dtF, &rep)
	return rep
}

// pulse runs timed projectile behavior: portals release bursts.
func (r *Resolver) pulse(st *world.State, p *world.Projectile) {
	if p.Kind != world.KindPortal || p.Bursts <= 0 || st.Now-p.LastAct <= p.Every {
		return
	}
	for _, s := range weapon.PortalBurst(p, r.RNG, st.Now) {
		st.SpawnProjectile(s)
	}
	p.LastAct = st.Now
	p.Bursts--
	if p.Bursts <= 0 {
		p.Remove()
	}
}

// playerShot resolves a projectile that damages enemies. A projectile with
// no piercing left is removed on its first hit.
func (r *Resolver) playerShot(st *world.State, p *world.Projectile, rep *Report) {
	if p.Kind == world.KindBlackHole {
		return
	}
	for _, e := range st.Enemies {
		if e.Removed() || e.Phased(st.Now) || !p.Box.Intersects(e.Box) {
			continue
		}
		if !p.Strike(e.ID) {
			continue
		}
		r.hit(st, p, e, rep)

		if p.Piercing > 0 {
			p.Piercing--
			continue
		}
		r.followUp(st, p)
		p.Remove()
		r.Sounds.Raise(sound.ProjectileGone, st.Now)
		return
	}
}

// hit applies one projectile hit to an enemy.
func (r *Resolver) hit(st *world.State, p *world.Projectile, e *world.Enemy, rep *Report) {
	pl := st.Player
	now := st.Now

	r.Sounds.Put(sound.Intent{Kind: sound.EnemyHit, At: now, Archetype: e.Archetype})
	pl.Sustain.LastDamageDealt = now

	crit := p.Owner.CanCrit() && r.RNG.Chance(pl.CritChance)
	dmg := Damage(p.Damage, crit, pl.CritMult, e.Status, pl.Abyss.VulnPerStack)
	e.HP -= dmg

	r.procs(st, p, e, crit, dmg)

	rep.Hits++
	if crit {
		rep.Crits++
	}
	rep.Score += r.Scoring.HitScore(r.Cleared, crit)

	if e.HP <= 0 {
		r.kill(st, e, rep)
	}
}

// procs applies the player's on-hit abilities in a fixed order: fear, bleed
// on crit, armor weaken on crit, vulnerability stack, life steal.
func (r *Resolver) procs(st *world.State, p *world.Projectile, e *world.Enemy, crit bool, dmg float64) {
	pl := st.Player
	now := st.Now

	if pl.Vengeance.FearOnHit && r.RNG.Chance(fearChance) {
		e.Status.FearedUntil = now + pl.Vengeance.FearDuration
	}
	if p.Chaos == world.ChaosStatus {
		if r.RNG.Chance(0.5) {
			e.Status.FearedUntil = now + 1000
		} else {
			e.Status.ConfusedUntil = now + 1500
		}
	}
	if crit && pl.Vengeance.CritBleed && p.Bleeds {
		e.Status.BleedRate += p.Damage * weapon.BleedFactor
		e.Status.BleedTicks += weapon.BleedTicks
	}
	if crit && pl.Vengeance.CritArmor {
		e.Status.ArmorWeaken += armorStep
	}
	if pl.Abyss.Vulnerability && pl.Abyss.VulnMaxStacks > 0 {
		e.Status.VulnStacks = core.Clamp(e.Status.VulnStacks+1, 0, pl.Abyss.VulnMaxStacks)
	}
	if pl.Sustain.LifeSteal > 0 && p.Owner.CanCrit() {
		pl.Heal(dmg * pl.Sustain.LifeSteal)
	}
}

// followUp spawns what a projectile leaves behind when it is removed.
func (r *Resolver) followUp(st *world.State, p *world.Projectile) {
	now := st.Now
	switch {
	case p.Echoes:
		st.SpawnProjectile(weapon.EchoBurst(p, now))
	case p.Kind == world.KindFrictionSpark:
		st.SpawnProjectile(weapon.Explosion(p, now))
	case p.Kind == world.KindPsionicOrb && p.Radius > 0:
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerEnemy,
			Kind:     world.KindPsionicBurst,
			Box:      core.CenteredAt(p.Box.Center(), p.Radius*2, p.Radius*2),
			Damage:   p.Damage * 0.6,
			Duration: 300,
			Piercing: 999,
		})
	}

	pl := st.Player
	if p.Owner == world.OwnerPlayer && pl.Transcendence.Psychic && !p.Kind.Area() && p.Kind != world.KindPortal {
		st.SpawnProjectile(&world.Projectile{
			Owner:    world.OwnerPlayer,
			Kind:     world.KindPsychicBurst,
			Box:      core.CenteredAt(p.Box.Center(), 30, 30),
			Damage:   p.Damage * pl.Transcendence.PsychicFactor,
			Duration: 250,
			Piercing: 99,
		})
	}
}

// blackHoles grinds down enemies caught in the core of a black hole.
func (r *Resolver) blackHoles(st *world.State, dtF float64, rep *Report) {
	for _, p := range st.Projectiles {
		if p.Removed() || p.Kind != world.KindBlackHole {
			continue
		}
		c := p.Box.Center()
		for _, e := range st.Enemies {
			if e.Removed() || core.Dist(c, e.Box.Center()) >= blackHoleCore {
				continue
			}
			e.HP -= p.Damage * dtF
			if e.HP <= 0 {
				r.kill(st, e, rep)
			}
		}
	}
}

// bleed applies damage over time. A bleed tick lasts six frames.
func (r *Resolver) bleed(st *world.State, dtF float64, rep *Report) {
	for _, e := range st.Enemies {
		if e.Removed() || e.Status.BleedTicks <= 0 {
			continue
		}
		e.HP -= e.Status.BleedRate * dtF / 3
		e.Status.BleedTicks -= dtF / bleedTickFrames
		if e.Status.BleedTicks <= 0 {
			e.Status.BleedTicks = 0
			e.Status.BleedRate = 0
		}
		if e.HP <= 0 {
			r.kill(st, e, rep)
		}
	}
}

// contact handles bodies touching the player: the player's contact damage
// and enemies that hurt on touch.
func (r *Resolver) contact(st *world.State, dtF float64, rep *Report) {
	pl := st.Player
	now := st.Now
	for _, e := range st.Enemies {
		if e.Removed() || !pl.Box.Intersects(e.Box) {
			continue
		}
		if pl.Flesh.ContactDamage > 0 && !pl.Invulnerable(now) {
			e.HP -= pl.Flesh.ContactDamage * dtF
			pl.InvulnerableUntil = now + contactInvuln
			pl.Sustain.LastDamageDealt = now
			r.Sounds.Put(sound.Intent{Kind: sound.EnemyHit, At: now, Archetype: e.Archetype})
			if e.HP <= 0 {
				r.kill(st, e, rep)
				continue
			}
		}
		a, _ := r.Bestiary.Get(e.Archetype)
		if a.ContactDamage > 0 && !pl.Invulnerable(now) && !pl.Ethereal(now) {
			r.strike(st, a.ContactDamage, rep)
		}
	}
}

func (r *Resolver) message(st *world.State, text string, dur float64) {
	st.SpawnEffect(&world.VisualEffect{
		Kind:     world.EffectMessage,
		Box:      core.CenteredAt(core.Vec{X: st.Width / 2, Y: st.Height / 3}, 0, 0),
		Duration: dur,
		Text:     text,
	})
}

func round(v float64) int {
	return int(math.Round(v))
}

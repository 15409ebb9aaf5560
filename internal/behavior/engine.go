package behavior

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const (
	fearSpeed      = 1.5
	confuseRadius  = 200.0
	maxEnemies     = 12
	shotSpeedStep  = 0.03
	bossShotFactor = 1.2
)

// Engine runs every live enemy for one tick.
type Engine struct {
	Bestiary *Bestiary
	RNG      *core.SimpleRNG
	Sounds   *sound.Board
	Scaling  Scaling

	// ShotSpeed is the base enemy projectile speed per frame.
	ShotSpeed float64

	// Cleared is the number of combat scenes cleared, for summons and shot speed.
	Cleared int

	log *log.Logger
}

// NewEngine creates an engine. A nil logger discards.
func NewEngine(b *Bestiary, rng *core.SimpleRNG, sounds *sound.Board, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		Bestiary:  b,
		RNG:       rng,
		Sounds:    sounds,
		Scaling:   DefaultScaling(),
		ShotSpeed: 3.7,
		log:       logger,
	}
}

// Spawn adds an enemy of archetype id to the world. Unknown ids are logged
// and replaced by the fallback archetype.
func (en *Engine) Spawn(st *world.State, id string, boss bool) *world.Enemy {
	e, ok := en.Bestiary.NewEnemy(id, st, en.RNG, en.Scaling, en.Cleared, boss)
	if !ok {
		en.log.Error("unknown archetype, using fallback", "archetype", id, "fallback", FallbackID)
	}
	st.SpawnEnemy(e)
	return e
}

// Update moves every enemy and fires its attacks. dt is in seconds. Movement
// reads the player as of the start of the phase; projectiles and summons are
// buffered in the world until the next commit.
func (en *Engine) Update(st *world.State, dt float64) {
	p := st.Player
	if p == nil {
		return
	}
	now := st.Now
	dtF := dt * 60

	en.applySupport(st)

	for _, e := range st.Enemies {
		if e.Removed() {
			continue
		}
		a, _ := en.Bestiary.Get(e.Archetype)
		if a.Lifespan > 0 && now-e.SpawnedAt >= a.Lifespan {
			e.Kill()
			continue
		}

		speed := e.Speed
		e.Status.Slowed = false
		if p.Intellect.Aura && core.Dist(p.Center(), e.Box.Center()) < p.Intellect.AuraRadius {
			speed *= p.Intellect.AuraSlow
			e.Status.Slowed = true
		}

		switch {
		case e.Feared(now):
			away := e.Box.Center().Sub(p.Center()).Angle()
			step(e, core.Polar(away, speed*fearSpeed*dtF))
		case e.Confused(now):
			en.wander(st, e, speed, dtF)
		case now < e.Brain.LungeUntil:
			step(e, e.Brain.LungeVel.Scale(dtF))
		default:
			en.move(st, a, e, speed, dtF)
		}

		en.confuse(p, e, now, dt)

		if !e.Feared(now) && !e.Confused(now) {
			en.attack(st, a, e)
			if a.Firewall != nil {
				en.firewall(st, a.Firewall, e)
			}
			if a.Boss != nil {
				en.boss(st, a.Boss, e)
			}
		}
		clampToArena(st, e)
	}
}

// applySupport marks enemies standing near a support unit as buffed.
func (en *Engine) applySupport(st *world.State) {
	for _, e := range st.Enemies {
		e.Status.Buffed = false
	}
	for _, s := range st.Enemies {
		if s.Removed() {
			continue
		}
		a, _ := en.Bestiary.Get(s.Archetype)
		if a.Support == nil {
			continue
		}
		for _, e := range st.Enemies {
			if e == s || e.Removed() {
				continue
			}
			if core.Dist(s.Box.Center(), e.Box.Center()) < a.Support.Radius {
				e.Status.Buffed = true
			}
		}
	}
}

// confuse rolls the player's confusion aura against a nearby enemy.
func (en *Engine) confuse(p *world.Player, e *world.Enemy, now, dt float64) {
	chance := p.Absurd.ConfuseChance
	if chance <= 0 || e.Feared(now) || e.Confused(now) {
		return
	}
	if core.Dist(p.Center(), e.Box.Center()) >= confuseRadius {
		return
	}
	if en.RNG.Chance(chance * dt) {
		e.Status.ConfusedUntil = now + p.Absurd.ConfuseDuration
		e.LastAttack = now + p.Absurd.ConfuseDuration/2
	}
}

// wander moves a confused enemy toward a random ally or jitters in place.
func (en *Engine) wander(st *world.State, e *world.Enemy, speed, dtF float64) {
	var others []*world.Enemy
	for _, o := range st.Enemies {
		if o != e && !o.Removed() {
			others = append(others, o)
		}
	}
	if len(others) > 0 && en.RNG.Chance(0.5*dtF) {
		t := others[en.RNG.Intn(len(others))]
		ang := t.Box.Center().Sub(e.Box.Center()).Angle()
		step(e, core.Polar(ang, speed*0.8*dtF))
		return
	}
	step(e, core.Vec{
		X: (en.RNG.Float64() - 0.5) * speed * 2 * dtF,
		Y: (en.RNG.Float64() - 0.5) * speed * 2 * dtF,
	})
}

func step(e *world.Enemy, d core.Vec) {
	e.Box = e.Box.Moved(d.X, d.Y)
}

func stepToward(e *world.Enemy, target core.Vec, dist float64) {
	c := e.Box.Center()
	if core.Dist(c, target) <= dist {
		e.Box = core.CenteredAt(target, e.Box.W, e.Box.H)
		return
	}
	step(e, core.Polar(target.Sub(c).Angle(), dist))
}

func clampToArena(st *world.State, e *world.Enemy) {
	e.Box.X = core.ClampF(e.Box.X, 0, math.Max(0, st.Width-e.Box.W))
	e.Box.Y = core.ClampF(e.Box.Y, 0, math.Max(0, st.GroundY()-e.Box.H))
}

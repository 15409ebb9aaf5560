// Package sim is the tick orchestrator. A Game owns the world, the enemy
// engine, the combat resolver and the narrative machine, and runs them in a
// fixed order once per frame. Scene loads and story transitions happen
// between ticks, never inside one.
package sim

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/behavior"
	"github.com/zataralive/seraph-ultimo-login/internal/combat"
	"github.com/zataralive/seraph-ultimo-login/internal/config"
	"github.com/zataralive/seraph-ultimo-login/internal/content"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/narrative"
	"github.com/zataralive/seraph-ultimo-login/internal/physics"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/weapon"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// Phase is what the run is waiting on.
type Phase string

const (
	PhaseCombat   Phase = "combat"
	PhaseDecision Phase = "decision"
	PhaseEnding   Phase = "ending"
	PhaseDead     Phase = "dead"
)

// ErrNotDeciding is returned by Choose outside a decision.
var ErrNotDeciding = errors.New("sim: not at a decision")

// Options configure a new Game.
type Options struct {
	Content *content.Bundle
	Config  config.SeraphConfig
	Staff   string
	Seed    int64
	Logger  *log.Logger

	// Sounds receives sound intents. A nil board is created.
	Sounds *sound.Board

	// Unlocked lists the staves the player may pick. The default staff is
	// always allowed; a nil list allows every staff.
	Unlocked []string
}

// Game is one run.
type Game struct {
	opts   Options
	cfg    config.SeraphConfig
	bundle *content.Bundle
	log    *log.Logger

	rng      *core.SimpleRNG
	st       *world.State
	sounds   *sound.Board
	engine   *behavior.Engine
	resolver *combat.Resolver
	machine  *narrative.Machine
	phys     physics.Params
	staff    registry.Staff

	runID      string
	tick       uint64
	score      int
	stats      Stats
	paused     bool
	over       bool
	justLoaded bool
	pending    *Submission
	recorded   bool
}

// Stats are running totals for the HUD and the score screen.
type Stats struct {
	Hits        int     `json:"hits"`
	Crits       int     `json:"crits"`
	Kills       int     `json:"kills"`
	BossKills   int     `json:"bossKills"`
	DamageTaken float64 `json:"damageTaken"`
}

// New creates a game and starts its first run.
func New(opts Options) (*Game, error) {
	if opts.Content == nil {
		b, err := content.Default()
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		opts.Content = b
	}
	if opts.Config == (config.SeraphConfig{}) {
		opts.Config = config.DefaultSeraphConfig()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Sounds == nil {
		opts.Sounds = &sound.Board{}
	}

	g := &Game{
		opts:   opts,
		cfg:    opts.Config,
		bundle: opts.Content,
		log:    opts.Logger,
		sounds: opts.Sounds,
	}
	g.Reset()
	return g, nil
}

// Reset starts a new run with the same options.
func (g *Game) Reset() {
	cfg := g.cfg
	g.rng = core.NewSimpleRNG(g.opts.Seed)
	g.st = world.NewState(cfg.World.Width, cfg.World.Height)
	g.st.ResetScene(g.platforms())

	g.staff = weapon.Get(g.pickStaff(g.opts.Staff))
	g.st.Player = world.NewPlayer(world.PlayerStats{
		Width:           cfg.Player.Width,
		Height:          cfg.Player.Height,
		HP:              cfg.Player.HP,
		Speed:           cfg.Player.Speed,
		JumpForce:       cfg.Player.JumpForce,
		CritChance:      cfg.Player.CritChance,
		CritMult:        cfg.Player.CritMultiplier,
		InvulnOnHit:     cfg.Player.InvulnerabilityMS,
		HealOrbChance:   cfg.Player.HealOrbChance,
		ProjectileScale: cfg.Player.ProjectileScale,
	}, g.staff.Weapon(), cfg.World.Width, g.st.GroundY())

	g.phys = physics.Params{
		Gravity:            cfg.Physics.Gravity,
		CollectibleGravity: cfg.Physics.CollectibleGravity,
		ShotSpeed:          cfg.Projectiles.PlayerSpeed,
	}

	b := g.bundle
	g.engine = behavior.NewEngine(b.Bestiary, g.rng, g.sounds, g.log)
	g.engine.ShotSpeed = cfg.Projectiles.EnemySpeed
	g.engine.Scaling = behavior.Scaling{
		Step:      cfg.Difficulty.Step,
		Damping:   cfg.Difficulty.Damping,
		HeadStart: cfg.Difficulty.HeadStart,
		Fixed:     cfg.Difficulty.Fixed,
	}
	g.resolver = combat.NewResolver(b.Bestiary, g.engine, g.rng, g.sounds, g.log)
	g.resolver.PlayerShotSpeed = cfg.Projectiles.PlayerSpeed
	g.resolver.Scoring = combat.Scoring{
		Hit:       cfg.Scoring.Hit,
		CritBonus: cfg.Scoring.CritBonus,
		Kill:      cfg.Scoring.Kill,
		BossBonus: cfg.Scoring.BossBonus,
	}
	g.machine = narrative.NewMachine(b.Graph, b.Endings, g.log)

	g.runID = uuid.NewString()
	g.tick = 0
	g.score = 0
	g.stats = Stats{}
	g.paused = false
	g.over = false
	g.pending = nil
	g.recorded = false

	g.log.Debug("run started", "run", g.runID, "staff", g.staff.ID(), "seed", g.opts.Seed)
	g.machine.Start()
	g.enter()
}

// pickStaff returns id when it is allowed, otherwise the default staff.
func (g *Game) pickStaff(id string) string {
	if id == "" || id == weapon.DefaultID {
		return weapon.DefaultID
	}
	if !registry.Exists(id) {
		g.log.Warn("unknown staff, using default", "staff", id)
		return weapon.DefaultID
	}
	if g.opts.Unlocked == nil {
		return id
	}
	for _, u := range g.opts.Unlocked {
		if u == id {
			return id
		}
	}
	g.log.Warn("staff is locked, using default", "staff", id)
	return weapon.DefaultID
}

func (g *Game) platforms() []world.Platform {
	w := g.cfg.World
	return world.DefaultPlatforms(w.Width, w.Height, w.GroundHeight)
}

// Step advances the run by dt seconds of input.
func (g *Game) Step(in core.InputFrame, dt float64) core.StepResult {
	if in.Has(core.ActionRestart) && g.over {
		g.Reset()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.over {
		g.paused = !g.paused
	}
	if g.paused || g.over {
		return core.StepResult{State: g.State()}
	}

	if g.machine.State() == narrative.Decision {
		for i, a := range []core.Action{core.ActionChoice1, core.ActionChoice2, core.ActionChoice3, core.ActionChoice4} {
			if in.Has(a) {
				if err := g.Choose(i); err != nil {
					g.log.Debug("choice rejected", "index", i, "err", err)
				}
				break
			}
		}
		return core.StepResult{State: g.State()}
	}

	if g.machine.State() != narrative.Combat {
		return core.StepResult{State: g.State()}
	}

	maxDT := g.cfg.Physics.MaxDeltaMS / 1000
	if dt > maxDT {
		dt = maxDT
	}
	if dt < 0 {
		dt = 0
	}
	g.advance(in, dt)
	return core.StepResult{State: g.State()}
}

// advance runs one tick of the combat scene. Each phase owns its writes;
// spawns become visible at the commit that follows the phase.
func (g *Game) advance(in core.InputFrame, dt float64) {
	st := g.st
	pl := st.Player
	g.tick++
	st.Now += dt * 1000

	// Player movement and abilities.
	step := physics.MovePlayer(st, in, g.phys, g.rng, dt)
	if step.Jumped {
		g.sounds.Raise(sound.PlayerJump, st.Now)
	}
	if step.Landed {
		g.sounds.Raise(sound.PlayerLand, st.Now)
	}
	g.rage()
	g.shoot(in)
	g.thunder()
	g.friction(step.Moved)
	g.wisps(dt)
	g.minions(dt)
	g.sustain(dt)
	g.barrier()

	// Enemies.
	g.engine.Update(st, dt)
	st.Commit()

	// Projectiles and combat.
	physics.MoveProjectiles(st, g.phys, g.rng, dt)
	rep := g.resolver.Resolve(st, dt)
	g.record(rep)
	st.Commit()

	// Collectibles.
	physics.MoveCollectibles(st, g.phys, dt)
	g.pickups(physics.Collect(st))
	st.Commit()

	// Timers.
	g.expireEffects()
	st.Commit()
	pl.ClampHP()

	if pl.HP <= 0 {
		g.die()
		return
	}

	if !g.justLoaded && st.LiveEnemies() == 0 {
		g.sounds.Raise(sound.SceneCleared, st.Now)
		g.machine.SceneCleared()
		g.proceed()
	}
	g.justLoaded = false
}

func (g *Game) record(rep combat.Report) {
	g.score += rep.Score
	g.stats.Hits += rep.Hits
	g.stats.Crits += rep.Crits
	g.stats.Kills += rep.Kills
	g.stats.BossKills += rep.BossKills
	g.stats.DamageTaken += rep.DamageTaken
}

// Choose takes option i at the current decision and loads its target.
func (g *Game) Choose(i int) error {
	if g.over || g.machine.State() != narrative.Decision {
		return ErrNotDeciding
	}
	c, err := g.machine.Choose(i, g.st.Player.Intellect.ExtraChoice, g)
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	g.sounds.Raise(sound.ChoiceMade, g.st.Now)
	if c.Dialogue != "" {
		g.message(c.Dialogue, 2500)
	}
	g.enter()
	return nil
}

// Grant applies an effect to the player. It lets the narrative machine grant
// choice effects without knowing about the world.
func (g *Game) Grant(effectID string, scores affinity.Map) error {
	if err := g.bundle.Effects.Apply(g.st.Player, scores, effectID); err != nil {
		return err
	}
	g.sounds.Put(sound.Intent{Kind: sound.EffectGained, At: g.st.Now, Detail: effectID})
	if d, ok := g.bundle.Effects.Get(effectID); ok {
		g.message(d.Name, 1500)
	}
	return nil
}

// State reports the core view of the run.
func (g *Game) State() core.GameState {
	return core.GameState{Score: g.score, GameOver: g.over, Paused: g.paused}
}

// Phase reports what the run is waiting on.
func (g *Game) Phase() Phase {
	switch {
	case g.over && g.st.Player.HP <= 0:
		return PhaseDead
	case g.over:
		return PhaseEnding
	case g.machine.State() == narrative.Decision:
		return PhaseDecision
	}
	return PhaseCombat
}

// SetPaused stops or resumes the tick.
func (g *Game) SetPaused(p bool) {
	if !g.over {
		g.paused = p
	}
}

// Options returns the choices of the current decision.
func (g *Game) Options() []narrative.Choice {
	return g.machine.Options(g.st.Player.Intellect.ExtraChoice)
}

// Node returns the current narrative node.
func (g *Game) Node() (*narrative.Node, bool) {
	return g.machine.Node()
}

// Ending returns the resolved ending once the run reached one.
func (g *Game) Ending() (narrative.Ending, bool) {
	return g.machine.Ending()
}

// Machine exposes the narrative machine for read-only queries.
func (g *Game) Machine() *narrative.Machine { return g.machine }

// World exposes the world for read-only queries and tests.
func (g *Game) World() *world.State { return g.st }

// Sounds returns the board sound intents are raised on.
func (g *Game) Sounds() *sound.Board { return g.sounds }

// Staff returns the equipped staff.
func (g *Game) Staff() registry.Staff { return g.staff }

// RunID identifies the run.
func (g *Game) RunID() string { return g.runID }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Stats returns the run totals.
func (g *Game) Stats() Stats { return g.stats }

// Tick returns the number of combat ticks simulated.
func (g *Game) Tick() uint64 { return g.tick }

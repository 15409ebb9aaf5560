package sim

import (
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/narrative"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// enter reacts to the node the machine just loaded: the world is reset for
// its scene, combat scenes spawn their enemies and other scenes move on at
// once.
func (g *Game) enter() {
	if g.machine.State() == narrative.Terminal {
		g.finish()
		return
	}
	g.loadScene(g.machine.Scene())
	if g.machine.State() == narrative.Cleared {
		g.proceed()
	}
}

// loadScene replaces every scene entity and spawns the encounter.
func (g *Game) loadScene(scene narrative.Scene) {
	st := g.st
	pl := st.Player
	st.ResetScene(g.platforms())

	pl.Box.X = st.Width/2 - pl.Box.W/2
	pl.Box.Y = st.GroundY() - pl.Box.H
	pl.VelX, pl.VelY = 0, 0
	pl.Grounded = true
	pl.JumpsLeft = pl.MaxJumps
	pl.Hope.DivineReady = pl.Hope.DivineIntervention
	pl.Sustain.LastDamageDealt = st.Now
	pl.Friction.Distance = 0

	cleared := g.machine.ClearedCount()
	g.engine.Cleared = cleared
	g.resolver.Cleared = cleared

	for i := 0; i < scene.Count; i++ {
		g.engine.Spawn(st, scene.EnemyAt(i), scene.Boss)
	}
	st.Commit()
	g.justLoaded = true

	if n, ok := g.machine.Node(); ok {
		g.message(n.Title, 2000)
		st.Commit()
	}
}

// proceed moves a cleared node on to its decision or its ending.
func (g *Game) proceed() {
	if g.machine.Advance() == narrative.Terminal {
		g.finish()
	}
}

// finish closes the run on an ending and queues its submission.
func (g *Game) finish() {
	if g.over {
		return
	}
	g.over = true
	e, _ := g.machine.Ending()
	g.pending = &Submission{
		RunID:  g.runID,
		Score:  g.score,
		Staff:  g.staff.ID(),
		Ending: &e,
		Theme:  g.machine.Theme(),
	}
	g.log.Info("run finished", "run", g.runID, "ending", e.Title, "score", g.score)
}

// die closes the run on the player's death.
func (g *Game) die() {
	if g.over {
		return
	}
	g.over = true
	g.pending = &Submission{
		RunID: g.runID,
		Score: g.score,
		Staff: g.staff.ID(),
		Theme: g.machine.Theme(),
		Node:  g.machine.NodeID(),
	}
	g.log.Info("player died", "run", g.runID, "node", g.machine.NodeID(), "score", g.score)
}

// message shows a floating line of text.
func (g *Game) message(text string, dur float64) {
	g.st.SpawnEffect(&world.VisualEffect{
		Kind:     world.EffectMessage,
		Box:      core.CenteredAt(core.Vec{X: g.st.Width / 2, Y: g.st.Height / 3}, 0, 0),
		Duration: dur,
		Text:     text,
	})
}

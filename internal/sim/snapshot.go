package sim

import (
	"encoding/json"
	"hash/fnv"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// Snapshot is a value copy of the run for renderers, spectators and replay
// checks. It shares no memory with the Game.
type Snapshot struct {
	RunID    string            `json:"runId"`
	Tick     uint64            `json:"tick"`
	Score    int               `json:"score"`
	Phase    Phase             `json:"phase"`
	Paused   bool              `json:"paused,omitempty"`
	Node     string            `json:"node"`
	Title    string            `json:"title"`
	Cleared  int               `json:"cleared"`
	Theme    affinity.Affinity `json:"theme,omitempty"`
	Locked   affinity.Affinity `json:"locked,omitempty"`
	Tier     int               `json:"tier"`
	Ending   string            `json:"ending,omitempty"`
	Stats    Stats             `json:"stats"`
	Affinity affinity.Map      `json:"affinity"`
	RNGState uint64            `json:"rngState"`
	World    world.View        `json:"world"`
}

// Snapshot captures the current run.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		RunID:    g.runID,
		Tick:     g.tick,
		Score:    g.score,
		Phase:    g.Phase(),
		Paused:   g.paused,
		Node:     g.machine.NodeID(),
		Cleared:  g.machine.ClearedCount(),
		Theme:    g.machine.Theme(),
		Locked:   g.machine.Locked(),
		Tier:     g.machine.Tier(),
		Stats:    g.stats,
		Affinity: g.machine.Scores(),
		RNGState: g.rng.State(),
		World:    g.st.View(),
	}
	if n, ok := g.machine.Node(); ok {
		s.Title = n.Title
	}
	if e, ok := g.machine.Ending(); ok {
		s.Ending = e.Title
	}
	return s
}

// Hash fingerprints everything but the run id, so two runs with the same seed
// and inputs hash equal.
func (s Snapshot) Hash() uint64 {
	s.RunID = ""
	data, err := json.Marshal(s)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

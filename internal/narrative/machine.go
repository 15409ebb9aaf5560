package narrative

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
)

var (
	// ErrNoSuchChoice is returned when a choice index is out of range.
	ErrNoSuchChoice = errors.New("narrative: no such choice")

	// ErrNotDeciding is returned when a choice is made outside a decision.
	ErrNotDeciding = errors.New("narrative: not at a decision")
)

// State is the position of the machine within a node.
type State int

const (
	Loading State = iota
	Combat
	Cleared
	Decision
	Terminal
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Combat:
		return "combat"
	case Cleared:
		return "cleared"
	case Decision:
		return "decision"
	case Terminal:
		return "terminal"
	}
	return "unknown"
}

// Granter applies an effect granted by a choice. The effect's own affinity
// contribution goes into scores.
type Granter interface {
	Grant(effectID string, scores affinity.Map) error
}

// Machine walks a run through the graph.
type Machine struct {
	graph   *Graph
	endings *Endings
	log     *log.Logger

	state State
	node  string
	scene Scene

	scores  affinity.Map
	locked  affinity.Affinity
	tier    int
	theme   affinity.Affinity
	history []string

	cleared      map[string]bool
	clearedCount int

	ending *Ending
}

// NewMachine creates a machine over validated content. A nil logger discards.
func NewMachine(g *Graph, e *Endings, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Machine{graph: g, endings: e, log: logger}
}

// Start resets the run and loads the root node.
func (m *Machine) Start() State {
	m.scores = affinity.NewMap()
	m.locked = ""
	m.tier = 0
	m.theme = ""
	m.history = nil
	m.cleared = make(map[string]bool)
	m.clearedCount = 0
	m.ending = nil
	return m.Load(m.graph.Root)
}

// Load enters node id. Combat scenes wait for SceneCleared; other scenes are
// cleared at once. Unknown nodes and missing scenes end the run.
func (m *Machine) Load(id string) State {
	m.node = id
	m.scene = Scene{}
	m.state = Loading

	if _, ok := m.graph.Node(id); !ok {
		m.log.Error("unknown narrative node", "node", id)
		return m.finish(InternalFailure(id))
	}
	scene, ok := m.graph.Scene(id)
	if !ok {
		m.log.Error("missing scene", "node", id, "scene", id)
		return m.finish(SystemFailure(id))
	}
	m.scene = scene
	m.log.Debug("scene loaded", "node", id, "enemies", scene.Count, "boss", scene.Boss)

	if scene.Combat() {
		m.state = Combat
	} else {
		m.state = Cleared
	}
	return m.state
}

// SceneCleared records that the live enemy list emptied. A node id counts
// toward the cleared total only the first time.
func (m *Machine) SceneCleared() State {
	if m.state != Combat {
		return m.state
	}
	if !m.cleared[m.node] {
		m.cleared[m.node] = true
		m.clearedCount++
	}
	m.state = Cleared
	return m.state
}

// Advance leaves a cleared node for its decision or its ending.
func (m *Machine) Advance() State {
	if m.state != Cleared {
		return m.state
	}
	n, ok := m.graph.Node(m.node)
	switch {
	case !ok:
		m.log.Error("unknown narrative node", "node", m.node)
		return m.finish(InternalFailure(m.node))
	case n.Terminal:
		return m.finish(m.endings.Resolve(n, m.locked, m.tier))
	case len(n.Choices) > 0:
		m.state = Decision
		return m.state
	default:
		m.log.Error("dead end", "node", m.node)
		return m.finish(DeadEnd(m.node))
	}
}

// Options returns the choices offered at the current decision. With extra set,
// attribute nodes offer one more attribute effect from the pool.
func (m *Machine) Options(extra bool) []Choice {
	if m.state != Decision {
		return nil
	}
	n, ok := m.graph.Node(m.node)
	if !ok {
		return nil
	}
	out := append([]Choice(nil), n.Choices...)
	if extra && n.Kind == KindAttribute && len(out) > 0 {
		offered := make(map[string]bool, len(out))
		for _, c := range out {
			offered[c.Effect] = true
		}
		for _, id := range m.graph.AttributePool {
			if !offered[id] {
				out = append(out, Choice{
					ID:     n.ID + "_EXTRA",
					Text:   "Calibração Adicional.",
					Target: out[0].Target,
					Effect: id,
				})
				break
			}
		}
	}
	return out
}

// Choose applies option i: affinity deltas, the granted effect, path lock and
// ascension tier. Then it loads the target node.
func (m *Machine) Choose(i int, extra bool, g Granter) (Choice, error) {
	if m.state != Decision {
		return Choice{}, ErrNotDeciding
	}
	opts := m.Options(extra)
	if i < 0 || i >= len(opts) {
		return Choice{}, fmt.Errorf("%w: %d of %d", ErrNoSuchChoice, i, len(opts))
	}
	c := opts[i]

	m.scores.Apply(c.Affinity)
	if c.Effect != "" && g != nil {
		if err := g.Grant(c.Effect, m.scores); err != nil {
			m.log.Error("choice grants unusable effect", "node", m.node, "choice", c.ID, "effect", c.Effect, "err", err)
		}
	}

	if c.LocksPath != "" && m.locked == "" {
		m.locked = c.LocksPath
		m.theme = c.LocksPath
	}
	if c.Ascends() {
		m.tier = c.Tier
		if c.LocksPath != "" {
			m.theme = c.LocksPath
		}
	}
	if m.locked == "" {
		if a, score := m.scores.Dominant(); score >= affinity.ThemeThreshold {
			m.theme = a
		}
	}

	m.history = append(m.history, c.ID)
	m.log.Debug("choice made", "node", m.node, "choice", c.ID, "target", c.Target)
	m.Load(c.Target)
	return c, nil
}

func (m *Machine) finish(e Ending) State {
	m.state = Terminal
	m.ending = &e
	m.log.Debug("run ended", "node", m.node, "ending", e.Title)
	return m.state
}

// State returns the current machine state.
func (m *Machine) State() State { return m.state }

// NodeID returns the current node id.
func (m *Machine) NodeID() string { return m.node }

// Node returns the current node, if it exists.
func (m *Machine) Node() (*Node, bool) { return m.graph.Node(m.node) }

// Scene returns the scene loaded with the current node.
func (m *Machine) Scene() Scene { return m.scene }

// Scores returns a copy of the affinity map.
func (m *Machine) Scores() affinity.Map { return m.scores.Clone() }

// Locked returns the locked path, or "" before any lock.
func (m *Machine) Locked() affinity.Affinity { return m.locked }

// Tier returns the ascension tier reached, 0 before any ascension.
func (m *Machine) Tier() int { return m.tier }

// Theme returns the affinity coloring the run, or "" while neutral.
func (m *Machine) Theme() affinity.Affinity { return m.theme }

// ClearedCount returns the number of distinct combat nodes cleared.
func (m *Machine) ClearedCount() int { return m.clearedCount }

// History returns the ids of the choices made so far.
func (m *Machine) History() []string { return append([]string(nil), m.history...) }

// Ending returns the resolved ending once the machine is terminal.
func (m *Machine) Ending() (Ending, bool) {
	if m.ending == nil {
		return Ending{}, false
	}
	return *m.ending, true
}

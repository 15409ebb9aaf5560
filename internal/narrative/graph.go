// Package narrative implements the branching story graph and the state
// machine that moves a run through it. Nodes carry their affinity and ending
// variant explicitly; nothing is inferred from node ids.
package narrative

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
)

// RootID is the node every run starts from.
const RootID = "ROOT"

// Kind classifies a node for presentation and validation.
type Kind string

const (
	KindDecision  Kind = "decision"
	KindAttribute Kind = "attribute"
	KindHub       Kind = "hub"
	KindAscension Kind = "ascension"
	KindFinal     Kind = "final"
)

// Variant selects one of an affinity's three endings.
type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
	VariantC Variant = "C"
)

// Index returns 0, 1 or 2 for A, B and C, and -1 otherwise.
func (v Variant) Index() int {
	switch v {
	case VariantA:
		return 0
	case VariantB:
		return 1
	case VariantC:
		return 2
	}
	return -1
}

// Choice is one option offered at a decision.
type Choice struct {
	ID          string          `yaml:"id"`
	Text        string          `yaml:"text"`
	Description string          `yaml:"description,omitempty"`
	Target      string          `yaml:"target"`
	Affinity    affinity.Deltas `yaml:"affinity,omitempty"`
	Effect      string          `yaml:"effect,omitempty"`

	// LocksPath fixes the run to an affinity. Only the first lock sticks.
	LocksPath affinity.Affinity `yaml:"locks_path,omitempty"`

	// Tier is the ascension tier an ascension choice grants.
	Tier int `yaml:"tier,omitempty"`

	Dialogue string `yaml:"dialogue,omitempty"`
}

// Ascends reports whether the choice is an ascension choice.
func (c Choice) Ascends() bool {
	return c.Tier > 0
}

// Node is one point of the story.
type Node struct {
	ID       string            `yaml:"id"`
	Title    string            `yaml:"title"`
	Kind     Kind              `yaml:"kind"`
	Speaker  string            `yaml:"speaker,omitempty"`
	Preamble []string          `yaml:"preamble,omitempty"`
	Affinity affinity.Affinity `yaml:"affinity,omitempty"`
	Variant  Variant           `yaml:"variant,omitempty"`
	Terminal bool              `yaml:"terminal,omitempty"`
	Choices  []Choice          `yaml:"choices,omitempty"`
}

// Scene describes the encounter loaded with a node.
type Scene struct {
	Enemies []string `yaml:"enemies,omitempty"`
	Count   int      `yaml:"count"`
	Boss    bool     `yaml:"boss,omitempty"`
}

// Combat reports whether loading the scene spawns enemies.
func (s Scene) Combat() bool {
	return s.Count > 0
}

// EnemyAt returns the archetype of the i-th spawn, cycling through the list.
func (s Scene) EnemyAt(i int) string {
	if len(s.Enemies) == 0 {
		return ""
	}
	return s.Enemies[i%len(s.Enemies)]
}

// Graph is the validated, read-only story content.
type Graph struct {
	Root   string
	Nodes  map[string]*Node
	Scenes map[string]Scene

	// AttributePool lists the small attribute effects offered as an extra
	// option at attribute nodes.
	AttributePool []string

	order []string
}

type graphDocument struct {
	Root          string           `yaml:"root"`
	AttributePool []string         `yaml:"attribute_pool"`
	Nodes         []Node           `yaml:"nodes"`
	Scenes        map[string]Scene `yaml:"scenes"`
}

// Parse decodes a graph document. Structural problems are reported by Validate.
func Parse(data []byte) (*Graph, error) {
	var doc graphDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("narrative: yaml unmarshal: %w", err)
	}
	return New(doc.Root, doc.Nodes, doc.Scenes, doc.AttributePool)
}

// New builds a graph from nodes. Duplicate ids are rejected.
func New(root string, nodes []Node, scenes map[string]Scene, attributePool []string) (*Graph, error) {
	if root == "" {
		root = RootID
	}
	g := &Graph{
		Root:          root,
		Nodes:         make(map[string]*Node, len(nodes)),
		Scenes:        scenes,
		AttributePool: attributePool,
	}
	if g.Scenes == nil {
		g.Scenes = map[string]Scene{}
	}
	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("narrative: node %d has no id", i)
		}
		if _, dup := g.Nodes[n.ID]; dup {
			return nil, fmt.Errorf("narrative: duplicate node %q", n.ID)
		}
		g.Nodes[n.ID] = &n
		g.order = append(g.order, n.ID)
	}
	return g, nil
}

// Node returns the node with id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// Scene returns the scene for a node id.
func (g *Graph) Scene(id string) (Scene, bool) {
	s, ok := g.Scenes[id]
	return s, ok
}

// IDs returns node ids in document order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Finals returns the terminal nodes of one affinity ordered by variant.
func (g *Graph) Finals(a affinity.Affinity) []*Node {
	out := make([]*Node, 3)
	n := 0
	for _, id := range g.order {
		node := g.Nodes[id]
		if node.Terminal && node.Affinity == a {
			if i := node.Variant.Index(); i >= 0 && out[i] == nil {
				out[i] = node
				n++
			}
		}
	}
	if n == 0 {
		return nil
	}
	return out
}

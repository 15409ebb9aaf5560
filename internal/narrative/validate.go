package narrative

import (
	"fmt"
	"sort"
)

// ValidationError contains details about a content defect.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Checks resolves references into other content tables. Nil funcs skip the check.
type Checks struct {
	EffectExists    func(id string) bool
	ArchetypeExists func(id string) bool
}

// Validate reports every defect of the graph instead of stopping at the first.
// Checks:
//   - root exists, every choice target exists
//   - non-terminal nodes have choices, terminal nodes have none
//   - finals carry an affinity and a variant
//   - every reachable node has a scene
//   - every node is reachable and every reachable node reaches a terminal
//   - no cycles, so every run ends within a bounded number of choices
func Validate(g *Graph, c Checks) []ValidationError {
	var errs []ValidationError
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if _, ok := g.Nodes[g.Root]; !ok {
		add("MISSING_ROOT", "root node %s not found", g.Root)
		return errs
	}

	for _, id := range g.order {
		n := g.Nodes[id]
		switch {
		case n.Terminal && len(n.Choices) > 0:
			add("TERMINAL_WITH_CHOICES", "terminal node %s offers %d choices", id, len(n.Choices))
		case !n.Terminal && len(n.Choices) == 0:
			add("DEAD_END", "node %s is not terminal and has no choices", id)
		}
		if n.Terminal && (!n.Affinity.Valid() || n.Variant.Index() < 0) {
			add("BAD_FINAL", "terminal node %s needs an affinity and a variant A/B/C", id)
		}
		if n.Affinity != "" && !n.Affinity.Valid() {
			add("BAD_AFFINITY", "node %s has unknown affinity %q", id, n.Affinity)
		}
		for _, ch := range n.Choices {
			errs = append(errs, validateChoice(g, n, ch, c)...)
		}
	}

	reach := g.reachable()
	for _, id := range g.order {
		if !reach[id] {
			add("UNREACHABLE", "node %s cannot be reached from %s", id, g.Root)
			continue
		}
		s, ok := g.Scenes[id]
		if !ok {
			add("MISSING_SCENE", "node %s has no scene", id)
			continue
		}
		if s.Count > 0 && len(s.Enemies) == 0 {
			add("EMPTY_SCENE", "scene %s spawns %d enemies but lists no archetype", id, s.Count)
		}
		if c.ArchetypeExists != nil {
			for _, a := range s.Enemies {
				if !c.ArchetypeExists(a) {
					add("UNKNOWN_ARCHETYPE", "scene %s uses unknown archetype %s", id, a)
				}
			}
		}
	}

	exits := g.reachesTerminal()
	for _, id := range g.order {
		if reach[id] && !exits[id] {
			add("NO_EXIT", "node %s never reaches a terminal node", id)
		}
	}

	if cycle := g.findCycle(); cycle != "" {
		add("CYCLE", "choices loop back through node %s", cycle)
	}

	return errs
}

func validateChoice(g *Graph, n *Node, ch Choice, c Checks) []ValidationError {
	var errs []ValidationError
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if _, ok := g.Nodes[ch.Target]; !ok {
		add("DANGLING_TARGET", "choice %s of %s leads to unknown node %s", ch.ID, n.ID, ch.Target)
	}
	for a, v := range ch.Affinity {
		if !a.Valid() {
			add("BAD_AFFINITY", "choice %s of %s has unknown affinity %q", ch.ID, n.ID, a)
		}
		if v < 0 {
			add("NEGATIVE_DELTA", "choice %s of %s lowers %s", ch.ID, n.ID, a)
		}
	}
	if ch.LocksPath != "" && !ch.LocksPath.Valid() {
		add("BAD_AFFINITY", "choice %s of %s locks unknown path %q", ch.ID, n.ID, ch.LocksPath)
	}
	if ch.Tier < 0 || ch.Tier > 3 {
		add("BAD_TIER", "choice %s of %s grants tier %d", ch.ID, n.ID, ch.Tier)
	}
	if ch.Effect != "" && c.EffectExists != nil && !c.EffectExists(ch.Effect) {
		add("UNKNOWN_EFFECT", "choice %s of %s grants unknown effect %s", ch.ID, n.ID, ch.Effect)
	}
	return errs
}

// reachable returns the ids reachable from the root.
func (g *Graph) reachable() map[string]bool {
	seen := map[string]bool{g.Root: true}
	queue := []string{g.Root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, ok := g.Nodes[id]
		if !ok {
			continue
		}
		for _, ch := range n.Choices {
			if !seen[ch.Target] {
				seen[ch.Target] = true
				queue = append(queue, ch.Target)
			}
		}
	}
	return seen
}

// reachesTerminal returns the ids from which some terminal node is reachable.
func (g *Graph) reachesTerminal() map[string]bool {
	parents := make(map[string][]string)
	var queue []string
	ok := make(map[string]bool)
	for _, id := range g.order {
		n := g.Nodes[id]
		if n.Terminal {
			ok[id] = true
			queue = append(queue, id)
		}
		for _, ch := range n.Choices {
			parents[ch.Target] = append(parents[ch.Target], id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, p := range parents[id] {
			if !ok[p] {
				ok[p] = true
				queue = append(queue, p)
			}
		}
	}
	return ok
}

// findCycle returns a node on a cycle, or "" when the graph is acyclic.
func (g *Graph) findCycle() string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(g.Nodes))
	var visit func(id string) string
	visit = func(id string) string {
		color[id] = grey
		if n, ok := g.Nodes[id]; ok {
			for _, ch := range n.Choices {
				switch color[ch.Target] {
				case grey:
					return ch.Target
				case white:
					if _, exists := g.Nodes[ch.Target]; exists {
						if c := visit(ch.Target); c != "" {
							return c
						}
					}
				}
			}
		}
		color[id] = black
		return ""
	}

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if color[id] == white {
			if c := visit(id); c != "" {
				return c
			}
		}
	}
	return ""
}

// Depth returns the longest number of choices from the root to a terminal
// node. ok is false when the graph has a cycle.
func (g *Graph) Depth() (depth int, ok bool) {
	if g.findCycle() != "" {
		return 0, false
	}
	memo := make(map[string]int)
	var longest func(id string) int
	longest = func(id string) int {
		if d, seen := memo[id]; seen {
			return d
		}
		best := 0
		if n, exists := g.Nodes[id]; exists {
			for _, ch := range n.Choices {
				if d := longest(ch.Target) + 1; d > best {
					best = d
				}
			}
		}
		memo[id] = best
		return best
	}
	return longest(g.Root), true
}

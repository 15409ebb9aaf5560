package narrative

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
)

// Titles of the fallback endings.
const (
	TitleSystemFailure   = "Falha Catastrófica do Sistema"
	TitleInternalFailure = "Falha Interna do Sistema"
	TitleDeadEnd         = "Loop Infinito Detectado"
	TitleIncomplete      = "Ciclo do Sistema Incompleto"
)

// Ending is a resolved run outcome.
type Ending struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Affinity    affinity.Affinity `json:"affinity,omitempty"`
	Variant     Variant           `json:"variant,omitempty"`
	Unlocks     string            `json:"unlocks,omitempty"`

	// Incomplete endings are shown but never recorded as achieved.
	Incomplete bool `json:"incomplete,omitempty"`
}

// EndingDef is the authored text of one ending.
type EndingDef struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Unlocks     string `yaml:"unlocks,omitempty"`
}

// Path is the ending table of one affinity.
type Path struct {
	Affinity affinity.Affinity `yaml:"affinity"`
	Display  string            `yaml:"display"`
	Boss     string            `yaml:"boss"`
	Endings  []EndingDef       `yaml:"endings"`
}

// Endings holds every affinity's endings.
type Endings struct {
	paths map[affinity.Affinity]*Path
}

// ParseEndings decodes and checks an endings document.
func ParseEndings(data []byte) (*Endings, error) {
	var doc struct {
		Paths []Path `yaml:"paths"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("narrative: yaml unmarshal: %w", err)
	}
	e := &Endings{paths: make(map[affinity.Affinity]*Path, len(doc.Paths))}
	for i := range doc.Paths {
		p := doc.Paths[i]
		if !p.Affinity.Valid() {
			return nil, fmt.Errorf("narrative: endings: unknown affinity %q", p.Affinity)
		}
		if len(p.Endings) != 3 {
			return nil, fmt.Errorf("narrative: endings: %s has %d endings, want 3", p.Affinity, len(p.Endings))
		}
		if _, dup := e.paths[p.Affinity]; dup {
			return nil, fmt.Errorf("narrative: endings: duplicate path %s", p.Affinity)
		}
		e.paths[p.Affinity] = &p
	}
	return e, nil
}

// Path returns the ending table of a.
func (e *Endings) Path(a affinity.Affinity) (*Path, bool) {
	if e == nil {
		return nil, false
	}
	p, ok := e.paths[a]
	return p, ok
}

// All returns every authored ending in canonical affinity order.
func (e *Endings) All() []Ending {
	var out []Ending
	for _, a := range affinity.All {
		p, ok := e.Path(a)
		if !ok {
			continue
		}
		for i, d := range p.Endings {
			out = append(out, Ending{
				Title:       d.Title,
				Description: d.Description,
				Affinity:    a,
				Variant:     []Variant{VariantA, VariantB, VariantC}[i],
				Unlocks:     d.Unlocks,
			})
		}
	}
	return out
}

// UnlockFor returns the staff an ending title unlocks, if any.
func (e *Endings) UnlockFor(title string) string {
	for _, end := range e.All() {
		if end.Title == title {
			return end.Unlocks
		}
	}
	return ""
}

// Resolve picks the ending for a terminal node. The affinity and variant come
// from the node; the locked path must be set. Anything else resolves to the
// incomplete ending. tier adds the ascension note to the description.
func (e *Endings) Resolve(n *Node, locked affinity.Affinity, tier int) Ending {
	if n == nil || !n.Terminal || locked == "" || n.Variant.Index() < 0 {
		return Incomplete(tier)
	}
	p, ok := e.Path(n.Affinity)
	if !ok {
		return Incomplete(tier)
	}
	d := p.Endings[n.Variant.Index()]
	desc := d.Description
	if tier > 0 {
		desc += fmt.Sprintf("\n\n(Ascensão Nível %d influenciou este desfecho.)", tier)
	}
	return Ending{
		Title:       d.Title,
		Description: desc,
		Affinity:    n.Affinity,
		Variant:     n.Variant,
		Unlocks:     d.Unlocks,
	}
}

// Incomplete is the ending of a run that never forged a path.
func Incomplete(tier int) Ending {
	desc := "O fluxo de dados se dissipa. Nenhum caminho narrativo dominante foi forjado. O sistema aguarda outra iteração."
	if tier > 0 {
		desc += fmt.Sprintf("\n\n(Ascensão Nível %d notada.)", tier)
	}
	return Ending{Title: TitleIncomplete, Description: desc, Incomplete: true}
}

// SystemFailure ends a run whose scene could not be loaded.
func SystemFailure(nodeID string) Ending {
	return Ending{
		Title:       TitleSystemFailure,
		Description: fmt.Sprintf("A definição da cena %s não foi encontrada. O sistema colapsou.", nodeID),
		Incomplete:  true,
	}
}

// InternalFailure ends a run that reached an unknown node.
func InternalFailure(nodeID string) Ending {
	return Ending{
		Title:       TitleInternalFailure,
		Description: fmt.Sprintf("O nó narrativo %s é inválido.", nodeID),
		Incomplete:  true,
	}
}

// DeadEnd ends a run stuck on a node without choices.
func DeadEnd(nodeID string) Ending {
	return Ending{
		Title:       TitleDeadEnd,
		Description: fmt.Sprintf("O nó narrativo %s não leva a lugar nenhum.", nodeID),
		Incomplete:  true,
	}
}

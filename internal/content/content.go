// Package content loads the read-only game tables: effects, enemy archetypes,
// the narrative graph with its scenes, and the endings. The tables ship
// embedded; a directory can override any of them file by file.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zataralive/seraph-ultimo-login/internal/behavior"
	"github.com/zataralive/seraph-ultimo-login/internal/effects"
	"github.com/zataralive/seraph-ultimo-login/internal/narrative"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
)

//go:embed data/*.yaml
var embedded embed.FS

// Table file names, both embedded and in an override directory.
const (
	EffectsFile    = "effects.yaml"
	ArchetypesFile = "archetypes.yaml"
	NarrativeFile  = "narrative.yaml"
	EndingsFile    = "endings.yaml"
)

// Bundle is one consistent set of tables.
type Bundle struct {
	Effects  *effects.Registry
	Bestiary *behavior.Bestiary
	Graph    *narrative.Graph
	Endings  *narrative.Endings

	// Sources records where each table came from ("embedded" or a path).
	Sources map[string]string
}

// Default loads the embedded tables.
func Default() (*Bundle, error) {
	return Load("")
}

// Load reads the tables. Files present in dir replace the embedded ones;
// an empty dir uses only embedded data.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{Sources: make(map[string]string, 4)}

	data, err := b.read(dir, EffectsFile)
	if err != nil {
		return nil, err
	}
	if b.Effects, err = effects.Parse(data); err != nil {
		return nil, fmt.Errorf("content: %s: %w", b.Sources[EffectsFile], err)
	}

	if data, err = b.read(dir, ArchetypesFile); err != nil {
		return nil, err
	}
	if b.Bestiary, err = behavior.ParseBestiary(data); err != nil {
		return nil, fmt.Errorf("content: %s: %w", b.Sources[ArchetypesFile], err)
	}

	if data, err = b.read(dir, NarrativeFile); err != nil {
		return nil, err
	}
	if b.Graph, err = narrative.Parse(data); err != nil {
		return nil, fmt.Errorf("content: %s: %w", b.Sources[NarrativeFile], err)
	}

	if data, err = b.read(dir, EndingsFile); err != nil {
		return nil, err
	}
	if b.Endings, err = narrative.ParseEndings(data); err != nil {
		return nil, fmt.Errorf("content: %s: %w", b.Sources[EndingsFile], err)
	}
	return b, nil
}

func (b *Bundle) read(dir, name string) ([]byte, error) {
	if dir != "" {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			b.Sources[name] = path
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("content: failed to read %s: %w", path, err)
		}
	}
	data, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("content: embedded %s: %w", name, err)
	}
	b.Sources[name] = "embedded"
	return data, nil
}

// Validate checks the graph and the cross references between tables.
// Staff unlocks are checked against the staff registry, so staves must be
// registered before calling it.
func (b *Bundle) Validate() []narrative.ValidationError {
	errs := narrative.Validate(b.Graph, narrative.Checks{
		EffectExists: func(id string) bool {
			_, ok := b.Effects.Get(id)
			return ok
		},
		ArchetypeExists: b.Bestiary.Has,
	})
	add := func(code, format string, args ...any) {
		errs = append(errs, narrative.ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	for _, id := range b.Graph.AttributePool {
		if _, ok := b.Effects.Get(id); !ok {
			add("UNKNOWN_EFFECT", "attribute pool lists unknown effect %s", id)
		}
	}

	seen := make(map[string]bool)
	for _, id := range b.Graph.IDs() {
		n, _ := b.Graph.Node(id)
		if !n.Terminal || !n.Affinity.Valid() || seen[string(n.Affinity)] {
			continue
		}
		seen[string(n.Affinity)] = true
		if _, ok := b.Endings.Path(n.Affinity); !ok {
			add("MISSING_ENDINGS", "no endings for path %s", n.Affinity)
		}
	}

	for _, e := range b.Endings.All() {
		if e.Unlocks != "" && !registry.Exists(e.Unlocks) {
			add("UNKNOWN_STAFF", "ending %q unlocks unknown staff %s", e.Title, e.Unlocks)
		}
	}
	return errs
}

package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/narrative"
	_ "github.com/zataralive/seraph-ultimo-login/internal/weapon"
)

func TestDefaultBundleIsValid(t *testing.T) {
	b, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	for _, e := range b.Validate() {
		t.Errorf("Unexpected validation error: %v", e)
	}

	if n := b.Effects.Len(); n != 62 {
		t.Errorf("Expected 62 effects, got %d", n)
	}
	if n := len(b.Bestiary.IDs()); n != 23 {
		t.Errorf("Expected 23 archetypes, got %d", n)
	}
	if n := len(b.Graph.IDs()); n != 47 {
		t.Errorf("Expected 47 nodes, got %d", n)
	}
	for name, src := range b.Sources {
		if src != "embedded" {
			t.Errorf("Expected %s to be embedded, got %s", name, src)
		}
	}
}

func TestDefaultGraphShape(t *testing.T) {
	b, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	depth, ok := b.Graph.Depth()
	if !ok {
		t.Fatal("Expected an acyclic graph")
	}
	if depth < 4 || depth > 10 {
		t.Errorf("Expected depth between 4 and 10, got %d", depth)
	}

	for _, a := range affinity.All {
		finals := b.Graph.Finals(a)
		if len(finals) != 3 {
			t.Errorf("Expected 3 finals for %s, got %d", a, len(finals))
			continue
		}
		p, ok := b.Endings.Path(a)
		if !ok {
			t.Errorf("Expected endings for %s", a)
			continue
		}
		for _, n := range finals {
			s, _ := b.Graph.Scene(n.ID)
			if !s.Boss || s.Count != 1 {
				t.Errorf("Expected a single boss at %s, got %+v", n.ID, s)
			}
			if got := p.Endings[n.Variant.Index()].Title; got != n.Title {
				t.Errorf("Expected final %s titled %q, got %q", n.ID, got, n.Title)
			}
		}
	}

	root, _ := b.Graph.Node(b.Graph.Root)
	if root.Kind != narrative.KindDecision || len(root.Choices) != 3 {
		t.Errorf("Expected root decision with 3 choices, got %s with %d", root.Kind, len(root.Choices))
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	override := `
archetypes:
  - {id: basic_flyer, name: Voador, affinity: vinganca, hp: 10, speed: 1, width: 20, height: 20, damage: 1, cooldown: 1000}
`
	if err := os.WriteFile(filepath.Join(dir, ArchetypesFile), []byte(override), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := b.Sources[ArchetypesFile]; got != filepath.Join(dir, ArchetypesFile) {
		t.Errorf("Expected archetypes from override, got %s", got)
	}
	if got := b.Sources[EffectsFile]; got != "embedded" {
		t.Errorf("Expected embedded effects, got %s", got)
	}
	if n := len(b.Bestiary.IDs()); n != 1 {
		t.Errorf("Expected 1 archetype, got %d", n)
	}

	var unknown int
	for _, e := range b.Validate() {
		if e.Code == "UNKNOWN_ARCHETYPE" {
			unknown++
		}
	}
	if unknown == 0 {
		t.Error("Expected scenes to reference archetypes missing from the override")
	}
}

func TestLoadBrokenOverride(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"effects", EffectsFile, "effects: [oops"},
		{"narrative", NarrativeFile, "nodes: {"},
		{"endings", EndingsFile, "paths:\n  - affinity: nope\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.data), 0o644); err != nil {
				t.Fatalf("WriteFile() failed: %v", err)
			}
			_, err := Load(dir)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.file) {
				t.Errorf("Expected error to name %s, got %v", tt.file, err)
			}
		})
	}
}

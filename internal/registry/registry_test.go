package registry

import (
	"testing"

	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

type stubStaff struct{ id string }

func (s stubStaff) ID() string           { return s.id }
func (s stubStaff) Title() string        { return "Stub " + s.id }
func (s stubStaff) Weapon() world.Weapon { return world.Weapon{ID: s.id} }
func (s stubStaff) Fire(Shot) Volley     { return Volley{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz_stub", func() Staff { return stubStaff{id: "zz_stub"} })

	if !Exists("zz_stub") {
		t.Fatal("Expected zz_stub to exist")
	}
	s, err := Create("zz_stub")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if s.Title() != "Stub zz_stub" {
		t.Errorf("Expected title 'Stub zz_stub', got %q", s.Title())
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Errorf("List() not sorted: %v", list)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("missing"); err == nil {
		t.Error("Expected error for unknown staff")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", func() Staff { return stubStaff{id: "zz_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()
	Register("zz_dup", func() Staff { return stubStaff{id: "zz_dup"} })
}

package sim

import (
	"errors"
	"testing"

	"github.com/zataralive/seraph-ultimo-login/internal/weapon"
)

func TestLoadTrophies(t *testing.T) {
	b := tinyBundle(t)
	p := newMem()
	p.sets[KeyAchievedEndings] = []string{"Assimilado", "Not An Ending"}
	p.sets[KeyUnlockedStaves] = []string{"flesh_weaver_staff"}

	tr, err := LoadTrophies(p, b.Endings)
	if err != nil {
		t.Fatalf("LoadTrophies() failed: %v", err)
	}
	if len(tr.Endings) != 3 {
		t.Fatalf("Expected 3 endings, got %d", len(tr.Endings))
	}
	if !tr.Endings[0].Achieved || tr.Endings[1].Achieved {
		t.Errorf("Expected only the first ending achieved, got %+v", tr.Endings)
	}
	if tr.AchievedCount() != 1 {
		t.Errorf("Expected 1 achieved, got %d", tr.AchievedCount())
	}

	unlocked := map[string]bool{}
	for _, s := range tr.Staves {
		unlocked[s.ID] = s.Unlocked
	}
	if !unlocked[weapon.DefaultID] || !unlocked["flesh_weaver_staff"] || unlocked["void_gaze_staff"] {
		t.Errorf("Unexpected unlock set: %v", unlocked)
	}
	if tr.UnlockedCount() != 2 {
		t.Errorf("Expected 2 unlocked staves, got %d", tr.UnlockedCount())
	}
}

func TestLoadTrophiesPropagatesErrors(t *testing.T) {
	p := newMem()
	p.fail = errors.New("disk gone")
	if _, err := LoadTrophies(p, tinyBundle(t).Endings); err == nil {
		t.Error("Expected an error from a failing store")
	}
}

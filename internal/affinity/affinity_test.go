package affinity

import "testing"

func TestMapApplyIsMonotonic(t *testing.T) {
	m := NewMap()
	m.Apply(Deltas{Vinganca: 5, Carne: -3, "unknown": 4})

	if m[Vinganca] != 5 {
		t.Errorf("Expected vinganca 5, got %d", m[Vinganca])
	}
	if m[Carne] != 0 {
		t.Errorf("Expected negative delta to be ignored, got %d", m[Carne])
	}
	if _, ok := m["unknown"]; ok {
		t.Error("Expected unknown track to be ignored")
	}
}

func TestDominantTieBreak(t *testing.T) {
	m := NewMap()
	m.Apply(Deltas{Abismo: 4, Intelecto: 4})

	a, score := m.Dominant()
	if a != Intelecto || score != 4 {
		t.Errorf("Dominant() = %s/%d, expected intelecto/4", a, score)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("esperanca"); err != nil {
		t.Errorf("Parse(esperanca) failed: %v", err)
	}
	if _, err := Parse("Esperança"); err == nil {
		t.Error("Expected display names to be rejected as keys")
	}
	if Transcendencia.DisplayName() != "Transcendência" {
		t.Errorf("unexpected display name %q", Transcendencia.DisplayName())
	}
}

func TestRanked(t *testing.T) {
	m := NewMap()
	m.Apply(Deltas{Absurdo: 9, Carne: 2})
	r := m.Ranked()
	if r[0] != Absurdo || r[1] != Carne {
		t.Errorf("Ranked() = %v", r[:2])
	}
}

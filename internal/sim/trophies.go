package sim

import (
	"slices"

	"github.com/zataralive/seraph-ultimo-login/internal/narrative"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
)

// EndingTrophy is an authored ending and whether any run reached it.
type EndingTrophy struct {
	narrative.Ending
	Achieved bool `json:"achieved"`
}

// StaffTrophy is a staff and whether it may be equipped.
type StaffTrophy struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Unlocked bool   `json:"unlocked"`
}

// Trophies is the trophy room: every ending and every staff.
type Trophies struct {
	Endings []EndingTrophy `json:"endings"`
	Staves  []StaffTrophy  `json:"staves"`
}

// AchievedCount returns how many endings were reached.
func (t Trophies) AchievedCount() int {
	n := 0
	for _, e := range t.Endings {
		if e.Achieved {
			n++
		}
	}
	return n
}

// UnlockedCount returns how many staves may be equipped.
func (t Trophies) UnlockedCount() int {
	n := 0
	for _, s := range t.Staves {
		if s.Unlocked {
			n++
		}
	}
	return n
}

// LoadTrophies reads the achieved endings and unlocked staves from p.
func LoadTrophies(p Persistence, endings *narrative.Endings) (Trophies, error) {
	achieved, err := p.Strings(KeyAchievedEndings)
	if err != nil {
		return Trophies{}, err
	}
	unlocked, err := LoadUnlocked(p)
	if err != nil {
		return Trophies{}, err
	}

	var t Trophies
	for _, e := range endings.All() {
		t.Endings = append(t.Endings, EndingTrophy{Ending: e, Achieved: slices.Contains(achieved, e.Title)})
	}
	for _, s := range registry.List() {
		t.Staves = append(t.Staves, StaffTrophy{ID: s.ID, Title: s.Title, Unlocked: slices.Contains(unlocked, s.ID)})
	}
	return t, nil
}

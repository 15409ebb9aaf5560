package sim

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/narrative"
	"github.com/zataralive/seraph-ultimo-login/internal/storage"
	"github.com/zataralive/seraph-ultimo-login/internal/weapon"
)

// Keys of the persisted string sets.
const (
	KeyAchievedEndings = "achievedEndings"
	KeyUnlockedStaves  = "unlockedStaffIds"
)

// AnonymousName is recorded when the player leaves the name empty.
const AnonymousName = "Anônimo"

// ErrNothingPending is returned by Finalize when the run has not ended or its
// result was already submitted.
var ErrNothingPending = errors.New("sim: no pending submission")

// Submission is the result of a finished run, waiting for a player name.
type Submission struct {
	RunID  string            `json:"runId"`
	Score  int               `json:"score"`
	Staff  string            `json:"staff"`
	Ending *narrative.Ending `json:"ending,omitempty"` // nil on death
	Theme  affinity.Affinity `json:"theme,omitempty"`
	Node   string            `json:"node,omitempty"` // where the player died
}

// Persistence stores scores and the unlock sets that outlive a run.
type Persistence interface {
	Strings(key string) ([]string, error)
	SaveStrings(key string, values []string) error
	RecordScore(e storage.ScoreEntry) error
}

// Pending returns the submission of a finished run.
func (g *Game) Pending() (Submission, bool) {
	if g.pending == nil {
		return Submission{}, false
	}
	return *g.pending, true
}

// Finalize records the pending submission under name. Complete endings are
// added to the achieved set and unlock their staff. After a failure Finalize
// may be retried; a score that was already recorded is not recorded again.
func (g *Game) Finalize(p Persistence, name string) error {
	if g.pending == nil {
		return ErrNothingPending
	}
	sub := *g.pending

	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousName
	}
	entry := storage.ScoreEntry{
		Name:      name,
		Score:     sub.Score,
		Staff:     sub.Staff,
		RunID:     sub.RunID,
		CreatedAt: time.Now().UTC(),
	}
	if sub.Ending != nil {
		entry.Ending = sub.Ending.Title
	}
	if !g.recorded {
		if err := p.RecordScore(entry); err != nil {
			return fmt.Errorf("sim: record score: %w", err)
		}
		g.recorded = true
	}

	if e := sub.Ending; e != nil && !e.Incomplete {
		if err := addString(p, KeyAchievedEndings, e.Title); err != nil {
			return err
		}
		if e.Unlocks != "" {
			if err := addString(p, KeyUnlockedStaves, e.Unlocks); err != nil {
				return err
			}
			g.log.Info("staff unlocked", "staff", e.Unlocks, "ending", e.Title)
		}
	}

	g.pending = nil
	return nil
}

func addString(p Persistence, key, v string) error {
	vals, err := p.Strings(key)
	if err != nil {
		return fmt.Errorf("sim: load %s: %w", key, err)
	}
	if slices.Contains(vals, v) {
		return nil
	}
	if err := p.SaveStrings(key, append(vals, v)); err != nil {
		return fmt.Errorf("sim: save %s: %w", key, err)
	}
	return nil
}

// LoadUnlocked returns the unlocked staves. The default staff is always
// included.
func LoadUnlocked(p Persistence) ([]string, error) {
	vals, err := p.Strings(KeyUnlockedStaves)
	if err != nil {
		return nil, fmt.Errorf("sim: load %s: %w", KeyUnlockedStaves, err)
	}
	if !slices.Contains(vals, weapon.DefaultID) {
		vals = append([]string{weapon.DefaultID}, vals...)
	}
	return vals, nil
}

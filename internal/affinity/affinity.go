// Package affinity defines the thematic tracks a run accumulates score on.
package affinity

import (
	"fmt"
	"sort"
)

// Affinity names one thematic track.
type Affinity string

const (
	Vinganca       Affinity = "vinganca"
	Intelecto      Affinity = "intelecto"
	Abismo         Affinity = "abismo"
	Carne          Affinity = "carne"
	Esperanca      Affinity = "esperanca"
	Absurdo        Affinity = "absurdo"
	Transcendencia Affinity = "transcendencia"
)

// ThemeThreshold is the score the dominant track needs before it colors an
// unlocked run.
const ThemeThreshold = 3

// All lists every track in canonical order. The order breaks ties.
var All = []Affinity{Vinganca, Intelecto, Abismo, Carne, Esperanca, Absurdo, Transcendencia}

var displayNames = map[Affinity]string{
	Vinganca:       "Vingança",
	Intelecto:      "Intelecto",
	Abismo:         "Abismo",
	Carne:          "Carne",
	Esperanca:      "Esperança",
	Absurdo:        "Absurdo",
	Transcendencia: "Transcendência",
}

// Valid reports whether a is one of the known tracks.
func (a Affinity) Valid() bool {
	_, ok := displayNames[a]
	return ok
}

// DisplayName returns the human-facing name of the track.
func (a Affinity) DisplayName() string {
	if name, ok := displayNames[a]; ok {
		return name
	}
	return string(a)
}

// Parse converts a key into an Affinity.
func Parse(s string) (Affinity, error) {
	a := Affinity(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown affinity %q", s)
	}
	return a, nil
}

// Deltas is a set of per-track increments carried by choices and effects.
type Deltas map[Affinity]int

// Keys returns the tracks touched by d in canonical order.
func (d Deltas) Keys() []Affinity {
	keys := make([]Affinity, 0, len(d))
	for _, a := range All {
		if _, ok := d[a]; ok {
			keys = append(keys, a)
		}
	}
	return keys
}

// Map holds the accumulated score per track. Scores only grow during a run.
type Map map[Affinity]int

// NewMap returns a zeroed score map.
func NewMap() Map {
	m := make(Map, len(All))
	for _, a := range All {
		m[a] = 0
	}
	return m
}

// Apply adds d to the map. Non-positive deltas are ignored so the map stays monotonic.
func (m Map) Apply(d Deltas) {
	for a, v := range d {
		if v <= 0 || !a.Valid() {
			continue
		}
		m[a] += v
	}
}

// Dominant returns the highest scoring track. Ties go to the earlier track in All.
func (m Map) Dominant() (Affinity, int) {
	best, bestScore := All[0], m[All[0]]
	for _, a := range All[1:] {
		if m[a] > bestScore {
			best, bestScore = a, m[a]
		}
	}
	return best, bestScore
}

// Ranked returns the tracks sorted by descending score.
func (m Map) Ranked() []Affinity {
	out := make([]Affinity, len(All))
	copy(out, All)
	sort.SliceStable(out, func(i, j int) bool { return m[out[i]] > m[out[j]] })
	return out
}

// Clone returns an independent copy.
func (m Map) Clone() Map {
	c := make(Map, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

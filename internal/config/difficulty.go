package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

const (
	easyStepFactor = 0.7
	hardHeadStart  = 3
)

// Presets lists the known presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset converts a name into a preset. An empty name is normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name)))
	if p == "" {
		return DifficultyNormal, nil
	}
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return DifficultyNormal, fmt.Errorf("config: unknown difficulty %q", name)
}

// IsFixedPreset returns true if the preset disables difficulty progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the difficulty curve based on a preset.
func ApplyPreset(cfg *SeraphConfig, preset DifficultyPreset) {
	d := &cfg.Difficulty
	d.Fixed = IsFixedPreset(preset)
	switch preset {
	case DifficultyEasy:
		d.Step *= easyStepFactor
	case DifficultyHard:
		d.HeadStart = hardHeadStart
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const seraphFile = "seraph.yaml"

// LoadSeraph loads the simulation configuration.
// Search order: customPath -> ~/.seraph/configs/seraph.yaml -> ./configs/seraph.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadSeraph(customPath string) (SeraphConfig, error) {
	cfg := DefaultSeraphConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultSeraphConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath(seraphFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultSeraphConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", seraphFile)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultSeraphConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultSeraphYAML, &cfg); err != nil {
		return DefaultSeraphConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".seraph", "configs", filename)
}

// Validate rejects configurations the simulation cannot run with.
func (c SeraphConfig) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("config: world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	case c.World.GroundHeight < 0 || c.World.GroundHeight >= c.World.Height:
		return fmt.Errorf("config: ground height %v out of range", c.World.GroundHeight)
	case c.Player.HP <= 0:
		return fmt.Errorf("config: player hp must be positive, got %v", c.Player.HP)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("config: player size must be positive")
	case c.Player.CritChance < 0 || c.Player.CritChance > 1:
		return fmt.Errorf("config: crit chance %v out of [0,1]", c.Player.CritChance)
	case c.Physics.MaxDeltaMS <= 0:
		return fmt.Errorf("config: max_delta_ms must be positive, got %v", c.Physics.MaxDeltaMS)
	case c.Difficulty.Step < 0 || c.Difficulty.Damping < 0:
		return fmt.Errorf("config: difficulty step and damping must not be negative")
	}
	return nil
}

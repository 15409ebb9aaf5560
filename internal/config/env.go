package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level settings read from SERAPH_* variables.
type Env struct {
	DB         string `env:"SERAPH_DB" envDefault:"~/.seraph/seraph.db"`
	ConfigPath string `env:"SERAPH_CONFIG"`
	ContentDir string `env:"SERAPH_CONTENT_DIR"`
	FPS        int    `env:"SERAPH_FPS" envDefault:"60"`
	SSHAddr    string `env:"SERAPH_SSH_ADDR" envDefault:":23234"`
	WSAddr     string `env:"SERAPH_WS_ADDR" envDefault:":8080"`
	Audio      bool   `env:"SERAPH_AUDIO" envDefault:"false"`
	LogLevel   string `env:"SERAPH_LOG_LEVEL" envDefault:"info"`
	Difficulty string `env:"SERAPH_DIFFICULTY" envDefault:"normal"`
}

// LoadEnv parses the environment into an Env.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse env: %w", err)
	}
	if e.FPS <= 0 {
		return e, fmt.Errorf("parse env: SERAPH_FPS must be positive, got %d", e.FPS)
	}
	return e, nil
}

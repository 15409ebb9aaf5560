package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/zataralive/seraph-ultimo-login/internal/config"
	"github.com/zataralive/seraph-ultimo-login/internal/content"
	"github.com/zataralive/seraph-ultimo-login/internal/sim"
)

// runTemplate builds the options shared by every run: tuning with the preset
// applied, and the content tables.
func runTemplate(configPath, difficulty, contentDir string) (sim.Options, error) {
	cfg, err := config.LoadSeraph(configPath)
	if err != nil {
		return sim.Options{}, err
	}
	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		return sim.Options{}, err
	}
	config.ApplyPreset(&cfg, preset)

	bundle, err := content.Load(contentDir)
	if err != nil {
		return sim.Options{}, err
	}
	if errs := bundle.Validate(); len(errs) > 0 {
		return sim.Options{}, fmt.Errorf("content: %d validation errors, run 'seraph validate'", len(errs))
	}
	return sim.Options{Content: bundle, Config: cfg}, nil
}

// newLogger returns a stderr logger at the SERAPH_LOG_LEVEL level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(envCfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

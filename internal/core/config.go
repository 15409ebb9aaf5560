package core

// RuntimeConfig contains configuration passed to the simulation at run start.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a run.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the run has ended (death or ending)
	Paused   bool // Whether the run is paused
}

// StepResult is returned after each simulation tick.
type StepResult struct {
	State GameState
}

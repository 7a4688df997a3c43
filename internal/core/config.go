package core

// RuntimeConfig is passed to a game when it is reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 asks the platform for a time-based seed
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the summary the platform needs after each tick.
type GameState struct {
	Score    int
	Lines    int
	Level    int
	Rank     string
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step after each tick. Events holds short
// notices such as "T-Spin Double" or "Rank up: Builder" for the host.
type StepResult struct {
	State  GameState
	Events []string
}

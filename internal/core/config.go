package core

// RuntimeConfig contains configuration passed to the game view at startup.
// The view uses it to size the screen buffer and pace ticks.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Update ticks per second (default 30)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is the coarse status the platform needs after each tick.
type GameState struct {
	Level    int  // Current level number (0-based)
	Score    int  // Levels cleared in this run
	Moves    int  // Control activations on the current level
	GameOver bool // Lost, won, or faulted
	Won      bool // Every level of the pack cleared
	Quit     bool // Player asked to leave
}

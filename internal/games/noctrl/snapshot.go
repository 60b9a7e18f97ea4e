package noctrl

import "github.com/vovakirdan/noctrl/internal/games/noctrl/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StateIdle    GameStateType = "idle"
	StatePlaying GameStateType = "playing"
	StateLost    GameStateType = "lost"
	StateWon     GameStateType = "won"
	StateFaulted GameStateType = "faulted"
	StateQuit    GameStateType = "quit"
)

// SlotSnapshot is the content of one control slot.
type SlotSnapshot struct {
	Empty  bool
	Dir    core.Dir
	Energy int
}

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Level   int
	Cleared int
	Moves   int
	PlayerX int
	PlayerY int
	Items   int // Uncollected items left on the grid
	Slots   [core.SlotCount]SlotSnapshot
	State   GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.grid == nil:
		state = StateIdle
	case g.quit:
		state = StateQuit
	case g.faulted:
		state = StateFaulted
	case g.won:
		state = StateWon
	case g.lost:
		state = StateLost
	}

	snap := Snapshot{
		Tick:    g.tick,
		Level:   g.level,
		Cleared: g.cleared,
		Moves:   g.moves,
		PlayerX: g.player.Pos.X,
		PlayerY: g.player.Pos.Y,
		State:   state,
	}
	if g.grid != nil {
		snap.Items = len(g.grid.Items)
	}
	for i, ctl := range g.inv.Slots() {
		if ctl == nil {
			snap.Slots[i] = SlotSnapshot{Empty: true}
			continue
		}
		snap.Slots[i] = SlotSnapshot{Dir: ctl.Dir, Energy: ctl.Energy}
	}
	return snap
}

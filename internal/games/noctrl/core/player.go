package core

import "fmt"

// MoveOutcome reports what a single step did.
type MoveOutcome uint8

const (
	MoveNone        MoveOutcome = iota // No control was activated
	MoveBlocked                        // A wall absorbed the step
	MoveMoved                          // Player moved onto floor
	MoveReachedExit                    // Player moved onto an exit
)

// String returns the name of the outcome.
func (m MoveOutcome) String() string {
	switch m {
	case MoveNone:
		return "None"
	case MoveBlocked:
		return "Blocked"
	case MoveMoved:
		return "Moved"
	case MoveReachedExit:
		return "ReachedExit"
	default:
		return "Unknown"
	}
}

// Moved returns true if the player changed position.
func (m MoveOutcome) Moved() bool {
	return m == MoveMoved || m == MoveReachedExit
}

// Player is the player sprite's rules-side state.
type Player struct {
	Pos     Coord
	Pending []ItemKind // Items collected this tick, not yet turned into controls
}

// NewPlayer places a player at the grid's start position.
func NewPlayer(g *Grid) Player {
	return Player{Pos: g.Start}
}

// DrainPending returns the collected items in pickup order and empties the queue.
func (p *Player) DrainPending() []ItemKind {
	items := p.Pending
	p.Pending = nil
	return items
}

// Walk moves the player one step in direction d.
// A wall leaves the position and the item map unchanged. After a step onto
// a passable tile, an item lying there is taken off the grid and queued.
// A step leaving the grid returns ErrOutOfBounds and changes nothing.
func Walk(p *Player, g *Grid, d Dir) (MoveOutcome, error) {
	next := p.Pos.Step(d)
	if !g.InBounds(next) {
		return MoveNone, fmt.Errorf("walk %s from %s: %w", d, p.Pos, ErrOutOfBounds)
	}

	tile := g.At(next)
	if !tile.Passable() {
		return MoveBlocked, nil
	}

	p.Pos = next
	if item, ok := g.TakeItem(p.Pos); ok {
		p.Pending = append(p.Pending, item)
	}
	if tile == TileExit {
		return MoveReachedExit, nil
	}
	return MoveMoved, nil
}

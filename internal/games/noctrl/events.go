package noctrl

import (
	pcore "github.com/vovakirdan/noctrl/internal/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
)

// EventKind identifies something that happened during a tick.
type EventKind uint8

const (
	EventItemCollected  EventKind = iota // An item became a control
	EventItemDropped                     // An item was picked up with no free slot
	EventLevelCleared                    // The player reached an exit
	EventLevelRestarted                  // The level was reloaded
	EventLost                            // The last control was swept
	EventWon                             // The last level of the pack was cleared
	EventLoadFailed                      // A level could not be loaded; state unchanged
	EventFault                           // A step left the grid; play stopped
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventItemCollected:
		return "ItemCollected"
	case EventItemDropped:
		return "ItemDropped"
	case EventLevelCleared:
		return "LevelCleared"
	case EventLevelRestarted:
		return "LevelRestarted"
	case EventLost:
		return "Lost"
	case EventWon:
		return "Won"
	case EventLoadFailed:
		return "LoadFailed"
	case EventFault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// Event carries the details of one tick event. Only the fields relevant to
// its kind are set.
type Event struct {
	Kind  EventKind
	Level int
	Item  core.ItemKind
	Slot  int   // Slot that received a collected item
	Moves int   // Moves used, for LevelCleared
	Err   error // LoadFailed and Fault
}

// TickResult is returned by Game.Step.
type TickResult struct {
	State  pcore.GameState
	Events []Event
	Err    error // Load failure or fault raised this tick
}

func (r *TickResult) add(e Event) {
	r.Events = append(r.Events, e)
}

// Has returns true if an event of the given kind happened this tick.
func (r TickResult) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

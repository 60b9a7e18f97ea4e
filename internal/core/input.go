package core

import ncore "github.com/vovakirdan/noctrl/internal/games/noctrl/core"

// Action represents a semantic game action, abstracted from physical key presses.
// Key bindings live in the platform layer; the rules engine only sees actions.
type Action int

const (
	ActionNone    Action = iota
	ActionSlot0          // H - activate control slot 0
	ActionSlot1          // J - activate control slot 1
	ActionSlot2          // K - activate control slot 2
	ActionSlot3          // L - activate control slot 3
	ActionRestart        // R - reload the current level
	ActionAdvance        // N - skip to the next level (debug)
	ActionQuit           // Q, Ctrl+C - leave the game
)

// SlotActions lists the slot actions in slot order.
var SlotActions = [ncore.SlotCount]Action{ActionSlot0, ActionSlot1, ActionSlot2, ActionSlot3}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionSlot0:
		return "Slot0"
	case ActionSlot1:
		return "Slot1"
	case ActionSlot2:
		return "Slot2"
	case ActionSlot3:
		return "Slot3"
	case ActionRestart:
		return "Restart"
	case ActionAdvance:
		return "Advance"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Slot returns the control slot index for a slot action.
// The second result is false for every other action.
func (a Action) Slot() (int, bool) {
	for i, sa := range SlotActions {
		if a == sa {
			return i, true
		}
	}
	return -1, false
}

// InputFrame holds the actions buffered between two ticks.
// Insertion order is processing order; the frame is drained every tick.
type InputFrame struct {
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make([]Action, 0, 4),
	}
}

// Push appends an action to the frame. ActionNone is ignored.
func (f *InputFrame) Push(a Action) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, a)
}

// Len returns the number of buffered actions.
func (f InputFrame) Len() int {
	return len(f.Actions)
}

// Clear drops all buffered actions for the next frame.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}

// Package core provides the rules engine for the NoCtrl puzzle game:
// the level grid, the control inventory and movement resolution.
// This package is UI-agnostic and deterministic.
package core

import "errors"

// SlotCount is the number of control slots in an inventory.
const SlotCount = 4

// DefaultPickupEnergy is the energy of a control created from a collected item.
const DefaultPickupEnergy = 5

var (
	// ErrOutOfBounds is returned when a step would leave the grid.
	// Levels enclosed by walls never produce it.
	ErrOutOfBounds = errors.New("step leaves the grid")

	// ErrInventoryFull is returned when a collected item finds no empty slot.
	ErrInventoryFull = errors.New("inventory full")
)

// Dir represents a movement direction.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
// Up decreases Y, Down increases Y (screen coordinates).
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Arrow returns the glyph used to draw a control or item of this direction.
func (d Dir) Arrow() rune {
	switch d {
	case DirUp:
		return '↑'
	case DirRight:
		return '→'
	case DirDown:
		return '↓'
	case DirLeft:
		return '←'
	default:
		return '?'
	}
}

// TileKind classifies a grid cell. Tiles carry no behavior.
type TileKind uint8

const (
	TileFloor TileKind = iota
	TileWall
	TileExit
)

// String returns the name of the tile kind.
func (t TileKind) String() string {
	switch t {
	case TileFloor:
		return "Floor"
	case TileWall:
		return "Wall"
	case TileExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Passable reports whether the player may stand on the tile.
func (t TileKind) Passable() bool {
	return t != TileWall
}

// ItemKind identifies a collectible lying on the grid.
type ItemKind uint8

const (
	ItemUpControl ItemKind = iota
	ItemRightControl
	ItemDownControl
	ItemLeftControl
)

// Dir returns the direction of the control the item turns into.
func (k ItemKind) Dir() Dir {
	switch k {
	case ItemUpControl:
		return DirUp
	case ItemRightControl:
		return DirRight
	case ItemDownControl:
		return DirDown
	default:
		return DirLeft
	}
}

// String returns the name of the item kind.
func (k ItemKind) String() string {
	return k.Dir().String() + "Control"
}

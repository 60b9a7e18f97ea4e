package core

import (
	"fmt"
	"sort"
)

// Grid is a loaded level: terrain, player start, items and the starting
// inventory. Tiles are stored in row-major order: index = y*W + x.
// Terrain never changes after load; only the item map shrinks as the
// player collects items.
type Grid struct {
	Number   int                 // Level number this grid was loaded from
	Title    string              // Optional display title
	W        int                 // Width of the grid
	H        int                 // Height of the grid
	Tiles    []TileKind          // Flat array of tiles, length W*H
	Start    Coord               // Player start position
	Items    map[Coord]ItemKind  // Uncollected items
	Controls [SlotCount]*Control // Starting inventory, nil means empty slot
}

// NewGrid creates a grid of the given size filled with floor.
func NewGrid(w, h int) *Grid {
	return &Grid{
		W:     w,
		H:     h,
		Tiles: make([]TileKind, w*h),
		Items: make(map[Coord]ItemKind),
	}
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Y*g.W + c.X
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// At returns the tile at the given coordinate.
// Callers must pass an in-bounds coordinate; anything else is a bug and panics.
func (g *Grid) At(c Coord) TileKind {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("noctrl: tile lookup %s outside %dx%d grid", c, g.W, g.H))
	}
	return g.Tiles[g.index(c)]
}

// Set changes the tile at the given coordinate. Used while loading.
func (g *Grid) Set(c Coord, t TileKind) {
	if g.InBounds(c) {
		g.Tiles[g.index(c)] = t
	}
}

// PlaceItem puts an item at the given coordinate. Used while loading.
func (g *Grid) PlaceItem(c Coord, k ItemKind) {
	if g.InBounds(c) {
		g.Items[c] = k
	}
}

// ItemAt returns the item at the coordinate, if any.
func (g *Grid) ItemAt(c Coord) (ItemKind, bool) {
	k, ok := g.Items[c]
	return k, ok
}

// TakeItem removes and returns the item at the coordinate.
// A second call for the same coordinate finds nothing.
func (g *Grid) TakeItem(c Coord) (ItemKind, bool) {
	k, ok := g.Items[c]
	if ok {
		delete(g.Items, c)
	}
	return k, ok
}

// ItemCoords returns the coordinates of all uncollected items, ordered by
// row then column so rendering and snapshots are deterministic.
func (g *Grid) ItemCoords() []Coord {
	coords := make([]Coord, 0, len(g.Items))
	for c := range g.Items {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	return coords
}

// Count returns how many tiles of the given kind the grid holds.
func (g *Grid) Count(t TileKind) int {
	n := 0
	for _, tile := range g.Tiles {
		if tile == t {
			n++
		}
	}
	return n
}

// OpenBorder returns the border coordinates that are not walls.
// Stepping outward from one of them leaves the grid.
func (g *Grid) OpenBorder() []Coord {
	var open []Coord
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if x != 0 && y != 0 && x != g.W-1 && y != g.H-1 {
				continue
			}
			c := C(x, y)
			if g.At(c).Passable() {
				open = append(open, c)
			}
		}
	}
	return open
}

// StartingInventory returns a fresh inventory holding copies of the
// level's starting controls.
func (g *Grid) StartingInventory() Inventory {
	var inv Inventory
	for i, c := range g.Controls {
		if c != nil {
			clone := *c
			inv.slots[i] = &clone
		}
	}
	return inv
}

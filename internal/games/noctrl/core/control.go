package core

// Control is a limited-use directional move token.
type Control struct {
	Dir    Dir
	Energy int // Remaining uses, always > 0 while held in an inventory
}

// HasEnergy returns true if the control can still be activated.
func (c Control) HasEnergy() bool {
	return c.Energy > 0
}

// Inventory is a fixed set of control slots bound to the four slot keys.
// A nil slot is empty. Occupied slots never move; new controls go to the
// lowest empty index.
type Inventory struct {
	slots [SlotCount]*Control
}

// NewInventory builds an inventory from a list of controls, one per slot.
// Controls without energy leave their slot empty.
func NewInventory(controls ...Control) Inventory {
	var inv Inventory
	for i, c := range controls {
		if i >= SlotCount {
			break
		}
		if c.HasEnergy() {
			ctl := c
			inv.slots[i] = &ctl
		}
	}
	return inv
}

// Get returns the control in a slot without removing it.
// The second result is false for an empty or invalid slot.
func (inv *Inventory) Get(slot int) (Control, bool) {
	if slot < 0 || slot >= SlotCount || inv.slots[slot] == nil {
		return Control{}, false
	}
	return *inv.slots[slot], true
}

// Activate spends one energy of the control in the slot and walks the
// player in its direction. Energy is spent even if a wall blocks the move.
// An empty or invalid slot does nothing and returns MoveNone.
func (inv *Inventory) Activate(slot int, p *Player, g *Grid) (MoveOutcome, error) {
	if slot < 0 || slot >= SlotCount {
		return MoveNone, nil
	}
	ctl := inv.slots[slot]
	if ctl == nil || !ctl.HasEnergy() {
		return MoveNone, nil
	}
	ctl.Energy--
	return Walk(p, g, ctl.Dir)
}

// Sweep removes every control whose energy reached zero.
// Returns the number of slots emptied.
func (inv *Inventory) Sweep() int {
	removed := 0
	for i, ctl := range inv.slots {
		if ctl != nil && !ctl.HasEnergy() {
			inv.slots[i] = nil
			removed++
		}
	}
	return removed
}

// Add turns a collected item into a control with the given energy and
// stores it in the first empty slot. Returns the slot used, or
// ErrInventoryFull when every slot is taken.
func (inv *Inventory) Add(kind ItemKind, energy int) (int, error) {
	if energy <= 0 {
		energy = DefaultPickupEnergy
	}
	for i, ctl := range inv.slots {
		if ctl == nil {
			inv.slots[i] = &Control{Dir: kind.Dir(), Energy: energy}
			return i, nil
		}
	}
	return -1, ErrInventoryFull
}

// IsExhausted returns true if every slot is empty. This is the loss condition.
func (inv *Inventory) IsExhausted() bool {
	return inv.Count() == 0
}

// Count returns the number of occupied slots.
func (inv *Inventory) Count() int {
	n := 0
	for _, ctl := range inv.slots {
		if ctl != nil {
			n++
		}
	}
	return n
}

// TotalEnergy returns the energy left across all slots.
func (inv *Inventory) TotalEnergy() int {
	total := 0
	for _, ctl := range inv.slots {
		if ctl != nil {
			total += ctl.Energy
		}
	}
	return total
}

// Slots returns a copy of the slot contents for display.
func (inv *Inventory) Slots() [SlotCount]*Control {
	var out [SlotCount]*Control
	for i, ctl := range inv.slots {
		if ctl != nil {
			c := *ctl
			out[i] = &c
		}
	}
	return out
}

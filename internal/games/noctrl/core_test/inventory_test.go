package core_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
)

func TestNewInventorySkipsEmptyControls(t *testing.T) {
	inv := core.NewInventory(
		core.Control{Dir: core.DirUp, Energy: 2},
		core.Control{Dir: core.DirLeft, Energy: 0},
		core.Control{Dir: core.DirRight, Energy: 1},
	)

	if inv.Count() != 2 {
		t.Errorf("expected 2 controls, got %d", inv.Count())
	}
	if _, ok := inv.Get(1); ok {
		t.Error("slot 1 should be empty")
	}
	if ctl, ok := inv.Get(2); !ok || ctl.Dir != core.DirRight {
		t.Errorf("slot 2: expected Right control, got %+v", ctl)
	}
}

func TestActivateSpendsOneEnergy(t *testing.T) {
	g := parseLevel(t, 5, 1, "@    ")
	p := core.NewPlayer(g)
	inv := core.NewInventory(core.Control{Dir: core.DirRight, Energy: 3})

	prev := 3
	for i := 0; i < 3; i++ {
		if _, err := inv.Activate(0, &p, g); err != nil {
			t.Fatal(err)
		}
		ctl, ok := inv.Get(0)
		if !ok {
			t.Fatal("control removed before sweep")
		}
		if ctl.Energy != prev-1 {
			t.Errorf("activation %d: expected energy %d, got %d", i, prev-1, ctl.Energy)
		}
		prev = ctl.Energy
	}
	if p.Pos != core.C(3, 0) {
		t.Errorf("expected player at (3,0), got %s", p.Pos)
	}
}

func TestActivateEmptySlotIsNoop(t *testing.T) {
	g := parseLevel(t, 3, 1, "@  ")
	p := core.NewPlayer(g)
	inv := core.NewInventory(core.Control{Dir: core.DirRight, Energy: 1})

	for _, slot := range []int{1, 3, -1, 4} {
		outcome, err := inv.Activate(slot, &p, g)
		if err != nil || outcome != core.MoveNone {
			t.Errorf("slot %d: expected (None, nil), got (%s, %v)", slot, outcome, err)
		}
	}
	if p.Pos != g.Start {
		t.Errorf("player moved to %s", p.Pos)
	}
	if ctl, _ := inv.Get(0); ctl.Energy != 1 {
		t.Errorf("unrelated control lost energy: %d", ctl.Energy)
	}
}

func TestSweepRemovesOnlyExhausted(t *testing.T) {
	g := parseLevel(t, 3, 3,
		"   ",
		" @ ",
		"   ",
	)
	p := core.NewPlayer(g)
	inv := core.NewInventory(
		core.Control{Dir: core.DirRight, Energy: 1},
		core.Control{Dir: core.DirLeft, Energy: 2},
	)

	if _, err := inv.Activate(0, &p, g); err != nil {
		t.Fatal(err)
	}
	if _, err := inv.Activate(1, &p, g); err != nil {
		t.Fatal(err)
	}

	if removed := inv.Sweep(); removed != 1 {
		t.Errorf("expected 1 control removed, got %d", removed)
	}
	if _, ok := inv.Get(0); ok {
		t.Error("exhausted control should be gone")
	}
	if ctl, ok := inv.Get(1); !ok || ctl.Energy != 1 {
		t.Errorf("slot 1: expected energy 1, got %+v", ctl)
	}
	if inv.IsExhausted() {
		t.Error("inventory with a control left is not exhausted")
	}
}

func TestAddFillsFirstEmptySlot(t *testing.T) {
	inv := core.NewInventory(
		core.Control{},
		core.Control{Dir: core.DirUp, Energy: 1},
	)

	slot, err := inv.Add(core.ItemDownControl, 4)
	if err != nil {
		t.Fatal(err)
	}
	if slot != 0 {
		t.Errorf("expected slot 0, got %d", slot)
	}
	slot, err = inv.Add(core.ItemLeftControl, 0)
	if err != nil {
		t.Fatal(err)
	}
	if slot != 2 {
		t.Errorf("expected slot 2, got %d", slot)
	}
	ctl, _ := inv.Get(2)
	if ctl.Dir != core.DirLeft || ctl.Energy != core.DefaultPickupEnergy {
		t.Errorf("expected Left with default energy, got %+v", ctl)
	}
	if up, _ := inv.Get(1); up.Dir != core.DirUp {
		t.Error("occupied slot was reordered")
	}
}

func TestAddFullInventory(t *testing.T) {
	inv := core.NewInventory(
		core.Control{Dir: core.DirUp, Energy: 1},
		core.Control{Dir: core.DirUp, Energy: 1},
		core.Control{Dir: core.DirUp, Energy: 1},
		core.Control{Dir: core.DirUp, Energy: 1},
	)

	slot, err := inv.Add(core.ItemRightControl, 5)
	if !errors.Is(err, core.ErrInventoryFull) {
		t.Fatalf("expected ErrInventoryFull, got %v", err)
	}
	if slot != -1 {
		t.Errorf("expected slot -1, got %d", slot)
	}
	if inv.TotalEnergy() != 4 {
		t.Errorf("full inventory changed: total energy %d", inv.TotalEnergy())
	}
}

func TestInventoryIsExhausted(t *testing.T) {
	var empty core.Inventory
	if !empty.IsExhausted() {
		t.Error("zero inventory should be exhausted")
	}

	g := parseLevel(t, 2, 1, "@ ")
	p := core.NewPlayer(g)
	inv := core.NewInventory(core.Control{Dir: core.DirRight, Energy: 1})
	if _, err := inv.Activate(0, &p, g); err != nil {
		t.Fatal(err)
	}
	if inv.IsExhausted() {
		t.Error("inventory is only exhausted after the sweep")
	}
	inv.Sweep()
	if !inv.IsExhausted() {
		t.Error("expected exhausted inventory after sweep")
	}
}

func TestSlotsReturnsCopy(t *testing.T) {
	inv := core.NewInventory(core.Control{Dir: core.DirUp, Energy: 3})
	slots := inv.Slots()
	slots[0].Energy = 0

	if ctl, _ := inv.Get(0); ctl.Energy != 3 {
		t.Errorf("Slots exposed internal state: energy %d", ctl.Energy)
	}
}

func TestBlockedScenario(t *testing.T) {
	// "@#" with Right 3: three bumps, then the control is swept.
	g := parseLevel(t, 2, 1, "@#", "> 3")
	p := core.NewPlayer(g)
	inv := g.StartingInventory()

	for i := 0; i < 3; i++ {
		outcome, err := inv.Activate(0, &p, g)
		if err != nil {
			t.Fatal(err)
		}
		if outcome != core.MoveBlocked {
			t.Errorf("activation %d: expected Blocked, got %s", i, outcome)
		}
		inv.Sweep()
	}
	if p.Pos != core.C(0, 0) {
		t.Errorf("player moved to %s", p.Pos)
	}
	if !inv.IsExhausted() {
		t.Error("expected inventory exhausted after three bumps")
	}
}

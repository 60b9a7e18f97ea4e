package noctrl

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	pcore "github.com/vovakirdan/noctrl/internal/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels/formats"
)

// newTestGame builds a started game over the given level texts.
func newTestGame(t *testing.T, w, h int, lvls []string, opts ...Option) *Game {
	t.Helper()
	fsys := fstest.MapFS{
		"pack.yaml": {Data: []byte(fmt.Sprintf("name: test\nwidth: %d\nheight: %d\n", w, h))},
	}
	for i, text := range lvls {
		fsys[fmt.Sprintf("level%02d.txt", i)] = &fstest.MapFile{Data: []byte(text)}
	}
	loader, err := levels.NewLoader(fsys, "test")
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	g := New(loader, opts...)
	if err := g.Start(0); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return g
}

func frame(actions ...pcore.Action) pcore.InputFrame {
	in := pcore.NewInputFrame()
	for _, a := range actions {
		in.Push(a)
	}
	return in
}

func eventKinds(res TickResult) []EventKind {
	kinds := make([]EventKind, len(res.Events))
	for i, e := range res.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestExitOnLastLevelWins(t *testing.T) {
	// "@>#" with Right 1.
	g := newTestGame(t, 3, 1, []string{"@>#\n> 1\n"})

	res := g.Step(frame(pcore.ActionSlot0))

	if !res.Has(EventLevelCleared) || !res.Has(EventWon) {
		t.Fatalf("expected LevelCleared and Won, got %v", eventKinds(res))
	}
	if res.Has(EventLost) {
		t.Error("winning must not report a loss")
	}
	if !res.State.Won || !res.State.GameOver {
		t.Errorf("expected won state, got %+v", res.State)
	}
	if res.State.Score != 1 {
		t.Errorf("expected score 1, got %d", res.State.Score)
	}
	if g.Player().Pos != core.C(1, 0) {
		t.Errorf("expected player on the exit, got %s", g.Player().Pos)
	}
}

func TestExitAdvancesToNextLevel(t *testing.T) {
	g := newTestGame(t, 4, 1, []string{
		"@>##\n> 1\n",
		"#@ >\n^ 2\n< 4\n",
	})

	res := g.Step(frame(pcore.ActionSlot0))
	if !res.Has(EventLevelCleared) {
		t.Fatalf("expected LevelCleared, got %v", eventKinds(res))
	}
	if g.State().Level != 1 {
		t.Errorf("expected level 1, got %d", g.State().Level)
	}
	if g.Player().Pos != core.C(1, 0) {
		t.Errorf("expected new start (1,0), got %s", g.Player().Pos)
	}
	slots := g.Slots()
	if slots[0] == nil || slots[0].Dir != core.DirUp || slots[0].Energy != 2 {
		t.Errorf("slot 0: expected Up 2, got %+v", slots[0])
	}
	if slots[1] == nil || slots[1].Dir != core.DirLeft || slots[1].Energy != 4 {
		t.Errorf("slot 1: expected Left 4, got %+v", slots[1])
	}
	if g.State().Moves != 0 {
		t.Errorf("move counter should reset, got %d", g.State().Moves)
	}
}

func TestOneAdvancePerExitEntry(t *testing.T) {
	// Level 1 is malformed, so the player stays on the exit of level 0.
	g := newTestGame(t, 4, 1, []string{
		"@>##\n> 3\n",
		"@\n? 1\n",
	})

	res := g.Step(frame(pcore.ActionSlot0))
	if !res.Has(EventLevelCleared) || !res.Has(EventLoadFailed) {
		t.Fatalf("expected LevelCleared and LoadFailed, got %v", eventKinds(res))
	}
	var loadErr *levels.LoadError
	if !errors.As(res.Err, &loadErr) || loadErr.Number != 1 {
		t.Fatalf("expected *LoadError for level 1, got %v", res.Err)
	}
	var synErr *formats.SyntaxError
	if !errors.As(res.Err, &synErr) {
		t.Errorf("expected wrapped *SyntaxError, got %v", res.Err)
	}
	if g.State().Level != 0 || g.Player().Pos != core.C(1, 0) {
		t.Errorf("state should be kept: level %d at %s", g.State().Level, g.Player().Pos)
	}

	// Bumping the wall while standing on the exit is not a new entry.
	res = g.Step(frame(pcore.ActionSlot0))
	if res.Has(EventLevelCleared) {
		t.Error("standing on the exit cleared the level again")
	}
	res = g.Step(pcore.NewInputFrame())
	if res.Has(EventLevelCleared) {
		t.Error("idle tick on the exit cleared the level again")
	}
	if g.State().Score != 1 {
		t.Errorf("expected one clear, got %d", g.State().Score)
	}
}

func TestBlockedUntilLost(t *testing.T) {
	// "@#" with Right 3.
	g := newTestGame(t, 2, 1, []string{"@#\n> 3\n"})

	for i := 0; i < 2; i++ {
		res := g.Step(frame(pcore.ActionSlot0))
		if res.State.GameOver {
			t.Fatalf("tick %d: lost too early", i)
		}
	}
	res := g.Step(frame(pcore.ActionSlot0))
	if !res.Has(EventLost) {
		t.Fatalf("expected Lost, got %v", eventKinds(res))
	}
	if !g.Lost() || !res.State.GameOver || res.State.Won {
		t.Errorf("expected lost state, got %+v", res.State)
	}
	if g.Player().Pos != core.C(0, 0) {
		t.Errorf("player moved to %s", g.Player().Pos)
	}
	if res.State.Moves != 3 {
		t.Errorf("expected 3 moves, got %d", res.State.Moves)
	}

	// Lost is reported once.
	if res := g.Step(frame(pcore.ActionSlot0)); res.Has(EventLost) {
		t.Error("Lost reported twice")
	}

	res = g.Step(frame(pcore.ActionRestart))
	if !res.Has(EventLevelRestarted) {
		t.Fatalf("expected LevelRestarted, got %v", eventKinds(res))
	}
	if g.Lost() {
		t.Error("restart should clear the loss")
	}
	if ctl := g.Slots()[0]; ctl == nil || ctl.Energy != 3 {
		t.Errorf("expected fresh Right 3, got %+v", ctl)
	}
}

func TestPickupRefillsSweptSlot(t *testing.T) {
	g := newTestGame(t, 4, 1, []string{"@d  \n> 1\n"}, WithPickupEnergy(7))

	res := g.Step(frame(pcore.ActionSlot0))
	if res.Has(EventLost) {
		t.Fatal("pickup in the same tick must prevent the loss")
	}
	if !res.Has(EventItemCollected) {
		t.Fatalf("expected ItemCollected, got %v", eventKinds(res))
	}
	ctl := g.Slots()[0]
	if ctl == nil || ctl.Dir != core.DirDown || ctl.Energy != 7 {
		t.Errorf("slot 0: expected Down 7, got %+v", ctl)
	}
	if len(g.Grid().Items) != 0 {
		t.Error("item should be gone from the grid")
	}
}

func TestPickupWithFullInventoryDropsItem(t *testing.T) {
	g := newTestGame(t, 4, 1, []string{"@u  \n> 5\n> 5\n> 5\n> 5\n"})

	res := g.Step(frame(pcore.ActionSlot0))
	if !res.Has(EventItemDropped) {
		t.Fatalf("expected ItemDropped, got %v", eventKinds(res))
	}
	if len(g.Grid().Items) != 0 {
		t.Error("dropped item should still be removed from the grid")
	}
	if g.Notice() == "" {
		t.Error("expected a notice about the lost item")
	}
	for i, ctl := range g.Slots() {
		if ctl == nil || ctl.Dir != core.DirRight {
			t.Errorf("slot %d changed: %+v", i, ctl)
		}
	}
}

func TestEventsProcessedInOrder(t *testing.T) {
	g := newTestGame(t, 5, 1, []string{"@   >\n> 2\n> 2\n"})

	// Restart discards the rest of the tick.
	res := g.Step(frame(pcore.ActionSlot0, pcore.ActionRestart, pcore.ActionSlot1))
	if !res.Has(EventLevelRestarted) {
		t.Fatalf("expected LevelRestarted, got %v", eventKinds(res))
	}
	if g.Player().Pos != core.C(0, 0) {
		t.Errorf("expected start position after restart, got %s", g.Player().Pos)
	}
	slots := g.Slots()
	if slots[0].Energy != 2 || slots[1].Energy != 2 {
		t.Errorf("actions after restart were processed: %+v %+v", slots[0], slots[1])
	}

	// Several activations in one tick all apply.
	g.Step(frame(pcore.ActionSlot0, pcore.ActionSlot1, pcore.ActionSlot0))
	if g.Player().Pos != core.C(3, 0) {
		t.Errorf("expected (3,0), got %s", g.Player().Pos)
	}
	if g.Slots()[0] != nil {
		t.Error("slot 0 should be swept after two uses")
	}
}

func TestPassingOverExitMidTick(t *testing.T) {
	g := newTestGame(t, 4, 1, []string{"@> #\n> 2\n< 2\n", "@>\n> 1\n"})

	// Right, Right, Left: the tick ends on the exit after moving.
	res := g.Step(frame(pcore.ActionSlot0, pcore.ActionSlot0, pcore.ActionSlot1))
	if !res.Has(EventLevelCleared) {
		t.Fatalf("expected LevelCleared, got %v", eventKinds(res))
	}

	g2 := newTestGame(t, 4, 1, []string{"@> #\n> 2\n", "@>\n> 1\n"})
	// Right twice: the tick ends past the exit.
	res = g2.Step(frame(pcore.ActionSlot0, pcore.ActionSlot0))
	if res.Has(EventLevelCleared) {
		t.Error("walking over the exit must not clear the level")
	}
}

func TestQuitStopsProcessing(t *testing.T) {
	g := newTestGame(t, 3, 1, []string{"@  \n> 2\n"})

	res := g.Step(frame(pcore.ActionQuit, pcore.ActionSlot0))
	if !res.State.Quit || !g.Quit() {
		t.Error("expected quit flag")
	}
	if g.Player().Pos != core.C(0, 0) {
		t.Errorf("actions after quit were processed: %s", g.Player().Pos)
	}

	g.Step(frame(pcore.ActionSlot0))
	if g.Player().Pos != core.C(0, 0) {
		t.Error("game kept running after quit")
	}
}

func TestAdvanceRequiresDebugFlag(t *testing.T) {
	lvls := []string{"@ \n> 1\n", "@ \n< 1\n"}

	g := newTestGame(t, 2, 1, lvls)
	g.Step(frame(pcore.ActionAdvance))
	if g.State().Level != 0 {
		t.Errorf("advance should be ignored without the debug flag")
	}

	g = newTestGame(t, 2, 1, lvls, WithAdvance(true))
	res := g.Step(frame(pcore.ActionAdvance, pcore.ActionSlot0))
	if g.State().Level != 1 {
		t.Fatalf("expected level 1, got %d", g.State().Level)
	}
	if res.State.Score != 0 {
		t.Error("skipping a level does not count as a clear")
	}
	if ctl := g.Slots()[0]; ctl == nil || ctl.Energy != 1 {
		t.Errorf("actions after advance were processed: %+v", ctl)
	}

	res = g.Step(frame(pcore.ActionAdvance))
	if !res.Has(EventWon) {
		t.Errorf("advancing past the last level should win, got %v", eventKinds(res))
	}
}

func TestOutOfBoundsFaults(t *testing.T) {
	g := newTestGame(t, 2, 1, []string{"@ \n< 2\n> 2\n"})

	res := g.Step(frame(pcore.ActionSlot0, pcore.ActionSlot1))
	if !res.Has(EventFault) {
		t.Fatalf("expected Fault, got %v", eventKinds(res))
	}
	if !errors.Is(res.Err, core.ErrOutOfBounds) || !errors.Is(g.Fault(), core.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", res.Err)
	}
	if !res.State.GameOver {
		t.Error("fault should end play")
	}
	if g.Snapshot().State != StateFaulted {
		t.Errorf("expected faulted snapshot, got %s", g.Snapshot().State)
	}
	if g.Player().Pos != core.C(0, 0) {
		t.Errorf("fault must not move the player: %s", g.Player().Pos)
	}

	g.Step(frame(pcore.ActionSlot1))
	if g.Player().Pos != core.C(0, 0) {
		t.Error("controls still work after a fault")
	}

	g.Step(frame(pcore.ActionRestart))
	if g.Fault() != nil || g.State().GameOver {
		t.Error("restart should clear the fault")
	}
}

func TestRestartAfterWinStartsOver(t *testing.T) {
	g := newTestGame(t, 2, 1, []string{"@>\n> 1\n", "@>\n> 1\n"})

	g.Step(frame(pcore.ActionSlot0))
	res := g.Step(frame(pcore.ActionSlot0))
	if !res.State.Won || res.State.Score != 2 {
		t.Fatalf("expected win with 2 clears, got %+v", res.State)
	}

	// Controls do nothing once won.
	g.Step(frame(pcore.ActionSlot0))
	if g.State().Score != 2 {
		t.Error("score changed after the win")
	}

	res = g.Step(frame(pcore.ActionRestart))
	if res.State.Won || res.State.Level != 0 || res.State.Score != 0 {
		t.Errorf("expected fresh run at level 0, got %+v", res.State)
	}
	if run := g.Run(); run.Moves != 0 || run.Cleared != 0 {
		t.Errorf("expected reset run, got %+v", run)
	}
}

func TestStartErrorKeepsState(t *testing.T) {
	g := newTestGame(t, 2, 1, []string{"@>\n> 1\n"})

	err := g.Start(5)
	if !errors.Is(err, levels.ErrLevelNotFound) {
		t.Fatalf("expected ErrLevelNotFound, got %v", err)
	}
	if g.Grid() == nil || g.State().Level != 0 {
		t.Error("failed start replaced the active level")
	}
}

func TestLevelWithoutControlsIsLost(t *testing.T) {
	g := newTestGame(t, 2, 1, []string{"@>\n"})
	if !g.Lost() || !g.State().GameOver {
		t.Error("a level with no controls starts lost")
	}
}

func TestStepBeforeStart(t *testing.T) {
	loader, err := levels.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	g := New(loader)
	res := g.Step(frame(pcore.ActionSlot0))
	if len(res.Events) != 0 || res.State.GameOver {
		t.Errorf("unstarted game should do nothing, got %+v", res)
	}
	if g.Snapshot().State != StateIdle {
		t.Errorf("expected idle snapshot, got %s", g.Snapshot().State)
	}
}

func TestDeterminism(t *testing.T) {
	loader, err := levels.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	g1 := New(loader)
	g2 := New(loader)
	if err := g1.Start(0); err != nil {
		t.Fatal(err)
	}
	if err := g2.Start(0); err != nil {
		t.Fatal(err)
	}

	script := []pcore.Action{
		pcore.ActionSlot0, pcore.ActionSlot1, pcore.ActionSlot0, pcore.ActionNone,
		pcore.ActionSlot2, pcore.ActionSlot0, pcore.ActionRestart, pcore.ActionSlot0,
	}
	for i := 0; i < 60; i++ {
		in := frame(script[i%len(script)])
		g1.Step(in)
		g2.Step(in)
	}

	if g1.Snapshot() != g2.Snapshot() {
		t.Errorf("snapshots differ:\n%+v\n%+v", g1.Snapshot(), g2.Snapshot())
	}
}

func TestBuiltinFirstLevelSolution(t *testing.T) {
	loader, err := levels.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	g := New(loader)
	if err := g.Start(0); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 11; i++ {
		g.Step(frame(pcore.ActionSlot0))
	}
	if g.State().Level != 1 || g.State().Score != 1 {
		t.Errorf("expected level 1 after eleven steps right, got %+v", g.State())
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, 5, 3, []string{"#####\n#@u>#\n#####\n> 3\n\n^ 1\n"},
		WithSlotLabels([core.SlotCount]string{"A", "S", "D", "F"}))
	scr := pcore.NewScreen(60, 12)

	g.Render(scr)
	out := scr.String()

	for _, want := range []string{"Level 0", "[A] → 3", "[S] --", "[D] ↑ 1", "@", "↑"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
	if cell := scr.GetCell(28, hudHeight+1); cell.Rune != glyphPlayer {
		t.Errorf("expected player at screen (28,%d), got %q", hudHeight+1, cell.Rune)
	}
}

func TestRenderWindowTooSmall(t *testing.T) {
	g := newTestGame(t, 5, 3, []string{"#####\n#@ >#\n#####\n> 3\n"})
	scr := pcore.NewScreen(20, 6)

	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Errorf("expected too-small overlay:\n%s", scr.String())
	}
}

func TestRenderLostOverlay(t *testing.T) {
	g := newTestGame(t, 2, 1, []string{"@>\n"})
	scr := pcore.NewScreen(60, 12)

	g.Render(scr)
	if !strings.Contains(scr.String(), "Out of controls") {
		t.Errorf("expected lost overlay:\n%s", scr.String())
	}
}

// Package noctrl runs the NoCtrl puzzle: it turns buffered input actions
// into control activations, resolves pickups and exits, and swaps levels.
package noctrl

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	pcore "github.com/vovakirdan/noctrl/internal/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels"
)

// LevelLoader loads a fresh grid for a level number.
// *levels.Loader is the production implementation.
type LevelLoader interface {
	Load(number int) (*core.Grid, error)
}

// Game is one player's session over a level pack.
// It is not safe for concurrent use; the UI owns it and calls Step from a
// single update loop.
type Game struct {
	loader       LevelLoader
	logger       *log.Logger
	pickupEnergy int
	allowAdvance bool
	slotLabels   [core.SlotCount]string

	tick       uint64
	startLevel int // First level of the run, used by restart after a win
	level      int
	grid       *core.Grid
	player     core.Player
	inv        core.Inventory

	moves      int // Activations on the current level
	totalMoves int // Activations over the whole run
	cleared    int // Levels cleared this run

	lost    bool
	won     bool
	quit    bool
	faulted bool
	fault   error
	notice  string // Status line message, cleared by the next input
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for load failures, faults and level clears.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithPickupEnergy sets the energy of controls created from collected items.
func WithPickupEnergy(energy int) Option {
	return func(g *Game) {
		if energy > 0 {
			g.pickupEnergy = energy
		}
	}
}

// WithAdvance enables the debug action that skips to the next level.
func WithAdvance(enabled bool) Option {
	return func(g *Game) {
		g.allowAdvance = enabled
	}
}

// WithSlotLabels sets the key names shown next to each control slot.
func WithSlotLabels(labels [core.SlotCount]string) Option {
	return func(g *Game) {
		g.slotLabels = labels
	}
}

// New creates a game over the given levels. Call Start before Step.
func New(loader LevelLoader, opts ...Option) *Game {
	g := &Game{
		loader:       loader,
		logger:       log.New(io.Discard),
		pickupEnergy: core.DefaultPickupEnergy,
		slotLabels:   [core.SlotCount]string{"H", "J", "K", "L"},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start begins a new run at the given level number.
// On error the game keeps whatever state it had before.
func (g *Game) Start(number int) error {
	grid, err := g.loader.Load(number)
	if err != nil {
		g.logger.Error("start failed", "level", number, "err", err)
		return err
	}
	g.startLevel = number
	g.cleared = 0
	g.totalMoves = 0
	g.quit = false
	g.install(grid)
	g.logger.Debug("run started", "level", number, "title", grid.Title)
	return nil
}

// install swaps in a freshly loaded grid and resets the per-level state.
func (g *Game) install(grid *core.Grid) {
	g.grid = grid
	g.level = grid.Number
	g.player = core.NewPlayer(grid)
	g.inv = grid.StartingInventory()
	g.moves = 0
	g.won = false
	g.faulted = false
	g.fault = nil
	g.lost = g.inv.IsExhausted()
}

// Step advances the game by one tick, processing the buffered actions in order.
func (g *Game) Step(in pcore.InputFrame) TickResult {
	g.tick++
	res := TickResult{}

	if g.grid == nil || g.quit {
		res.State = g.State()
		return res
	}

	if in.Len() > 0 {
		g.notice = ""
	}
	wasLost := g.lost
	moved := false

events:
	for _, a := range in.Actions {
		switch a {
		case pcore.ActionQuit:
			g.quit = true
			break events

		case pcore.ActionRestart:
			if g.restart(&res) {
				moved = false
			}
			break events

		case pcore.ActionAdvance:
			if !g.allowAdvance || g.won {
				continue
			}
			if g.loadNext(&res) {
				moved = false
			}
			break events

		default:
			slot, ok := a.Slot()
			if !ok || g.won || g.faulted {
				continue
			}
			outcome, err := g.inv.Activate(slot, &g.player, g.grid)
			if err != nil {
				g.setFault(err, &res)
				break events
			}
			if outcome != core.MoveNone {
				g.moves++
				g.totalMoves++
			}
			if outcome.Moved() {
				moved = true
			}
		}
	}

	if !g.won && !g.faulted {
		g.inv.Sweep()
		g.drainPending(&res)

		if moved && g.grid.At(g.player.Pos) == core.TileExit {
			g.clearLevel(&res)
		}
	}

	if !g.won && !g.faulted {
		g.lost = g.inv.IsExhausted()
		if g.lost && !wasLost {
			res.add(Event{Kind: EventLost, Level: g.level})
			g.logger.Debug("out of controls", "level", g.level, "moves", g.moves)
		}
	}

	res.State = g.State()
	return res
}

// drainPending turns collected items into controls in pickup order.
func (g *Game) drainPending(res *TickResult) {
	for _, item := range g.player.DrainPending() {
		slot, err := g.inv.Add(item, g.pickupEnergy)
		if errors.Is(err, core.ErrInventoryFull) {
			res.add(Event{Kind: EventItemDropped, Level: g.level, Item: item, Slot: -1})
			g.notice = fmt.Sprintf("No free slot: %s lost", item)
			continue
		}
		res.add(Event{Kind: EventItemCollected, Level: g.level, Item: item, Slot: slot})
	}
}

// clearLevel records the clear and moves on to the next level.
func (g *Game) clearLevel(res *TickResult) {
	g.cleared++
	res.add(Event{Kind: EventLevelCleared, Level: g.level, Moves: g.moves})
	g.logger.Debug("level cleared", "level", g.level, "moves", g.moves)
	g.loadNext(res)
}

// loadNext loads the following level. Running past the last level wins.
// Returns true if a new grid was installed.
func (g *Game) loadNext(res *TickResult) bool {
	next := g.level + 1
	grid, err := g.loader.Load(next)
	switch {
	case err == nil:
		g.install(grid)
		return true
	case errors.Is(err, levels.ErrLevelNotFound):
		g.won = true
		g.lost = false
		res.add(Event{Kind: EventWon, Level: g.level})
		g.logger.Info("pack complete", "cleared", g.cleared, "moves", g.totalMoves)
		return false
	default:
		g.loadFailed(next, err, res)
		return false
	}
}

// restart reloads the current level, or the first level of the run after a win.
// Returns true if a new grid was installed.
func (g *Game) restart(res *TickResult) bool {
	number := g.level
	if g.won {
		number = g.startLevel
	}
	grid, err := g.loader.Load(number)
	if err != nil {
		g.loadFailed(number, err, res)
		return false
	}
	if g.won {
		g.cleared = 0
		g.totalMoves = 0
	}
	g.install(grid)
	res.add(Event{Kind: EventLevelRestarted, Level: number})
	return true
}

// loadFailed reports a load error and keeps the current state.
func (g *Game) loadFailed(number int, err error, res *TickResult) {
	res.Err = err
	res.add(Event{Kind: EventLoadFailed, Level: number, Err: err})
	g.notice = fmt.Sprintf("Level %d failed to load", number)
	g.logger.Error("level load failed", "level", number, "err", err)
}

// setFault stops play after a step left the grid.
func (g *Game) setFault(err error, res *TickResult) {
	g.faulted = true
	g.fault = err
	res.Err = err
	res.add(Event{Kind: EventFault, Level: g.level, Err: err})
	g.logger.Error("level fault", "level", g.level, "err", err)
}

// State returns the coarse game status.
func (g *Game) State() pcore.GameState {
	return pcore.GameState{
		Level:    g.level,
		Score:    g.cleared,
		Moves:    g.moves,
		GameOver: g.lost || g.won || g.faulted,
		Won:      g.won,
		Quit:     g.quit,
	}
}

// Grid returns the active level grid. It is nil before Start.
func (g *Game) Grid() *core.Grid {
	return g.grid
}

// Player returns the player's current position and pending items.
func (g *Game) Player() core.Player {
	return g.player
}

// Slots returns a copy of the control inventory.
func (g *Game) Slots() [core.SlotCount]*core.Control {
	return g.inv.Slots()
}

// Lost returns true if every control is gone.
func (g *Game) Lost() bool { return g.lost }

// Won returns true if the last level of the pack was cleared.
func (g *Game) Won() bool { return g.won }

// Quit returns true if the player asked to leave.
func (g *Game) Quit() bool { return g.quit }

// Fault returns the error that stopped play, or nil.
func (g *Game) Fault() error { return g.fault }

// Notice returns the current status line message.
func (g *Game) Notice() string { return g.notice }

// Run summarizes the current run for the records store.
func (g *Game) Run() Run {
	return Run{
		StartLevel: g.startLevel,
		Level:      g.level,
		Cleared:    g.cleared,
		Moves:      g.totalMoves,
		Won:        g.won,
	}
}

// Run is the outcome of one play session.
type Run struct {
	StartLevel int
	Level      int // Level reached
	Cleared    int
	Moves      int
	Won        bool
}

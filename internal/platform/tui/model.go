package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/noctrl/internal/config"
	"github.com/vovakirdan/noctrl/internal/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl"
	"github.com/vovakirdan/noctrl/internal/storage"
)

// Options configures the game screens of one local or SSH session.
type Options struct {
	Config  config.NoCtrlConfig
	Runtime core.RuntimeConfig
	Player  string // Name stored with records
	Theme   Theme
	Logger  *log.Logger
}

// logger returns the configured logger or one that discards everything.
func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// NewGame creates a game wired to the session's rules, keys and logger.
func NewGame(loader noctrl.LevelLoader, opts Options) *noctrl.Game {
	keys := NewKeyMap(opts.Config.Keys, opts.Config.Debug.AllowAdvance)
	return noctrl.New(loader,
		noctrl.WithLogger(opts.logger()),
		noctrl.WithPickupEnergy(opts.Config.Rules.PickupEnergy),
		noctrl.WithAdvance(opts.Config.Debug.AllowAdvance),
		noctrl.WithSlotLabels(keys.SlotLabels()),
	)
}

// Model is the Bubble Tea model for playing a level pack.
type Model struct {
	game       *noctrl.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	pack       string
	player     string
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	standalone bool // Quit ends the program instead of returning to the menu
	quitting   bool
	runSaved   bool // Whether the current run has been recorded
}

// NewModel creates a model for a game that has already been started.
// store may be nil, in which case nothing is recorded.
func NewModel(game *noctrl.Game, store *storage.Store, pack string, opts Options) Model {
	m := Model{
		game:       game,
		screen:     core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		store:      store,
		logger:     opts.logger(),
		pack:       pack,
		player:     opts.Player,
		config:     opts.Runtime,
		keys:       NewKeyMap(opts.Config.Keys, opts.Config.Debug.AllowAdvance),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		gameState:  game.State(),
	}
	m.help.Width = opts.Runtime.ScreenW
	m.fitScreen()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey buffers game actions until the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if action := m.keys.Action(msg); action != core.ActionNone {
		m.inputFrame.Push(action)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.fitScreen()
	}

	return m, nil
}

// handleResize processes window resize events. Game state is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.fitScreen()
	return m, nil
}

// fitScreen sizes the screen buffer to the window minus the help lines.
func (m *Model) fitScreen() {
	helpH := lipgloss.Height(m.help.View(m.keys))
	m.screen.Resize(m.config.ScreenW, max(1, m.config.ScreenH-helpH))
}

// handleTick runs one simulation step and records its outcome.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	for _, e := range result.Events {
		switch e.Kind {
		case noctrl.EventLevelCleared:
			m.saveClear(e)
		case noctrl.EventWon:
			m.saveRun()
		case noctrl.EventLevelRestarted:
			// Restarting after a win begins a new run.
			m.runSaved = false
		}
	}

	if m.gameState.Quit {
		m.saveRun()
		m.quitting = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}

	return m, tickCmd(m.config.TickRate)
}

// saveClear records a cleared level.
func (m *Model) saveClear(e noctrl.Event) {
	if m.store == nil {
		return
	}
	_, err := m.store.SaveClear(storage.ClearEntry{
		Pack:   m.pack,
		Level:  e.Level,
		Player: m.player,
		Moves:  e.Moves,
	})
	if err != nil {
		m.logger.Warn("could not save level clear", "level", e.Level, "err", err)
	}
}

// saveRun records the current run once. Runs without any move are skipped.
func (m *Model) saveRun() {
	if m.store == nil || m.runSaved {
		return
	}
	run := m.game.Run()
	if run.Moves == 0 && run.Cleared == 0 {
		return
	}
	m.runSaved = true
	_, err := m.store.SaveRun(storage.RunEntry{
		Pack:       m.pack,
		Player:     m.player,
		StartLevel: run.StartLevel,
		Level:      run.Level,
		Cleared:    run.Cleared,
		Moves:      run.Moves,
		Won:        run.Won,
	})
	if err != nil {
		m.logger.Warn("could not save run", "err", err)
	}
}

// saveScreenshot saves the current screen to a text file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".noctrl", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("level%02d_%s.txt", m.gameState.Level, timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "path", path, "err", err)
		return
	}
	m.logger.Debug("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Done returns true once the player has quit the game.
func (m Model) Done() bool {
	return m.quitting
}

// Run plays an already started game as its own program.
func Run(game *noctrl.Game, store *storage.Store, pack string, opts Options) error {
	model := NewModel(game, store, pack, opts)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

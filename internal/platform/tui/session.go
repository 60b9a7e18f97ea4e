package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels"
	"github.com/vovakirdan/noctrl/internal/storage"
)

// sessionScreen is the screen a session currently shows.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenRecords
)

// SessionModel manages the full session flow: menu -> game -> menu,
// with the records screen reachable from the menu.
// It is the top-level model of local and SSH sessions.
type SessionModel struct {
	loader   *levels.Loader
	store    *storage.Store
	opts     Options
	screen   sessionScreen
	menu     MenuModel
	game     Model
	records  RecordsModel
	quitting bool
}

// NewSessionModel creates a session over a level pack. store may be nil.
func NewSessionModel(loader *levels.Loader, store *storage.Store, opts Options) SessionModel {
	return SessionModel{
		loader: loader,
		store:  store,
		opts:   opts,
		menu:   NewMenuModel(loader, store, opts.Runtime.ScreenW, opts.Runtime.ScreenH, opts.Theme),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenRecords:
		return m.updateRecords(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsRecords() {
		m.menu.ClearSelection("")
		m.records = NewRecordsModel(m.store, m.loader.Pack(),
			m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH, m.opts.Theme)
		m.screen = screenRecords
		return m, m.records.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		game := NewGame(m.loader, m.opts)
		if err := game.Start(selected.Number); err != nil {
			m.menu.ClearSelection("Could not load level: " + err.Error())
			return m, nil
		}
		m.opts.logger().Info("run started", "player", m.opts.Player, "level", selected.Number)

		m.game = NewModel(game, m.store, m.loader.Pack().Name, m.opts)
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.Done() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateRecords handles updates when in records mode.
func (m SessionModel) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.records.Update(msg)
	if recordsModel, ok := newModel.(RecordsModel); ok {
		m.records = recordsModel
	}

	if m.records.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.records.IsGoingBack() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// backToMenu rebuilds the menu so it shows fresh records.
func (m *SessionModel) backToMenu() {
	m.menu = NewMenuModel(m.loader, m.store, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH, m.opts.Theme)
	m.screen = screenMenu
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenRecords:
		return m.records.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs a local session with the level picker.
func RunSession(loader *levels.Loader, store *storage.Store, opts Options) error {
	p := tea.NewProgram(
		NewSessionModel(loader, store, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels"
	"github.com/vovakirdan/noctrl/internal/storage"
)

// Records layout constants
const (
	maxRuns       = 100 // Max runs to load
	tableMinWidth = 50  // Below this the date column is dropped
)

// RecordsView selects which table the records screen shows.
type RecordsView int

const (
	RecordsRuns RecordsView = iota
	RecordsLevels
)

// String returns the tab title of the view.
func (v RecordsView) String() string {
	if v == RecordsLevels {
		return "Best clears"
	}
	return "Top runs"
}

// RecordsKeyMap defines the key bindings for the records screen.
type RecordsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "switch table"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "previous table"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RecordsModel is the Bubble Tea model for the records screen of one pack.
type RecordsModel struct {
	store      *storage.Store
	pack       levels.Pack
	view       RecordsView
	runs       []storage.RunEntry
	clears     []storage.ClearEntry
	stats      *storage.PackStats
	loadErr    error
	table      table.Model
	help       help.Model
	keys       RecordsKeyMap
	theme      Theme
	width      int
	height     int
	standalone bool // Back ends the program instead of returning to the menu
	quitting   bool
	goingBack  bool
}

// NewRecordsModel creates a records screen. store may be nil.
func NewRecordsModel(store *storage.Store, pack levels.Pack, width, height int, theme Theme) RecordsModel {
	h := help.New()
	h.Width = width

	m := RecordsModel{
		store:  store,
		pack:   pack,
		keys:   DefaultRecordsKeyMap(),
		help:   h,
		theme:  theme,
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load reads runs, best clears and stats from the store.
func (m *RecordsModel) load() {
	if m.store == nil {
		return
	}
	var err error
	if m.runs, err = m.store.TopRuns(m.pack.Name, maxRuns); err != nil {
		m.loadErr = err
		return
	}
	if m.clears, err = m.store.BestClears(m.pack.Name); err != nil {
		m.loadErr = err
		return
	}
	if m.stats, err = m.store.GetPackStats(m.pack.Name); err != nil {
		m.loadErr = err
	}
}

// columns returns the table columns of the current view.
func (m RecordsModel) columns() []table.Column {
	var cols []table.Column
	if m.view == RecordsLevels {
		cols = []table.Column{
			{Title: "Level", Width: 6},
			{Title: "Title", Width: 18},
			{Title: "Moves", Width: 6},
			{Title: "Player", Width: 12},
		}
	} else {
		cols = []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Player", Width: 12},
			{Title: "Cleared", Width: 8},
			{Title: "Moves", Width: 6},
			{Title: "Result", Width: 10},
		}
	}
	if m.showDate() {
		cols = append(cols, table.Column{Title: "Date", Width: 13})
	}
	return cols
}

// showDate reports whether the table is wide enough for the date column.
func (m RecordsModel) showDate() bool {
	return m.width-8 >= tableMinWidth // Border, padding and margins
}

// createTable creates a new table for the current view.
func (m RecordsModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)), // Leave room for title, tabs, stats and help
	)

	s := table.DefaultStyles()
	s.Header = m.theme.TableHeader
	s.Selected = m.theme.TableCursor
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table with the current view's records.
func (m *RecordsModel) updateTableRows() {
	showDate := m.showDate()

	var rows []table.Row
	if m.view == RecordsLevels {
		rows = make([]table.Row, len(m.clears))
		for i, c := range m.clears {
			rows[i] = table.Row{
				fmt.Sprintf("%d", c.Level),
				m.pack.Title(c.Level),
				fmt.Sprintf("%d", c.Moves),
				playerName(c.Player),
			}
			if showDate {
				rows[i] = append(rows[i], c.CreatedAt.Format("Jan 02 15:04"))
			}
		}
	} else {
		rows = make([]table.Row, len(m.runs))
		for i, r := range m.runs {
			result := fmt.Sprintf("level %d", r.Level)
			if r.Won {
				result = "complete"
			}
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				playerName(r.Player),
				fmt.Sprintf("%d", r.Cleared),
				fmt.Sprintf("%d", r.Moves),
				result,
			}
			if showDate {
				rows[i] = append(rows[i], r.CreatedAt.Format("Jan 02 15:04"))
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// playerName shows anonymous records with a placeholder.
func playerName(name string) string {
	if name == "" {
		return "-"
	}
	return name
}

// switchView changes the active table and rebuilds it.
func (m *RecordsModel) switchView(v RecordsView) {
	m.view = v
	m.table = m.createTable()
	m.updateTableRows()
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records screen.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.PrevTab):
			if m.view == RecordsRuns {
				m.switchView(RecordsLevels)
			} else {
				m.switchView(RecordsRuns)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.updateTableRows()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the records screen.
func (m RecordsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("RECORDS - %s", m.pack.Name)
	b.WriteString(m.theme.RecordsTitle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tabs := make([]string, 0, 2)
	for _, v := range []RecordsView{RecordsRuns, RecordsLevels} {
		if v == m.view {
			tabs = append(tabs, m.theme.TabActive.Render(v.String()))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(v.String()))
		}
	}
	b.WriteString(centerText(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.theme.TableBorder.Render(m.renderTableContent()), m.width))
	b.WriteString("\n")

	if m.stats != nil && m.stats.Runs > 0 {
		summary := fmt.Sprintf("Runs: %d  Completed: %d  Moves: %d  Last played: %s",
			m.stats.Runs, m.stats.Wins, m.stats.TotalMoves, m.stats.LastPlayed.Format("Jan 02 15:04"))
		b.WriteString(centerText(m.theme.MenuDescription.Render(summary), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.HelpText.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m RecordsModel) renderTableContent() string {
	switch {
	case m.store == nil:
		return m.theme.EmptyText.Render("Records are unavailable.\nThe database could not be opened.")
	case m.loadErr != nil:
		return m.theme.EmptyText.Render("Could not read records:\n" + m.loadErr.Error())
	case m.view == RecordsRuns && len(m.runs) == 0,
		m.view == RecordsLevels && len(m.clears) == 0:
		return m.theme.EmptyText.Render("No records yet.\nClear a level to set one!")
	}
	return m.table.View()
}

// IsGoingBack returns true if the player wants to go back to the menu.
func (m RecordsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the player wants to quit entirely.
func (m RecordsModel) IsQuitting() bool {
	return m.quitting
}

// RunRecords runs the records screen as its own program.
func RunRecords(store *storage.Store, pack levels.Pack, width, height int, theme Theme) error {
	model := NewRecordsModel(store, pack, width, height, theme)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

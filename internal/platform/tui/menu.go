package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/noctrl/internal/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels"
	"github.com/vovakirdan/noctrl/internal/storage"
)

// LevelPack is the level source the picker lists.
type LevelPack interface {
	Pack() levels.Pack
	Count() int
}

// LevelInfo describes one level in the picker.
type LevelInfo struct {
	Number  int
	Title   string
	Best    int // Fewest moves, valid if Cleared
	Cleared bool
}

// MenuModel is the level picker shown at the start of a session.
type MenuModel struct {
	pack         string
	items        []LevelInfo
	cursor       int
	scrollOffset int
	width        int
	height       int
	theme        Theme
	notice       string
	selected     *LevelInfo
	openRecords  bool
	quitting     bool
}

// NewMenuModel creates a level picker for the pack. store may be nil.
// The cursor starts on the first level after the highest one cleared.
func NewMenuModel(src LevelPack, store *storage.Store, width, height int, theme Theme) MenuModel {
	pack := src.Pack()
	count := src.Count()

	best := make(map[int]int)
	highest := -1
	if store != nil {
		if clears, err := store.BestClears(pack.Name); err == nil {
			for _, c := range clears {
				best[c.Level] = c.Moves
			}
		}
		if h, err := store.HighestLevel(pack.Name); err == nil {
			highest = h
		}
	}

	items := make([]LevelInfo, count)
	for n := range count {
		moves, ok := best[n]
		items[n] = LevelInfo{
			Number:  n,
			Title:   pack.Title(n),
			Best:    moves,
			Cleared: ok,
		}
	}

	m := MenuModel{
		pack:   pack.Name,
		items:  items,
		width:  width,
		height: height,
		theme:  theme,
	}
	if count > 0 {
		m.cursor = core.Clamp(highest+1, 0, count-1)
	}
	m.updateScroll()
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.updateScroll()
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionRecords:
		m.openRecords = true
	}

	return m, nil
}

// visibleItems returns how many levels fit between header and footer.
func (m MenuModel) visibleItems() int {
	return max(3, m.height-10)
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *MenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("N O C T R L"), m.width))
	b.WriteString("\n\n")

	subtitle := fmt.Sprintf("%s: select a level", m.pack)
	b.WriteString(centerText(m.theme.MenuDescription.Render(subtitle), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("No levels found"), m.width))
		b.WriteString("\n")
	}

	end := min(m.scrollOffset+m.visibleItems(), len(m.items))
	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	for i := m.scrollOffset; i < end; i++ {
		item := m.items[i]
		cursor := "  "
		style := m.theme.MenuItemNormal
		if item.Cleared {
			style = m.theme.MenuItemCleared
		}
		if i == m.cursor {
			cursor = "> "
			style = m.theme.MenuItemActive
		}

		line := fmt.Sprintf("%s%2d. %-24s", cursor, item.Number, item.Title)
		if item.Cleared {
			line += fmt.Sprintf(" best %d", item.Best)
		}
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}
	if end < len(m.items) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.theme.MenuItemActive.Render(m.notice), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Records  |  Q: Quit"
	b.WriteString(centerText(m.theme.MenuControls.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen level, or nil if none was chosen yet.
func (m MenuModel) Selected() *LevelInfo {
	return m.selected
}

// ClearSelection lets the player choose again, showing notice if not empty.
func (m *MenuModel) ClearSelection(notice string) {
	m.selected = nil
	m.openRecords = false
	m.notice = notice
}

// WantsRecords returns true if the player asked for the records screen.
func (m MenuModel) WantsRecords() bool {
	return m.openRecords
}

// IsQuitting returns true if the player asked to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

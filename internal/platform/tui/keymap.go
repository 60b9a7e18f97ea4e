package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/noctrl/internal/config"
	"github.com/vovakirdan/noctrl/internal/core"
	ncore "github.com/vovakirdan/noctrl/internal/games/noctrl/core"
)

// KeyMap translates Bubble Tea key messages to game actions.
// Bindings come from the keys section of the configuration.
type KeyMap struct {
	Slots      [ncore.SlotCount]key.Binding
	Restart    key.Binding
	Advance    key.Binding
	Quit       key.Binding
	Screenshot key.Binding
	Help       key.Binding
}

// NewKeyMap builds the game key bindings from configuration.
// The advance binding is disabled unless allowAdvance is set.
func NewKeyMap(keys config.KeysConfig, allowAdvance bool) KeyMap {
	km := KeyMap{
		Restart: binding(keys.Restart, "restart"),
		Advance: binding(keys.Advance, "skip level"),
		Quit:    binding(keys.Quit, "quit"),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
	}
	for i := range km.Slots {
		var slotKeys []string
		if i < len(keys.Slots) {
			slotKeys = []string{keys.Slots[i]}
		}
		km.Slots[i] = binding(slotKeys, fmt.Sprintf("slot %d", i+1))
	}
	km.Advance.SetEnabled(allowAdvance && len(keys.Advance) > 0)
	return km
}

// binding creates a key binding whose help shows every key joined by "/".
func binding(keys []string, desc string) key.Binding {
	b := key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
	if len(keys) == 0 {
		b.SetEnabled(false)
	}
	return b
}

// Action maps a key message to a game action.
// Returns ActionNone for keys without a game binding.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Advance):
		return core.ActionAdvance
	}
	for i, b := range k.Slots {
		if key.Matches(msg, b) {
			return core.SlotActions[i]
		}
	}
	return core.ActionNone
}

// SlotLabels returns the key names shown next to each control slot.
func (k KeyMap) SlotLabels() [ncore.SlotCount]string {
	var labels [ncore.SlotCount]string
	for i, b := range k.Slots {
		keys := b.Keys()
		if len(keys) == 0 {
			labels[i] = "-"
			continue
		}
		labels[i] = strings.ToUpper(keys[0])
	}
	return labels
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Slots[:],
		{k.Restart, k.Advance, k.Screenshot},
		{k.Quit, k.Help},
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionRecords
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionRecords
	}
	return MenuActionNone
}

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings of the terminal UI. Tab switching and
// quitting only apply while no dialog or input has focus.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// Tab switching.
	NextTab            key.Binding
	PrevTab            key.Binding
	TabLocations       key.Binding
	TabTransportations key.Binding
	TabRoutes          key.Binding

	// Grid paging.
	NextPage key.Binding
	PrevPage key.Binding
	PageSize key.Binding
	Refresh  key.Binding

	// Mutations.
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Dialogs and inputs.
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding // Next choice of a closed-choice field.
	CycleBack key.Binding
	Lookup    key.Binding // Open the code lookup of the focused field.
	Submit    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding

	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous tab"),
	),
	TabLocations: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "locations"),
	),
	TabTransportations: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "transportations"),
	),
	TabRoutes: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "routes"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("]", "pgdown"),
		key.WithHelp("]", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("[", "pgup"),
		key.WithHelp("[", "previous page"),
	),
	PageSize: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "page size"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("ctrl+right"),
		key.WithHelp("C-→", "next choice"),
	),
	CycleBack: key.NewBinding(
		key.WithKeys("ctrl+left"),
		key.WithHelp("C-←", "previous choice"),
	),
	Lookup: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "lookup"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "save"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

// helpLine renders bindings as "k desc  k desc".
func helpLine(bindings ...key.Binding) string {
	line := ""
	for _, binding := range bindings {
		h := binding.Help()
		if h.Key == "" {
			continue
		}
		if line != "" {
			line += "  "
		}
		line += h.Key + " " + h.Desc
	}
	return line
}

package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mesh-intelligence/ttadmin/internal/lookup"
)

const (
	// dropdownRows is how many options are visible at once.
	dropdownRows = 8
	// nearEndThreshold is how close to the end of the loaded options the
	// window may scroll before the next page is requested.
	nearEndThreshold = 2
)

// lookupLoadedMsg reports that a LoadMore call on one of owner's loaders
// settled.
type lookupLoadedMsg struct {
	owner int
	err   error
}

// loadMore returns a tea.Cmd that fetches the next page of loader.
func loadMore(ctx context.Context, owner int, loader *lookup.Loader[string]) tea.Cmd {
	return func() tea.Msg {
		return lookupLoadedMsg{owner: owner, err: loader.LoadMore(ctx)}
	}
}

// dropdown is a scrollable option list over an incremental loader. It
// captures keyboard input while open: up/down to navigate, enter to
// choose, escape to dismiss. Scrolling near the end of the loaded options
// asks for the next page.
type dropdown struct {
	loader *lookup.Loader[string]
	cursor int
	offset int
}

func newDropdown(loader *lookup.Loader[string]) *dropdown {
	return &dropdown{loader: loader}
}

func (d *dropdown) options() []string {
	return d.loader.Snapshot().Options
}

func (d *dropdown) moveUp() {
	if d.cursor > 0 {
		d.cursor--
	}
	if d.cursor < d.offset {
		d.offset = d.cursor
	}
}

func (d *dropdown) moveDown() {
	if d.cursor < len(d.options())-1 {
		d.cursor++
	}
	if d.cursor >= d.offset+dropdownRows {
		d.offset = d.cursor - dropdownRows + 1
	}
}

// selected returns the highlighted option.
func (d *dropdown) selected() (string, bool) {
	options := d.options()
	if d.cursor < 0 || d.cursor >= len(options) {
		return "", false
	}
	return options[d.cursor], true
}

// wantsMore reports whether the visible window is close enough to the end
// of the loaded options to request the next page. An empty list always
// wants more while the loader has more.
func (d *dropdown) wantsMore() bool {
	snap := d.loader.Snapshot()
	if !snap.HasMore || snap.Loading {
		return false
	}
	return lookup.NearEnd(d.offset, dropdownRows, len(snap.Options), nearEndThreshold)
}

// render produces the dropdown lines for overlay splicing. Every line has
// the same visible width.
func (d *dropdown) render(theme Theme) []string {
	snap := d.loader.Snapshot()
	labels := make([]string, 0, dropdownRows+1)
	end := min(d.offset+dropdownRows, len(snap.Options))
	for i := d.offset; i < end; i++ {
		labels = append(labels, snap.Options[i])
	}
	status := ""
	switch {
	case snap.Loading:
		status = "loading…"
	case len(snap.Options) == 0:
		status = "no codes"
	case snap.HasMore:
		status = "more…"
	}

	innerWidth := ansi.StringWidth(status)
	for _, label := range labels {
		innerWidth = max(innerWidth, ansi.StringWidth(label)+2)
	}

	background := lipgloss.NewStyle().
		Foreground(theme.PopupForeground).
		Background(theme.PopupBackground)
	highlighted := lipgloss.NewStyle().
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground)
	faint := background.Foreground(theme.FaintText)

	pad := func(s string) string {
		return " " + s + strings.Repeat(" ", max(innerWidth-ansi.StringWidth(s), 0)) + " "
	}

	var lines []string
	for i, label := range labels {
		if d.offset+i == d.cursor {
			lines = append(lines, highlighted.Render(pad("> "+label)))
		} else {
			lines = append(lines, background.Render(pad("  "+label)))
		}
	}
	if status != "" {
		lines = append(lines, faint.Render(pad(status)))
	}
	return lines
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/ttadmin/internal/crud"
	"github.com/mesh-intelligence/ttadmin/internal/lookup"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// gridMsg reports that a fetch, save or delete of owner's grid settled.
// gen is the dialog generation current when the call started.
type gridMsg struct {
	owner int
	op    gridOp
	gen   uint64
	err   error
}

type gridOp int

const (
	opFetch gridOp = iota
	opSave
	opDelete
)

// grid renders one crud.Surface: a table of the loaded page, the add and
// edit form, and the delete confirmation. Every backend call runs as a
// tea.Cmd and reports back with a gridMsg.
type grid[T, F any, ID comparable] struct {
	owner    int
	title    string
	ctx      context.Context
	coord    *crud.Coordinator[T, F, ID]
	surface  *crud.Surface[T, F, ID]
	identity func(T) ID
	lookups  map[int]*lookup.Loader[string]
	logger   *slog.Logger
	keys     KeyMap
	theme    Theme

	table   table.Model
	form    *form[F]
	pending int
	busy    bool // a save or delete is in flight
	width   int
	height  int
}

// newGrid builds the grid of one resource. newLoader creates the code
// loader behind each lookup field.
func newGrid[T, F any, ID comparable](
	ctx context.Context,
	owner int,
	title, label string,
	coord *crud.Coordinator[T, F, ID],
	projector crud.Projector[T, F, ID],
	columns []crud.Column[T],
	fields []crud.Field[F],
	newLoader func() *lookup.Loader[string],
	logger *slog.Logger,
) *grid[T, F, ID] {
	g := &grid[T, F, ID]{
		owner:    owner,
		title:    title,
		ctx:      ctx,
		coord:    coord,
		surface:  crud.NewSurface(label, coord, projector, columns, fields),
		identity: projector.IdentityOf,
		lookups:  map[int]*lookup.Loader[string]{},
		logger:   logger,
		keys:     DefaultKeyMap,
		theme:    DefaultTheme,
	}
	for i, field := range fields {
		if field.Lookup && newLoader != nil {
			g.lookups[i] = newLoader()
		}
	}

	tableColumns := make([]table.Column, len(columns))
	for i, col := range columns {
		tableColumns[i] = table.Column{Title: col.Title, Width: col.Width}
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(g.theme.BorderColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(g.theme.SelectedForeground).
		Background(g.theme.SelectedBackground).
		Bold(false)
	g.table = table.New(
		table.WithColumns(tableColumns),
		table.WithFocused(true),
		table.WithHeight(coord.Snapshot().Window.Size+1),
		table.WithStyles(styles),
	)
	return g
}

func (g *grid[T, F, ID]) name() string { return g.title }

func (g *grid[T, F, ID]) init() tea.Cmd {
	return g.run(opFetch, g.coord.Load)
}

// run counts the call as pending and performs it off the update loop.
func (g *grid[T, F, ID]) run(op gridOp, call func(context.Context) error) tea.Cmd {
	g.pending++
	ctx, owner, gen := g.ctx, g.owner, g.surface.Dialog().Generation
	return func() tea.Msg {
		return gridMsg{owner: owner, op: op, gen: gen, err: call(ctx)}
	}
}

func (g *grid[T, F, ID]) setWindow(w types.PageWindow) tea.Cmd {
	return g.run(opFetch, func(ctx context.Context) error {
		return g.surface.SetWindow(ctx, w)
	})
}

// capturing reports whether a dialog owns the keyboard.
func (g *grid[T, F, ID]) capturing() bool {
	return g.surface.Dialog().IsOpen()
}

func (g *grid[T, F, ID]) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.width, g.height = msg.Width, msg.Height
		g.table.SetWidth(msg.Width)
		g.resizeTable()
		return nil

	case gridMsg:
		if msg.owner != g.owner {
			return nil
		}
		g.pending--
		g.settled(msg)
		return nil

	case lookupLoadedMsg:
		if msg.owner != g.owner || g.form == nil || g.form.dropdown == nil {
			return nil
		}
		if msg.err == nil && g.form.dropdown.wantsMore() {
			return loadMore(g.ctx, g.owner, g.form.dropdown.loader)
		}
		return nil

	case tea.KeyMsg:
		switch g.surface.Dialog().Kind {
		case crud.DialogAdding, crud.DialogEditing:
			return g.updateForm(msg)
		case crud.DialogConfirmDelete:
			return g.updateConfirm(msg)
		}
		return g.updateTable(msg)
	}
	return nil
}

// settled applies the outcome of a backend call. Failures have already
// been reported to the notification sink by the client. A save only
// touches the form of the dialog it was started from.
func (g *grid[T, F, ID]) settled(msg gridMsg) {
	if msg.err != nil {
		g.logger.Debug("grid call failed", "grid", g.title, "op", msg.op, "error", msg.err)
	}
	switch msg.op {
	case opSave:
		g.busy = false
		if msg.gen != g.surface.Dialog().Generation {
			break
		}
		switch {
		case msg.err != nil && g.form != nil:
			g.form.err = errorText(msg.err)
		case msg.err == nil:
			g.form = nil
		}
	case opDelete:
		// On failure the confirmation stays open for a retry or cancel.
		g.busy = false
	}
	g.syncRows()
}

func (g *grid[T, F, ID]) updateTable(msg tea.KeyMsg) tea.Cmd {
	snap := g.surface.Snapshot()
	w := snap.Window
	switch {
	case key.Matches(msg, g.keys.NextPage):
		if int64((w.Index+1)*w.Size) < snap.TotalCount {
			return g.setWindow(types.PageWindow{Index: w.Index + 1, Size: w.Size})
		}
		return nil
	case key.Matches(msg, g.keys.PrevPage):
		if w.Index > 0 {
			return g.setWindow(types.PageWindow{Index: w.Index - 1, Size: w.Size})
		}
		return nil
	case key.Matches(msg, g.keys.PageSize):
		return g.setWindow(types.PageWindow{Index: 0, Size: nextPageSize(w.Size)})
	case key.Matches(msg, g.keys.Refresh):
		return g.run(opFetch, g.coord.Refresh)
	case key.Matches(msg, g.keys.Add):
		g.surface.OpenAdd()
		return g.openForm()
	case key.Matches(msg, g.keys.Edit):
		if id, ok := g.cursorID(); ok && g.surface.OpenEdit(id) {
			return g.openForm()
		}
		return nil
	case key.Matches(msg, g.keys.Delete):
		if id, ok := g.cursorID(); ok {
			g.surface.OpenDelete(id)
		}
		return nil
	}
	var cmd tea.Cmd
	g.table, cmd = g.table.Update(msg)
	return cmd
}

// nextPageSize cycles through types.PageSizeOptions.
func nextPageSize(size int) int {
	i := slices.Index(types.PageSizeOptions, size)
	return types.PageSizeOptions[(i+1)%len(types.PageSizeOptions)]
}

// cursorID returns the identity of the highlighted row.
func (g *grid[T, F, ID]) cursorID() (ID, bool) {
	rows := g.surface.Snapshot().Rows
	i := g.table.Cursor()
	if i < 0 || i >= len(rows) {
		var zero ID
		return zero, false
	}
	return g.identity(rows[i]), true
}

// openForm starts editing the draft of the dialog just opened. The code
// lookups restart so locations added meanwhile show up.
func (g *grid[T, F, ID]) openForm() tea.Cmd {
	for _, loader := range g.lookups {
		loader.Reset()
	}
	g.form = newForm(g.surface.Fields(), g.surface.Dialog().Draft, g.lookups)
	return nil
}

func (g *grid[T, F, ID]) updateForm(msg tea.KeyMsg) tea.Cmd {
	f := g.form
	if f == nil {
		g.form = newForm(g.surface.Fields(), g.surface.Dialog().Draft, g.lookups)
		f = g.form
	}
	if f.dropdown != nil {
		if loader := f.updateDropdown(msg, g.keys); loader != nil {
			return loadMore(g.ctx, g.owner, loader)
		}
		return nil
	}
	switch {
	case key.Matches(msg, g.keys.Cancel):
		g.surface.Cancel()
		g.form = nil
		return nil
	case key.Matches(msg, g.keys.Submit):
		return g.submit()
	case key.Matches(msg, g.keys.Lookup):
		if loader := f.openLookup(); loader != nil {
			return loadMore(g.ctx, g.owner, loader)
		}
		return nil
	}
	return f.updateInput(msg, g.keys)
}

// submit parses every input into the draft, then saves. A parse error
// keeps the form open and names the field.
func (g *grid[T, F, ID]) submit() tea.Cmd {
	if g.busy {
		return nil
	}
	for i, text := range g.form.values() {
		if err := g.surface.SetField(i, text); err != nil {
			g.form.err = err.Error()
			g.form.setFocus(i)
			return nil
		}
	}
	g.form.err = ""
	g.busy = true
	return g.run(opSave, g.surface.Save)
}

func (g *grid[T, F, ID]) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, g.keys.Confirm):
		if g.busy {
			return nil
		}
		g.busy = true
		return g.run(opDelete, g.surface.ConfirmDelete)
	case key.Matches(msg, g.keys.Cancel), msg.String() == "n":
		g.surface.Cancel()
	}
	return nil
}

// syncRows copies the coordinator's page into the table.
func (g *grid[T, F, ID]) syncRows() {
	snap := g.surface.Snapshot()
	columns := g.surface.Columns()
	rows := make([]table.Row, len(snap.Rows))
	for i, entity := range snap.Rows {
		row := make(table.Row, len(columns))
		for j, col := range columns {
			row[j] = col.Value(entity)
		}
		rows[i] = row
	}
	g.table.SetRows(rows)
	if g.table.Cursor() >= len(rows) {
		g.table.SetCursor(max(len(rows)-1, 0))
	}
	g.resizeTable()
}

// resizeTable fits the table to the page size and the terminal.
func (g *grid[T, F, ID]) resizeTable() {
	height := g.surface.Snapshot().Window.Size + 1
	if g.height > 0 {
		height = min(height, max(g.height-chromeHeight-3, 2))
	}
	g.table.SetHeight(height)
}

func (g *grid[T, F, ID]) view(width, height int) string {
	snap := g.surface.Snapshot()
	w := snap.Window
	pages := max((snap.TotalCount+int64(w.Size)-1)/int64(w.Size), 1)

	status := fmt.Sprintf("page %d/%d · %d total · %d per page", w.Index+1, pages, snap.TotalCount, w.Size)
	if snap.Loading || g.pending > 0 {
		status += " · loading…"
	}
	faint := lipgloss.NewStyle().Foreground(g.theme.FaintText)

	var b strings.Builder
	b.WriteString(faint.Render(status))
	b.WriteString("\n")
	if len(snap.Rows) == 0 && !snap.Loading && g.pending == 0 {
		b.WriteString(faint.Render("No " + strings.ToLower(g.title) + " yet. Press a to add one."))
	} else {
		b.WriteString(g.table.View())
	}
	view := b.String()

	switch d := g.surface.Dialog(); d.Kind {
	case crud.DialogAdding, crud.DialogEditing:
		if g.form == nil {
			break
		}
		box := g.form.render(g.surface.Title(), g.theme, g.keys)
		view = centerOverlay(view, box, width, height)
		if g.form.dropdown != nil {
			boxX := (width - lipgloss.Width(box)) / 2
			boxY := (height - strings.Count(box, "\n") - 1) / 3
			dx, dy := g.form.dropdownAnchor()
			view = spliceOverlay(view, g.form.dropdown.render(g.theme), boxX+dx, boxY+dy)
		}
	case crud.DialogConfirmDelete:
		view = centerOverlay(view, g.renderConfirm(), width, height)
	}
	return view
}

func (g *grid[T, F, ID]) renderConfirm() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(g.theme.HeaderForeground).Render(g.surface.Title())
	fields := g.surface.Fields()
	draft := g.surface.Dialog().Draft
	lines := []string{title, ""}
	for _, field := range fields {
		lines = append(lines, field.Label+": "+field.Get(draft))
	}
	lines = append(lines, "",
		"Delete this "+strings.ToLower(g.surface.Label())+"?",
		lipgloss.NewStyle().Foreground(g.theme.HelpText).Render(helpLine(g.keys.Confirm, g.keys.Cancel)))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(g.theme.ErrorText).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (g *grid[T, F, ID]) help() string {
	if g.capturing() {
		return ""
	}
	return helpLine(g.keys.Up, g.keys.Down, g.keys.PrevPage, g.keys.NextPage, g.keys.PageSize,
		g.keys.Add, g.keys.Edit, g.keys.Delete, g.keys.Refresh)
}

// errorText is the message shown inside a dialog for err.
func errorText(err error) string {
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

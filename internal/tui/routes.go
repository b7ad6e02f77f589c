package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/ttadmin/internal/lookup"
	"github.com/mesh-intelligence/ttadmin/internal/route"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Inputs of the route search bar.
const (
	fieldOrigin = iota
	fieldDestination
	fieldDate
	searchFields
)

// searchedMsg reports that a route search of owner settled.
type searchedMsg struct {
	owner int
	err   error
}

// routesView is the route composer tab: a search bar with two code
// lookups and a date, the list of found routes, and the legs of the
// selected one. While editing, the search bar owns the keyboard.
type routesView struct {
	owner    int
	ctx      context.Context
	composer *route.Composer
	keys     KeyMap
	theme    Theme

	inputs   [searchFields]textinput.Model
	focus    int
	editing  bool
	dropdown *dropdown
	err      string
	cursor   int
}

func newRoutesView(ctx context.Context, owner int, composer *route.Composer) *routesView {
	v := &routesView{
		owner:    owner,
		ctx:      ctx,
		composer: composer,
		keys:     DefaultKeyMap,
		theme:    DefaultTheme,
		cursor:   route.NoSelection,
	}
	v.inputs[fieldOrigin] = newInput("origin code")
	v.inputs[fieldDestination] = newInput("destination code")
	v.inputs[fieldDate] = newInput(route.DateLayout)
	for i := range v.inputs {
		v.inputs[i].Width = 16
	}
	return v
}

func (v *routesView) name() string { return "Routes" }

// init loads the first page of both code lookups.
func (v *routesView) init() tea.Cmd {
	return tea.Batch(
		loadMore(v.ctx, v.owner, v.composer.Origins()),
		loadMore(v.ctx, v.owner, v.composer.Destinations()),
	)
}

func (v *routesView) capturing() bool { return v.editing }

func (v *routesView) loaderFor(field int) *lookup.Loader[string] {
	switch field {
	case fieldOrigin:
		return v.composer.Origins()
	case fieldDestination:
		return v.composer.Destinations()
	}
	return nil
}

func (v *routesView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchedMsg:
		if msg.owner != v.owner {
			return nil
		}
		v.cursor = route.NoSelection
		if msg.err != nil {
			v.err = errorText(msg.err)
		}
		return nil

	case lookupLoadedMsg:
		if msg.owner != v.owner || v.dropdown == nil {
			return nil
		}
		if msg.err == nil && v.dropdown.wantsMore() {
			return loadMore(v.ctx, v.owner, v.dropdown.loader)
		}
		return nil

	case tea.KeyMsg:
		switch {
		case v.dropdown != nil:
			return v.updateDropdown(msg)
		case v.editing:
			return v.updateSearchBar(msg)
		}
		return v.updateResults(msg)
	}
	return nil
}

func (v *routesView) updateResults(msg tea.KeyMsg) tea.Cmd {
	routes := v.composer.State().Routes
	switch {
	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Submit) && len(routes) == 0:
		v.editing = true
		v.inputs[v.focus].Focus()
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.moveCursor(v.cursor - 1)
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(routes)-1 {
			v.moveCursor(v.cursor + 1)
		}
	case key.Matches(msg, v.keys.Cancel):
		v.cursor = route.NoSelection
		v.composer.Select(route.NoSelection)
	}
	return nil
}

// moveCursor selects route i. The composer refuses while a search is in
// flight, and the cursor stays put.
func (v *routesView) moveCursor(i int) {
	if err := v.composer.Select(i); err != nil {
		return
	}
	v.cursor = i
}

func (v *routesView) setFocus(i int) {
	v.inputs[v.focus].Blur()
	v.focus = (i + searchFields) % searchFields
	v.inputs[v.focus].Focus()
}

func (v *routesView) updateSearchBar(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Cancel):
		v.inputs[v.focus].Blur()
		v.editing = false
		return nil
	case key.Matches(msg, v.keys.NextField):
		v.setFocus(v.focus + 1)
		return nil
	case key.Matches(msg, v.keys.PrevField):
		v.setFocus(v.focus - 1)
		return nil
	case key.Matches(msg, v.keys.Lookup):
		loader := v.loaderFor(v.focus)
		if loader == nil {
			return nil
		}
		v.dropdown = newDropdown(loader)
		if v.dropdown.wantsMore() {
			return loadMore(v.ctx, v.owner, loader)
		}
		return nil
	case key.Matches(msg, v.keys.Submit):
		return v.search()
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	v.err = ""
	return cmd
}

func (v *routesView) updateDropdown(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Cancel):
		v.dropdown = nil
		return nil
	case msg.Type == tea.KeyEnter:
		if code, ok := v.dropdown.selected(); ok {
			v.inputs[v.focus].SetValue(code)
			v.inputs[v.focus].CursorEnd()
		}
		v.dropdown = nil
		return nil
	case key.Matches(msg, v.keys.Up):
		v.dropdown.moveUp()
	case key.Matches(msg, v.keys.Down):
		v.dropdown.moveDown()
	}
	if v.dropdown.wantsMore() {
		return loadMore(v.ctx, v.owner, v.dropdown.loader)
	}
	return nil
}

// search hands the search bar to the composer and starts the request.
// Nothing is sent until both codes and a valid date are present.
func (v *routesView) search() tea.Cmd {
	v.composer.SetOrigin(v.inputs[fieldOrigin].Value())
	v.composer.SetDestination(v.inputs[fieldDestination].Value())
	if err := v.composer.SetDate(v.inputs[fieldDate].Value()); err != nil {
		v.err = err.Error()
		v.setFocus(fieldDate)
		return nil
	}
	if !v.composer.CanSearch() {
		v.err = "Origin, destination and date are required"
		return nil
	}
	v.err = ""
	v.inputs[v.focus].Blur()
	v.editing = false
	ctx, owner, composer := v.ctx, v.owner, v.composer
	return func() tea.Msg {
		return searchedMsg{owner: owner, err: composer.Search(ctx)}
	}
}

func (v *routesView) view(width, height int) string {
	label := lipgloss.NewStyle().Foreground(v.theme.FaintText)
	focused := lipgloss.NewStyle().Foreground(v.theme.AccentText)
	labels := [searchFields]string{"From", "To", "Date"}

	var bar []string
	for i, input := range v.inputs {
		style := label
		if v.editing && i == v.focus {
			style = focused
		}
		bar = append(bar, style.Render(labels[i]+" ")+input.View())
	}
	var b strings.Builder
	b.WriteString(strings.Join(bar, "   "))
	b.WriteString("\n")
	if v.err != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(v.theme.ErrorText).Render(v.err))
	}
	b.WriteString("\n")

	state := v.composer.State()
	switch {
	case state.Loading:
		b.WriteString(label.Render("Searching…"))
	case len(state.Routes) == 0 && state.Date != "":
		b.WriteString(label.Render(fmt.Sprintf("No routes from %s to %s on %s", state.OriginCode, state.DestinationCode, state.Date)))
	case len(state.Routes) == 0:
		b.WriteString(label.Render("Press e to enter an origin, a destination and a date."))
	default:
		b.WriteString(v.renderRoutes(state.Routes, state.Selected))
	}
	view := b.String()

	if v.dropdown != nil {
		x := 0
		for i := 0; i < v.focus; i++ {
			x += lipgloss.Width(bar[i]) + 3
		}
		x += lipgloss.Width(labels[v.focus]) + 1
		view = spliceOverlay(view, v.dropdown.render(v.theme), x, 1)
	}
	return view
}

func (v *routesView) renderRoutes(routes []types.Route, selected int) string {
	selectedStyle := lipgloss.NewStyle().
		Foreground(v.theme.SelectedForeground).
		Background(v.theme.SelectedBackground)
	legStyle := lipgloss.NewStyle().Foreground(v.theme.AccentText)

	var lines []string
	for i, r := range routes {
		line := fmt.Sprintf("%2d. %s  (%d legs)", i+1, route.Summary(r), len(r.Steps))
		if i == selected {
			lines = append(lines, selectedStyle.Render("> "+line))
			lines = append(lines, legStyle.Render("     "+route.Timeline(r)))
			for _, step := range r.Steps {
				lines = append(lines, legStyle.Render("       "+route.LegLabel(step)))
			}
			continue
		}
		lines = append(lines, "  "+line)
	}
	return strings.Join(lines, "\n")
}

func (v *routesView) help() string {
	switch {
	case v.dropdown != nil:
		return helpLine(v.keys.Up, v.keys.Down, v.keys.Submit, v.keys.Cancel)
	case v.editing:
		return helpLine(v.keys.NextField, v.keys.Lookup, key.NewBinding(key.WithHelp("Enter", "search")), v.keys.Cancel)
	}
	return helpLine(v.keys.Edit, v.keys.Up, v.keys.Down)
}

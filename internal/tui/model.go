// Package tui is the interactive terminal UI of ttadmin: paginated grids
// over locations and transportations with add, edit and delete dialogs,
// and a route search tab. State lives in internal/crud, internal/lookup
// and internal/route; this package renders it with bubbletea and turns
// key presses into calls on it.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mesh-intelligence/ttadmin/internal/api"
	"github.com/mesh-intelligence/ttadmin/internal/crud"
	"github.com/mesh-intelligence/ttadmin/internal/lookup"
	"github.com/mesh-intelligence/ttadmin/internal/route"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// chromeHeight is the number of lines around the tab content: header,
// blank line, separator and help bar.
const chromeHeight = 4

// Options configures the terminal UI.
type Options struct {
	Client *api.Client

	// Notifications, when set, is drained into the toast.
	Notifications interface{ C() <-chan string }
	NotifyTimeout time.Duration

	PageSize       int
	LookupPageSize int
	Logger         *slog.Logger
}

// tab is one screen of the UI.
type tab interface {
	name() string
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view(width, height int) string
	capturing() bool
	help() string
}

// Model is the root bubbletea model.
type Model struct {
	tabs          []tab
	active        int
	toast         toast
	notifications <-chan string
	notifyTimeout time.Duration
	keys          KeyMap
	theme         Theme
	width         int
	height        int
}

// Tab indices.
const (
	TabLocations = iota
	TabTransportations
	TabRoutes
)

// New builds the UI over client. ctx bounds every backend call the UI
// makes.
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = types.DefaultPageSize
	}
	if opts.LookupPageSize <= 0 {
		opts.LookupPageSize = types.DefaultLookupPageSize
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 2 * time.Second
	}

	client := opts.Client
	locations := client.Locations()
	window := types.PageWindow{Index: 0, Size: opts.PageSize}
	newCodeLoader := func() *lookup.Loader[string] {
		return lookup.NewLoader[string](locations.Codes,
			lookup.WithPageSize(opts.LookupPageSize),
			lookup.WithLogger(logger),
		)
	}

	locationGrid := newGrid(ctx, TabLocations, "Locations", "Location",
		crud.NewCoordinator[types.Location, types.LocationFormData, string](locations,
			crud.WithWindow(window), crud.WithLogger(logger)),
		crud.LocationProjector, crud.LocationColumns, crud.LocationFields,
		nil, logger)
	transportationGrid := newGrid(ctx, TabTransportations, "Transportations", "Transportation",
		crud.NewCoordinator[types.Transportation, types.TransportationFormData, int64](client.Transportations(),
			crud.WithWindow(window), crud.WithLogger(logger)),
		crud.TransportationProjector, crud.TransportationColumns, crud.TransportationFields,
		newCodeLoader, logger)
	composer := route.NewComposer(locations, client, logger,
		lookup.WithPageSize(opts.LookupPageSize))

	m := Model{
		tabs: []tab{
			locationGrid,
			transportationGrid,
			newRoutesView(ctx, TabRoutes, composer),
		},
		notifyTimeout: opts.NotifyTimeout,
		keys:          DefaultKeyMap,
		theme:         DefaultTheme,
	}
	if opts.Notifications != nil {
		m.notifications = opts.Notifications.C()
	}
	return m
}

// Run starts the UI on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	program := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model. Loads every tab and starts listening for
// notifications.
func (model Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(model.tabs)+1)
	for _, t := range model.tabs {
		cmds = append(cmds, t.init())
	}
	if model.notifications != nil {
		cmds = append(cmds, listenForNotification(model.notifications))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. Keys go to the active tab unless they are
// global; everything else is offered to every tab, which ignore messages
// they do not own.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if key.Matches(message, model.keys.ForceQuit) {
			return model, tea.Quit
		}
		active := model.tabs[model.active]
		if !active.capturing() {
			switch {
			case key.Matches(message, model.keys.Quit):
				return model, tea.Quit
			case key.Matches(message, model.keys.NextTab):
				model.active = (model.active + 1) % len(model.tabs)
				return model, nil
			case key.Matches(message, model.keys.PrevTab):
				model.active = (model.active + len(model.tabs) - 1) % len(model.tabs)
				return model, nil
			case key.Matches(message, model.keys.TabLocations):
				model.active = TabLocations
				return model, nil
			case key.Matches(message, model.keys.TabTransportations):
				model.active = TabTransportations
				return model, nil
			case key.Matches(message, model.keys.TabRoutes):
				model.active = TabRoutes
				return model, nil
			}
		}
		return model, active.update(message)

	case notificationMsg:
		return model, tea.Batch(
			model.toast.show(message.message, model.notifyTimeout),
			listenForNotification(model.notifications),
		)

	case toastExpiredMsg:
		model.toast.expire(message.sequence)
		return model, nil

	case tea.WindowSizeMsg:
		model.width, model.height = message.Width, message.Height
	}

	cmds := make([]tea.Cmd, 0, len(model.tabs))
	for _, t := range model.tabs {
		cmds = append(cmds, t.update(message))
	}
	return model, tea.Batch(cmds...)
}

// View implements tea.Model.
func (model Model) View() string {
	if model.width == 0 {
		return "Loading..."
	}
	active := model.tabs[model.active]
	contentHeight := max(model.height-chromeHeight, 1)

	sections := []string{
		model.renderHeader(),
		"",
		active.view(model.width, contentHeight),
	}
	body := strings.Join(sections, "\n")
	if lines := strings.Count(body, "\n") + 1; lines < model.height-2 {
		body += strings.Repeat("\n", model.height-2-lines)
	}

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	output := body + "\n" + separator + "\n" + model.renderHelp(active)

	if lines := model.toast.render(model.theme); lines != nil {
		x := model.width - ansi.StringWidth(lines[0]) - 1
		output = spliceOverlay(output, lines, x, 0)
	}
	return output
}

// renderHeader renders the tab bar: ─── Label ─── Label ─── Label ───…
func (model Model) renderHeader() string {
	separatorStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	inactiveStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	sep := separatorStyle.Render("───")
	header := sep
	width := 3
	for i, t := range model.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.name())
		if i == model.active {
			header += " " + activeStyle.Render(label) + " " + sep
		} else {
			header += " " + inactiveStyle.Render(label) + " " + sep
		}
		width += lipgloss.Width(label) + 2 + 3
	}
	if fill := model.width - width; fill > 0 {
		header += separatorStyle.Render(strings.Repeat("─", fill))
	}
	return header
}

// renderHelp renders the bottom help bar with the key hints of the active
// tab followed by the global ones.
func (model Model) renderHelp(active tab) string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	help := active.help()
	if !active.capturing() {
		global := helpLine(model.keys.NextTab, model.keys.Quit)
		if help != "" {
			help += "  "
		}
		help += global
	}
	return style.Render(" " + ansi.Truncate(help, max(model.width-2, 0), "…"))
}

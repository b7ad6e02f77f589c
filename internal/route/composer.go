// Package route holds the route search form state and the pure helpers that
// turn a returned itinerary into display text.
package route

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mesh-intelligence/ttadmin/internal/lookup"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// DateLayout is the civil date format accepted by SetDate.
const DateLayout = time.DateOnly

// NoSelection is the Selected index when no route is chosen.
const NoSelection = -1

// State is a consistent copy of a Composer's search state.
type State struct {
	OriginCode      string
	DestinationCode string
	Date            string
	Routes          []types.Route
	Loading         bool
	Selected        int
}

// Composer owns the search form: two independent code lookups, the chosen
// codes and date, and the last result set with its selection.
type Composer struct {
	origins      *lookup.Loader[string]
	destinations *lookup.Loader[string]
	searcher     types.RouteSearcher
	logger       *slog.Logger

	mu              sync.Mutex
	originCode      string
	destinationCode string
	date            time.Time
	routes          []types.Route
	loading         bool
	selected        int
	issued          uint64
}

// NewComposer creates a Composer. Both lookups page through codes with the
// given loader options.
func NewComposer(codes types.CodeLister, searcher types.RouteSearcher, logger *slog.Logger, opts ...lookup.Option) *Composer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append(opts, lookup.WithLogger(logger))
	return &Composer{
		origins:      lookup.NewLoader[string](codes.Codes, opts...),
		destinations: lookup.NewLoader[string](codes.Codes, opts...),
		searcher:     searcher,
		logger:       logger,
		routes:       []types.Route{},
		selected:     NoSelection,
	}
}

// Origins returns the origin code lookup.
func (c *Composer) Origins() *lookup.Loader[string] { return c.origins }

// Destinations returns the destination code lookup.
func (c *Composer) Destinations() *lookup.Loader[string] { return c.destinations }

// SetOrigin chooses the origin location code.
func (c *Composer) SetOrigin(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.originCode = strings.TrimSpace(code)
}

// SetDestination chooses the destination location code.
func (c *Composer) SetDestination(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destinationCode = strings.TrimSpace(code)
}

// SetDate parses a YYYY-MM-DD date. An empty string clears it.
func (c *Composer) SetDate(s string) error {
	s = strings.TrimSpace(s)
	var d time.Time
	if s != "" {
		var err error
		d, err = time.ParseInLocation(DateLayout, s, time.UTC)
		if err != nil {
			return fmt.Errorf("%w: %q is not YYYY-MM-DD", types.ErrInvalidDate, s)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = d
	return nil
}

// CanSearch reports whether both codes and a date are set.
func (c *Composer) CanSearch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSearch()
}

func (c *Composer) canSearch() bool {
	return c.originCode != "" && c.destinationCode != "" && !c.date.IsZero()
}

// Search sends one route search and stores the result. The selection resets
// to none when the search starts and again when its result lands. On failure the previous routes are cleared and the error is
// returned. Returns types.ErrSearchNotReady when CanSearch is false.
func (c *Composer) Search(ctx context.Context) error {
	c.mu.Lock()
	if !c.canSearch() {
		c.mu.Unlock()
		return types.ErrSearchNotReady
	}
	req := types.SearchRouteRequest{
		OriginCode:      c.originCode,
		DestinationCode: c.destinationCode,
		Date:            c.date,
	}
	c.issued++
	seq := c.issued
	c.loading = true
	c.selected = NoSelection
	c.mu.Unlock()

	routes, err := c.searcher.SearchRoutes(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.issued {
		// A newer search owns the result.
		return err
	}
	c.loading = false
	c.selected = NoSelection
	if err != nil {
		c.routes = []types.Route{}
		c.logger.Debug("route search failed", "origin", req.OriginCode, "destination", req.DestinationCode, "error", err)
		return err
	}
	if routes == nil {
		routes = []types.Route{}
	}
	c.routes = routes
	c.logger.Debug("route search", "origin", req.OriginCode, "destination", req.DestinationCode, "routes", len(routes))
	return nil
}

// Select chooses route i for the detail view. NoSelection clears it. While a
// search is in flight only NoSelection is accepted.
func (c *Composer) Select(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i != NoSelection && c.loading {
		return fmt.Errorf("%w: search in progress", types.ErrNoSelection)
	}
	if i != NoSelection && (i < 0 || i >= len(c.routes)) {
		return fmt.Errorf("%w: index %d of %d", types.ErrNoSelection, i, len(c.routes))
	}
	c.selected = i
	return nil
}

// Selected returns the chosen route.
func (c *Composer) Selected() (types.Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 || c.selected >= len(c.routes) {
		return types.Route{}, false
	}
	return c.routes[c.selected], true
}

// State returns the current search state.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	date := ""
	if !c.date.IsZero() {
		date = c.date.Format(DateLayout)
	}
	return State{
		OriginCode:      c.originCode,
		DestinationCode: c.destinationCode,
		Date:            date,
		Routes:          slices.Clone(c.routes),
		Loading:         c.loading,
		Selected:        c.selected,
	}
}

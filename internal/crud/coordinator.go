// Package crud holds the state behind the paginated data grids: a
// Coordinator that keeps one server page in memory and refetches it after
// every mutation, and a Surface that tracks which dialog is open over it.
// Rendering lives in internal/tui; nothing here draws.
package crud

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Snapshot is a consistent copy of a Coordinator's state.
type Snapshot[T any] struct {
	Rows       []T
	TotalCount int64
	Window     types.PageWindow
	Loading    bool
}

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	sort   string
	window types.PageWindow
	logger *slog.Logger
}

// WithSort sets the sort parameter sent with every list request.
func WithSort(sort string) Option {
	return func(o *options) { o.sort = sort }
}

// WithWindow sets the initial page window.
func WithWindow(w types.PageWindow) Option {
	return func(o *options) { o.window = w }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Coordinator owns the current page of one resource. Every mutation is
// followed by a refetch of the current window; rows are replaced wholesale,
// never patched. Safe for concurrent use.
type Coordinator[T, F any, ID comparable] struct {
	resource types.Resource[T, F, ID]
	sort     string
	logger   *slog.Logger

	mu       sync.Mutex
	window   types.PageWindow
	rows     []T
	total    int64
	inflight int
	issued   uint64
	applied  uint64
}

// NewCoordinator creates a Coordinator over resource. The default window is
// the first page of types.DefaultPageSize rows sorted by types.DefaultListSort.
// Nothing is fetched until Load.
func NewCoordinator[T, F any, ID comparable](resource types.Resource[T, F, ID], opts ...Option) *Coordinator[T, F, ID] {
	o := options{
		sort:   types.DefaultListSort,
		window: types.PageWindow{Index: 0, Size: types.DefaultPageSize},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Coordinator[T, F, ID]{
		resource: resource,
		sort:     o.sort,
		logger:   o.logger,
		window:   o.window,
		rows:     []T{},
	}
}

// Snapshot returns the current state.
func (c *Coordinator[T, F, ID]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{
		Rows:       slices.Clone(c.rows),
		TotalCount: c.total,
		Window:     c.window,
		Loading:    c.inflight > 0,
	}
}

// Load fetches the current window.
func (c *Coordinator[T, F, ID]) Load(ctx context.Context) error {
	return c.fetch(ctx)
}

// Refresh is Load under the name used after external changes.
func (c *Coordinator[T, F, ID]) Refresh(ctx context.Context) error {
	return c.fetch(ctx)
}

// SetWindow moves to w and fetches it. Setting the window already shown is a
// no-op. Returns types.ErrInvalidWindow for a negative index or a
// non-positive size.
func (c *Coordinator[T, F, ID]) SetWindow(ctx context.Context, w types.PageWindow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	if w == c.window {
		c.mu.Unlock()
		return nil
	}
	c.window = w
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Create stores data, then refetches the current window.
func (c *Coordinator[T, F, ID]) Create(ctx context.Context, data F) error {
	if _, err := c.resource.Create(ctx, data); err != nil {
		return err
	}
	return c.fetch(ctx)
}

// Update replaces the entity with id, then refetches the current window.
func (c *Coordinator[T, F, ID]) Update(ctx context.Context, id ID, data F) error {
	if _, err := c.resource.Update(ctx, id, data); err != nil {
		return err
	}
	return c.fetch(ctx)
}

// Delete removes the entity with id, then refetches the current window.
func (c *Coordinator[T, F, ID]) Delete(ctx context.Context, id ID) error {
	if err := c.resource.Delete(ctx, id); err != nil {
		return err
	}
	return c.fetch(ctx)
}

// fetch lists the current window and installs the result unless a newer
// fetch already landed or the window moved on while it was in flight.
func (c *Coordinator[T, F, ID]) fetch(ctx context.Context) error {
	c.mu.Lock()
	w := c.window
	c.issued++
	seq := c.issued
	c.inflight++
	c.mu.Unlock()

	page, err := c.resource.List(ctx, w.Request(c.sort))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if err != nil {
		c.logger.Debug("page fetch failed", "page", w.Index, "size", w.Size, "error", err)
		return err
	}
	if seq < c.applied || w != c.window {
		c.logger.Debug("dropping stale page", "page", w.Index, "size", w.Size)
		return nil
	}
	c.applied = seq
	rows := page.Items
	if len(rows) > w.Size {
		rows = rows[:w.Size]
	}
	c.rows = slices.Clone(rows)
	if c.rows == nil {
		c.rows = []T{}
	}
	c.total = page.TotalCount
	return nil
}

// Package lookup loads long, server-paged option lists one page at a time
// as the user scrolls toward the end of what is already shown.
package lookup

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// FetchFunc returns one page of options.
type FetchFunc[T any] func(ctx context.Context, req types.PageRequest) (types.Page[T], error)

// Snapshot is a consistent copy of a Loader's state.
type Snapshot[T any] struct {
	Options  []T
	HasMore  bool
	Loading  bool
	NextPage int
}

// Option configures a Loader.
type Option func(*options)

type options struct {
	size   int
	sort   string
	logger *slog.Logger
}

// WithPageSize sets how many options each request asks for.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.size = n
		}
	}
}

// WithSort sets the sort parameter.
func WithSort(sort string) Option {
	return func(o *options) { o.sort = sort }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Loader accumulates options page by page. At most one request is in flight
// at a time; extra LoadMore calls while one is pending return immediately.
type Loader[T comparable] struct {
	fetch  FetchFunc[T]
	size   int
	sort   string
	logger *slog.Logger

	mu      sync.Mutex
	options []T
	seen    map[T]struct{}
	hasMore bool
	loading bool
	next    int
	epoch   uint64
}

// NewLoader creates a Loader over fetch with page size
// types.DefaultLookupPageSize sorted by types.DefaultLookupSort.
func NewLoader[T comparable](fetch FetchFunc[T], opts ...Option) *Loader[T] {
	o := options{
		size:   types.DefaultLookupPageSize,
		sort:   types.DefaultLookupSort,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader[T]{
		fetch:   fetch,
		size:    o.size,
		sort:    o.sort,
		logger:  o.logger,
		options: []T{},
		seen:    map[T]struct{}{},
		hasMore: true,
	}
}

// LoadMore requests the next page. It is a no-op while a request is in
// flight or after the server reported the last page. On failure the page
// cursor stays put so the next call retries the same page.
func (l *Loader[T]) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	page := l.next
	epoch := l.epoch
	l.mu.Unlock()

	result, err := l.fetch(ctx, types.PageRequest{Page: page, Size: l.size, Sort: l.sort})

	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		// Reset while in flight; the new session owns the guard.
		return nil
	}
	l.loading = false
	if err != nil {
		l.logger.Debug("lookup page failed", "page", page, "error", err)
		return err
	}

	if page == 0 {
		l.options = l.options[:0]
		clear(l.seen)
	}
	for _, opt := range result.Items {
		if _, dup := l.seen[opt]; dup {
			continue
		}
		l.seen[opt] = struct{}{}
		l.options = append(l.options, opt)
	}
	l.hasMore = !result.IsLastPage
	l.next = page + 1
	return nil
}

// Reset empties the option list and rewinds to the first page. A request
// still in flight is discarded when it lands.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch++
	l.options = []T{}
	clear(l.seen)
	l.hasMore = true
	l.loading = false
	l.next = 0
}

// Snapshot returns the current state.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot[T]{
		Options:  slices.Clone(l.options),
		HasMore:  l.hasMore,
		Loading:  l.loading,
		NextPage: l.next,
	}
}

// NearEnd reports whether a list scrolled to offset, showing visible rows
// out of total, is within threshold rows of its end. Scrollable views call
// LoadMore when it turns true.
func NearEnd(offset, visible, total, threshold int) bool {
	if total <= 0 {
		return true
	}
	return offset+visible >= total-threshold
}

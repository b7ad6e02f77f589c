// Package sqlite implements the storage behind the stub REST backend. It
// keeps locations, transportations and their operating days in SQLite and
// exposes paginated, sortable reads plus validated writes.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// MemoryDatabase selects a private in-memory database.
const MemoryDatabase = ":memory:"

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// Backend owns the SQLite connection. All table access goes through the
// Locations and Transportations accessors, which serialize writes with mu.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	now      func() time.Time

	locations       *LocationsTable
	transportations *TransportationsTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach to initialize.
func NewBackend() *Backend {
	b := &Backend{now: func() time.Time { return time.Now().UTC() }}
	b.locations = &LocationsTable{backend: b}
	b.transportations = &TransportationsTable{backend: b}
	return b
}

// Attach opens the database described by cfg.Database (MemoryDatabase when
// empty), creates the schema, and seeds demo data when cfg.Seed is set and
// the location table is empty.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(cfg types.ServeConfig) error {
	if err := b.open(cfg.Database); err != nil {
		return err
	}
	if !cfg.Seed {
		return nil
	}
	if err := seedDemoData(b); err != nil {
		b.Detach()
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func (b *Backend) open(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if path == "" {
		path = MemoryDatabase
	}
	if path != MemoryDatabase {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection keeps an in-memory database alive and makes pragmas stick.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	for _, ddl := range append(schemaDDL, indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	b.db = db
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	return nil
}

// Locations returns the location table accessor.
func (b *Backend) Locations() *LocationsTable { return b.locations }

// Transportations returns the transportation table accessor.
func (b *Backend) Transportations() *TransportationsTable { return b.transportations }

// SetClock overrides the timestamp source. Used by tests.
func (b *Backend) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// generateUUID generates a new UUID v7 for location IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// invalid wraps types.ErrInvalidData with a reason shown to API callers.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", types.ErrInvalidData, fmt.Sprintf(format, args...))
}

// pageBounds clamps a request and returns LIMIT/OFFSET.
func pageBounds(req types.PageRequest) (limit, offset int) {
	size := req.Size
	if size <= 0 {
		size = 20
	}
	if size > 1000 {
		size = 1000
	}
	page := req.Page
	if page < 0 {
		page = 0
	}
	// offset+limit must fit in an int.
	if last := math.MaxInt/size - 1; page > last {
		page = last
	}
	return size, page * size
}

func pageOf[T any](items []T, total int64, limit, offset int) types.Page[T] {
	if items == nil {
		items = []T{}
	}
	return types.Page[T]{
		Items:      items,
		TotalCount: total,
		IsLastPage: int64(offset+limit) >= total,
	}
}

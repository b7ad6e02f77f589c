package sqlite

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// setupBackend attaches an in-memory backend with a fixed clock.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.ServeConfig{}))
	b.SetClock(func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) })
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_AttachFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ttadmin.db")

	b := NewBackend()
	require.NoError(t, b.Attach(types.ServeConfig{Database: path}))

	_, err := os.Stat(path)
	assert.NoError(t, err, "database file should exist")

	assert.ErrorIs(t, b.Attach(types.ServeConfig{Database: path}), ErrAlreadyAttached)
	require.NoError(t, b.Detach())
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.ServeConfig{}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should be a no-op")

	_, err := b.Locations().List(types.PageRequest{Size: 5})
	assert.ErrorIs(t, err, ErrDetached)
	_, err = b.Transportations().Get(1)
	assert.ErrorIs(t, err, ErrDetached)
}

func TestBackend_Seed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeded.db")

	b := NewBackend()
	require.NoError(t, b.Attach(types.ServeConfig{Database: path, Seed: true}))

	locs, err := b.Locations().List(types.PageRequest{Size: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoLocations)), locs.TotalCount)

	trs, err := b.Transportations().List(types.PageRequest{Size: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoTransportations)), trs.TotalCount)
	require.NoError(t, b.Detach())

	// Reattaching a populated database does not seed twice.
	require.NoError(t, b.Attach(types.ServeConfig{Database: path, Seed: true}))
	defer b.Detach()
	locs, err = b.Locations().List(types.PageRequest{Size: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoLocations)), locs.TotalCount)
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name       string
		req        types.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"defaults", types.PageRequest{}, 20, 0},
		{"second page", types.PageRequest{Page: 1, Size: 5}, 5, 5},
		{"negative page", types.PageRequest{Page: -3, Size: 10}, 10, 0},
		{"capped size", types.PageRequest{Size: 5000}, 1000, 0},
		{"huge page", types.PageRequest{Page: math.MaxInt, Size: 10}, 10, (math.MaxInt/10 - 1) * 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := pageBounds(tt.req)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestOrderBy(t *testing.T) {
	cols := map[string]string{"id": "id", "name": "name"}

	got, err := orderBy("", cols, "id ASC")
	require.NoError(t, err)
	assert.Equal(t, "id ASC", got)

	got, err = orderBy("id,desc", cols, "id ASC")
	require.NoError(t, err)
	assert.Equal(t, "id DESC", got)

	got, err = orderBy("name", cols, "id ASC")
	require.NoError(t, err)
	assert.Equal(t, "name ASC", got)

	_, err = orderBy("secret,asc", cols, "id ASC")
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = orderBy("id,sideways", cols, "id ASC")
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

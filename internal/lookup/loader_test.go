package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// codeSource serves codes C0..C(n-1) in pages and counts requests.
type codeSource struct {
	mu       sync.Mutex
	n        int
	requests []types.PageRequest
	fail     bool
	gate     chan struct{}
}

func (s *codeSource) fetch(ctx context.Context, req types.PageRequest) (types.Page[string], error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	gate, fail := s.gate, s.fail
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if fail {
		return types.Page[string]{}, errors.New("offline")
	}
	var items []string
	for i := req.Page * req.Size; i < min((req.Page+1)*req.Size, s.n); i++ {
		items = append(items, fmt.Sprintf("C%d", i))
	}
	return types.Page[string]{
		Items:      items,
		TotalCount: int64(s.n),
		IsLastPage: (req.Page+1)*req.Size >= s.n,
	}, nil
}

func (s *codeSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func TestLoader_Defaults(t *testing.T) {
	src := &codeSource{n: 3}
	l := NewLoader(src.fetch)
	require.NoError(t, l.LoadMore(context.Background()))
	assert.Equal(t, types.PageRequest{Page: 0, Size: 50, Sort: "id,asc"}, src.requests[0])
	snap := l.Snapshot()
	assert.Equal(t, []string{"C0", "C1", "C2"}, snap.Options)
	assert.False(t, snap.HasMore)
}

func TestLoader_AppendsUntilLastPage(t *testing.T) {
	ctx := context.Background()
	src := &codeSource{n: 5}
	l := NewLoader(src.fetch, WithPageSize(2))

	for i := 0; i < 3; i++ {
		require.NoError(t, l.LoadMore(ctx))
	}
	snap := l.Snapshot()
	assert.Equal(t, []string{"C0", "C1", "C2", "C3", "C4"}, snap.Options)
	assert.False(t, snap.HasMore)
	assert.Equal(t, 3, snap.NextPage)

	// After the last page further calls send nothing.
	require.NoError(t, l.LoadMore(ctx))
	require.NoError(t, l.LoadMore(ctx))
	assert.Equal(t, 3, src.count())
}

func TestLoader_SingleFlight(t *testing.T) {
	src := &codeSource{n: 10, gate: make(chan struct{})}
	l := NewLoader(src.fetch, WithPageSize(2))

	done := make(chan error, 1)
	go func() { done <- l.LoadMore(context.Background()) }()
	require.Eventually(t, func() bool { return l.Snapshot().Loading }, time.Second, time.Millisecond)

	// A second call while the first is unresolved is a no-op.
	require.NoError(t, l.LoadMore(context.Background()))
	close(src.gate)
	require.NoError(t, <-done)

	assert.Equal(t, 1, src.count())
	assert.False(t, l.Snapshot().Loading)
}

func TestLoader_FailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	src := &codeSource{n: 4}
	l := NewLoader(src.fetch, WithPageSize(2))
	require.NoError(t, l.LoadMore(ctx))

	src.mu.Lock()
	src.fail = true
	src.mu.Unlock()
	require.Error(t, l.LoadMore(ctx))
	snap := l.Snapshot()
	assert.Equal(t, 1, snap.NextPage, "cursor does not advance on failure")
	assert.True(t, snap.HasMore)
	assert.False(t, snap.Loading)

	src.mu.Lock()
	src.fail = false
	src.mu.Unlock()
	require.NoError(t, l.LoadMore(ctx))
	assert.Equal(t, []string{"C0", "C1", "C2", "C3"}, l.Snapshot().Options)
	assert.Equal(t, 1, src.requests[2].Page, "retry asks for the same page")
}

func TestLoader_Reset(t *testing.T) {
	ctx := context.Background()
	src := &codeSource{n: 4}
	l := NewLoader(src.fetch, WithPageSize(2))
	require.NoError(t, l.LoadMore(ctx))
	require.NoError(t, l.LoadMore(ctx))

	l.Reset()
	snap := l.Snapshot()
	assert.Empty(t, snap.Options)
	assert.True(t, snap.HasMore)
	assert.Equal(t, 0, snap.NextPage)

	require.NoError(t, l.LoadMore(ctx))
	assert.Equal(t, []string{"C0", "C1"}, l.Snapshot().Options)
}

func TestLoader_ResetDiscardsInFlight(t *testing.T) {
	src := &codeSource{n: 4, gate: make(chan struct{})}
	l := NewLoader(src.fetch, WithPageSize(2))

	done := make(chan error, 1)
	go func() { done <- l.LoadMore(context.Background()) }()
	require.Eventually(t, func() bool { return src.count() == 1 }, time.Second, time.Millisecond)

	l.Reset()
	close(src.gate)
	require.NoError(t, <-done)
	assert.Empty(t, l.Snapshot().Options)
}

func TestNearEnd(t *testing.T) {
	tests := []struct {
		name                              string
		offset, visible, total, threshold int
		want                              bool
	}{
		{"empty list", 0, 10, 0, 2, true},
		{"top of long list", 0, 10, 50, 2, false},
		{"inside threshold", 39, 10, 50, 2, true},
		{"at bottom", 40, 10, 50, 2, true},
		{"list shorter than view", 0, 10, 4, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearEnd(tt.offset, tt.visible, tt.total, tt.threshold))
		})
	}
}

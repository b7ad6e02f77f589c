package route

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

type fakeCodes struct {
	codes []string
	calls int
}

func (f *fakeCodes) Codes(ctx context.Context, req types.PageRequest) (types.Page[string], error) {
	f.calls++
	start := min(req.Page*req.Size, len(f.codes))
	end := min(start+req.Size, len(f.codes))
	return types.Page[string]{Items: f.codes[start:end], TotalCount: int64(len(f.codes)), IsLastPage: end == len(f.codes)}, nil
}

type fakeSearcher struct {
	routes []types.Route
	err    error
	got    []types.SearchRouteRequest
	// gate, when set, makes SearchRoutes send once on entry and then block
	// until a value is received.
	gate chan struct{}
}

func (f *fakeSearcher) SearchRoutes(ctx context.Context, req types.SearchRouteRequest) ([]types.Route, error) {
	f.got = append(f.got, req)
	if f.gate != nil {
		f.gate <- struct{}{}
		<-f.gate
	}
	return f.routes, f.err
}

func place(code string) types.Location {
	return types.Location{Name: code, LocationCode: code}
}

func viaC() types.Route {
	return types.Route{Steps: []types.Transportation{
		{ID: 1, Origin: place("A"), Destination: place("C"), Type: types.TransportationBus},
		{ID: 2, Origin: place("C"), Destination: place("B"), Type: types.TransportationFlight},
	}}
}

func TestComposer_Search(t *testing.T) {
	ctx := context.Background()
	searcher := &fakeSearcher{routes: []types.Route{viaC()}}
	c := NewComposer(&fakeCodes{}, searcher, nil)

	assert.False(t, c.CanSearch())
	assert.ErrorIs(t, c.Search(ctx), types.ErrSearchNotReady)
	assert.Empty(t, searcher.got)

	c.SetOrigin("A")
	c.SetDestination("B")
	require.NoError(t, c.SetDate("2024-01-01"))
	require.True(t, c.CanSearch())

	require.NoError(t, c.Search(ctx))
	require.Len(t, searcher.got, 1)
	assert.Equal(t, types.SearchRouteRequest{
		OriginCode: "A", DestinationCode: "B", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, searcher.got[0])

	state := c.State()
	require.Len(t, state.Routes, 1)
	assert.Equal(t, NoSelection, state.Selected)
	assert.Equal(t, "2024-01-01", state.Date)
	assert.Equal(t, "Via C → B", Summary(state.Routes[0]))

	require.NoError(t, c.Select(0))
	selected, ok := c.Selected()
	require.True(t, ok)
	var codes []string
	for _, stop := range Stops(selected) {
		codes = append(codes, stop.LocationCode)
	}
	assert.Equal(t, []string{"A", "C", "B"}, codes)
	assert.Equal(t, "A ─🚌→ C ─✈→ B", Timeline(selected))

	// A new search clears the selection.
	require.NoError(t, c.Search(ctx))
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestComposer_SearchFailureClearsRoutes(t *testing.T) {
	ctx := context.Background()
	searcher := &fakeSearcher{routes: []types.Route{viaC()}}
	c := NewComposer(&fakeCodes{}, searcher, nil)
	c.SetOrigin("A")
	c.SetDestination("B")
	require.NoError(t, c.SetDate("2024-01-01"))
	require.NoError(t, c.Search(ctx))

	searcher.err = errors.New("offline")
	require.Error(t, c.Search(ctx))
	state := c.State()
	assert.Empty(t, state.Routes)
	assert.False(t, state.Loading)
}

func TestComposer_SelectDuringSearch(t *testing.T) {
	ctx := context.Background()
	searcher := &fakeSearcher{routes: []types.Route{viaC(), viaC()}}
	c := NewComposer(&fakeCodes{}, searcher, nil)
	c.SetOrigin("A")
	c.SetDestination("B")
	require.NoError(t, c.SetDate("2024-01-01"))
	require.NoError(t, c.Search(ctx))
	require.NoError(t, c.Select(1))

	searcher.routes = nil
	searcher.gate = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- c.Search(ctx) }()
	<-searcher.gate

	assert.True(t, c.State().Loading)
	assert.ErrorIs(t, c.Select(0), types.ErrNoSelection)
	assert.NoError(t, c.Select(NoSelection))

	searcher.gate <- struct{}{}
	require.NoError(t, <-done)

	state := c.State()
	assert.Empty(t, state.Routes)
	assert.Equal(t, NoSelection, state.Selected)
	_, ok := c.Selected()
	assert.False(t, ok)
	assert.ErrorIs(t, c.Select(0), types.ErrNoSelection)
}

func TestComposer_SetDate(t *testing.T) {
	c := NewComposer(&fakeCodes{}, &fakeSearcher{}, nil)
	assert.ErrorIs(t, c.SetDate("01/02/2024"), types.ErrInvalidDate)
	require.NoError(t, c.SetDate("2024-02-29"))
	assert.Equal(t, "2024-02-29", c.State().Date)
	require.NoError(t, c.SetDate(""))
	assert.Equal(t, "", c.State().Date)
}

func TestComposer_SelectBounds(t *testing.T) {
	c := NewComposer(&fakeCodes{}, &fakeSearcher{}, nil)
	assert.ErrorIs(t, c.Select(0), types.ErrNoSelection)
	assert.NoError(t, c.Select(NoSelection))
}

func TestComposer_IndependentLookups(t *testing.T) {
	ctx := context.Background()
	codes := &fakeCodes{codes: []string{"A", "B", "C", "D"}}
	c := NewComposer(codes, &fakeSearcher{}, nil)

	require.NoError(t, c.Origins().LoadMore(ctx))
	assert.Equal(t, []string{"A", "B", "C", "D"}, c.Origins().Snapshot().Options)
	assert.Empty(t, c.Destinations().Snapshot().Options)

	require.NoError(t, c.Destinations().LoadMore(ctx))
	assert.Equal(t, 2, codes.calls)
}

func TestGlyph(t *testing.T) {
	seen := map[string]bool{}
	for _, typ := range types.AllTransportationTypes {
		g := Glyph(typ)
		assert.NotEqual(t, Glyph("TELEPORT"), g, "%s has its own glyph", typ)
		seen[g] = true
	}
	assert.Len(t, seen, len(types.AllTransportationTypes))
	assert.Equal(t, "•", Glyph(""))
}

func TestLegLabel(t *testing.T) {
	step := types.Transportation{Origin: place("IST"), Destination: place("LHR"), Type: types.TransportationFlight}
	assert.Equal(t, "✈ FLIGHT IST → LHR", LegLabel(step))
	assert.Equal(t, "• UNKNOWN IST → LHR", LegLabel(types.Transportation{Origin: place("IST"), Destination: place("LHR")}))
}

func TestSummaryEmptyRoute(t *testing.T) {
	assert.Equal(t, "", Summary(types.Route{}))
	assert.Nil(t, Stops(types.Route{}))
	assert.Equal(t, "", Timeline(types.Route{}))
}

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ttadmin/internal/notify"
	"github.com/mesh-intelligence/ttadmin/internal/sqlite"
	"github.com/mesh-intelligence/ttadmin/internal/stubapi"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// recorder is a Sink that keeps every message.
type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Report(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// newStubClient starts the seeded stub backend and returns a client for it.
func newStubClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.ServeConfig{Seed: true}))
	t.Cleanup(func() { b.Detach() })

	srv := httptest.NewServer(stubapi.New(b, nil).Handler())
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1", c.base.String())

	_, err = NewClient("localhost")
	assert.ErrorIs(t, err, types.ErrBaseURLInvalid)
}

func TestListSendsPageQuery(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":null,"totalElements":0,"last":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	page, err := c.Transportations().List(context.Background(), types.PageRequest{Page: 2, Size: 10, Sort: "id,desc"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/transportations?page=2&size=10&sort=id%2Cdesc", got)
	assert.NotNil(t, page.Items)
	assert.True(t, page.IsLastPage)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     string
		notFound bool
	}{
		{"detail wins", 400, `{"title":"Bad Request","detail":"Origin code and Destination code are the same"}`, "Origin code and Destination code are the same", false},
		{"message fallback", 409, `{"message":"conflict"}`, "conflict", false},
		{"title fallback", 404, `{"title":"Not Found"}`, "Not Found", true},
		{"no body", 500, ``, types.GenericErrorMessage, false},
		{"html body", 502, `<html>bad gateway</html>`, types.GenericErrorMessage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			sink := &recorder{}
			c, err := NewClient(srv.URL, WithSink(sink))
			require.NoError(t, err)

			err = c.Locations().Delete(context.Background(), "x")
			var apiErr *types.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.notFound, errors.Is(err, types.ErrNotFound))
			assert.Equal(t, []string{tt.want}, sink.all())
		})
	}
}

func TestTransportFailureReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	sink := &recorder{}
	c, err := NewClient(srv.URL, WithSink(sink), WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Locations().Codes(context.Background(), types.PageRequest{Size: 50})
	require.Error(t, err)
	require.Len(t, sink.all(), 1)
	assert.Equal(t, err.Error(), sink.all()[0])
}

func TestSuccessDoesNotReport(t *testing.T) {
	sink := &recorder{}
	c := newStubClient(t, WithSink(sink))

	_, err := c.Locations().List(context.Background(), types.PageRequest{Size: 5, Sort: types.DefaultListSort})
	require.NoError(t, err)
	assert.Empty(t, sink.all())
}

func TestRoundTripAgainstStub(t *testing.T) {
	ctx := context.Background()
	q := notify.NewQueue(4)
	c := newStubClient(t, WithSink(q))

	loc, err := c.Locations().Create(ctx, types.LocationFormData{
		Name: "Paris Orly", Country: "France", City: "Paris", LocationCode: "ORY",
	})
	require.NoError(t, err)

	var fetched types.Location
	require.NoError(t, c.Get(ctx, types.ResourceLocations, loc.ID, &fetched))
	assert.Equal(t, loc.ID, fetched.ID)

	tr, err := c.Transportations().Create(ctx, types.TransportationFormData{
		OriginCode: "IST", DestinationCode: "ORY", Type: types.TransportationFlight,
		OperatingDays: types.OperatingDays{time.Friday},
	})
	require.NoError(t, err)

	data := tr.FormData()
	data.OperatingDays = data.OperatingDays.Toggle(time.Monday)
	updated, err := c.Transportations().Update(ctx, tr.ID, data)
	require.NoError(t, err)
	assert.True(t, updated.OperatingDays.Equal(types.OperatingDays{time.Monday, time.Friday}))

	codes, err := c.Locations().Codes(ctx, types.PageRequest{Size: 50, Sort: types.DefaultLookupSort})
	require.NoError(t, err)
	assert.Contains(t, codes.Items, "ORY")

	routes, err := c.SearchRoutes(ctx, types.SearchRouteRequest{
		OriginCode: "CCIST", DestinationCode: "ORY",
		Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, routes)
	last := routes[0].Steps[len(routes[0].Steps)-1]
	assert.Equal(t, "ORY", last.Destination.LocationCode)

	// Deleting a referenced location is rejected with the backend's detail.
	err = c.Locations().Delete(ctx, loc.ID)
	assert.ErrorIs(t, err, types.ErrInvalidData)
	select {
	case msg := <-q.C():
		assert.Contains(t, msg, "used by 1 transportation")
	default:
		t.Fatal("failure was not reported")
	}

	require.NoError(t, c.Transportations().Delete(ctx, tr.ID))
	require.NoError(t, c.Locations().Delete(ctx, loc.ID))
}

func TestGetRejectsUnknownResource(t *testing.T) {
	c, err := NewClient("http://localhost:1")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Get(context.Background(), "widgets", "1", nil), types.ErrUnknownResource)
	assert.ErrorIs(t, c.Get(context.Background(), types.ResourceLocations, "", nil), types.ErrInvalidID)
}

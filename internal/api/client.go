// Package api is the HTTP client for the travel-planning REST backend. It
// translates paginated CRUD intents into JSON calls under /api/v1 and maps
// failed responses onto human-readable messages delivered to a notify.Sink.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/ttadmin/internal/notify"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// BasePath is appended to the configured base URL.
const BasePath = "/api/v1"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	base   *url.URL
	http   *http.Client
	sink   notify.Sink
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the underlying http.Client.
// Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSink sets where failure messages are reported.
func WithSink(s notify.Sink) Option {
	return func(c *Client) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client for the backend at baseURL, e.g.
// "http://localhost:8080". Options are applied in order.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, types.ErrBaseURLInvalid)
	}
	u.Path += BasePath

	c := &Client{
		base:   u,
		http:   &http.Client{},
		sink:   notify.Nop{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Locations returns the location resource.
func (c *Client) Locations() *Locations {
	return &Locations{Resource: newResource[types.Location, types.LocationFormData, string](c, types.ResourceLocations)}
}

// Transportations returns the transportation resource.
func (c *Client) Transportations() *Resource[types.Transportation, types.TransportationFormData, int64] {
	return newResource[types.Transportation, types.TransportationFormData, int64](c, types.ResourceTransportations)
}

// SearchRoutes posts a route search and returns the composed itineraries.
func (c *Client) SearchRoutes(ctx context.Context, req types.SearchRouteRequest) ([]types.Route, error) {
	var routes []types.Route
	if err := c.do(ctx, http.MethodPost, "/routes/search", nil, req, &routes); err != nil {
		return nil, err
	}
	if routes == nil {
		routes = []types.Route{}
	}
	return routes, nil
}

// Get fetches a single entity of the named resource into out.
func (c *Client) Get(ctx context.Context, resource, id string, out any) error {
	if err := checkResource(resource); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}
	return c.do(ctx, http.MethodGet, "/"+resource+"/"+url.PathEscape(id), nil, nil, out)
}

func checkResource(name string) error {
	for _, known := range types.ResourceNames {
		if name == known {
			return nil
		}
	}
	return fmt.Errorf("%w %q", types.ErrUnknownResource, name)
}

// do performs one JSON round trip. Any failure is reported to the sink and
// returned; a non-2xx status becomes *types.APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	err := c.roundTrip(ctx, method, path, query, body, out)
	if err != nil {
		c.sink.Report(messageOf(err))
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := *c.base
	target.Path += path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// problem mirrors the structured error bodies the backend may return.
type problem struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Title   string `json:"title"`
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var p problem
	message := types.GenericErrorMessage
	if json.Unmarshal(data, &p) == nil {
		switch {
		case p.Detail != "":
			message = p.Detail
		case p.Message != "":
			message = p.Message
		case p.Title != "":
			message = p.Title
		}
	}
	return &types.APIError{Status: resp.StatusCode, Message: message}
}

// messageOf picks the text shown to the user for err.
func messageOf(err error) string {
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err.Error() != "" {
		return err.Error()
	}
	return types.GenericErrorMessage
}

func pageQuery(req types.PageRequest) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("size", strconv.Itoa(req.Size))
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	return q
}

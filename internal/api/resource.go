package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Resource is the HTTP implementation of types.Resource for one entity kind
// mounted at /api/v1/<name>.
type Resource[T, F any, ID comparable] struct {
	client *Client
	name   string
}

var _ types.Resource[types.Location, types.LocationFormData, string] = (*Resource[types.Location, types.LocationFormData, string])(nil)

var _ types.Resource[types.Transportation, types.TransportationFormData, int64] = (*Resource[types.Transportation, types.TransportationFormData, int64])(nil)

var (
	_ types.CodeLister    = (*Locations)(nil)
	_ types.RouteSearcher = (*Client)(nil)
)

func newResource[T, F any, ID comparable](c *Client, name string) *Resource[T, F, ID] {
	return &Resource[T, F, ID]{client: c, name: name}
}

// Name returns the resource name used in the path.
func (r *Resource[T, F, ID]) Name() string { return r.name }

// List fetches one page.
func (r *Resource[T, F, ID]) List(ctx context.Context, req types.PageRequest) (types.Page[T], error) {
	var page types.Page[T]
	if err := r.client.do(ctx, http.MethodGet, "/"+r.name, pageQuery(req), nil, &page); err != nil {
		return types.Page[T]{}, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

// Create posts data and returns the stored entity.
func (r *Resource[T, F, ID]) Create(ctx context.Context, data F) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodPost, "/"+r.name, nil, data, &out)
	return out, err
}

// Update replaces the entity with the given id.
func (r *Resource[T, F, ID]) Update(ctx context.Context, id ID, data F) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodPut, r.itemPath(id), nil, data, &out)
	return out, err
}

// Delete removes the entity with the given id.
func (r *Resource[T, F, ID]) Delete(ctx context.Context, id ID) error {
	return r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

func (r *Resource[T, F, ID]) itemPath(id ID) string {
	return "/" + r.name + "/" + url.PathEscape(fmt.Sprint(id))
}

// Locations adds the code listing used by lookup lists.
type Locations struct {
	*Resource[types.Location, types.LocationFormData, string]
}

// Codes pages through location codes.
func (l *Locations) Codes(ctx context.Context, req types.PageRequest) (types.Page[string], error) {
	var page types.Page[string]
	if err := l.client.do(ctx, http.MethodGet, "/"+l.name+"/codes", pageQuery(req), nil, &page); err != nil {
		return types.Page[string]{}, err
	}
	if page.Items == nil {
		page.Items = []string{}
	}
	return page, nil
}

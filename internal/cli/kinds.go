package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mesh-intelligence/ttadmin/internal/api"
	"github.com/mesh-intelligence/ttadmin/internal/crud"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// resourceVerbs is the non-generic face of kind, so verbs can dispatch on
// a resource name read from the command line.
type resourceVerbs interface {
	list(ctx context.Context, s *session, w io.Writer, win types.PageWindow, sort string) error
	get(ctx context.Context, s *session, w io.Writer, id string) error
	create(ctx context.Context, s *session, w io.Writer, payload string) error
	update(ctx context.Context, s *session, w io.Writer, id, payload string) error
	remove(ctx context.Context, s *session, w io.Writer, id string) error
}

// kind binds one resource to its typed client and presentation.
type kind[T, F any, ID comparable] struct {
	name     string
	label    string
	client   *api.Client
	resource types.Resource[T, F, ID]
	columns  []crud.Column[T]
	parseID  func(string) (ID, error)
}

// kindFor returns the verbs for the named resource.
func kindFor(c *api.Client, name string) (resourceVerbs, error) {
	switch name {
	case types.ResourceLocations:
		return &kind[types.Location, types.LocationFormData, string]{
			name:     name,
			label:    "location",
			client:   c,
			resource: c.Locations(),
			columns:  append([]crud.Column[types.Location]{{Title: "ID", Value: types.Location.Identity}}, crud.LocationColumns...),
			parseID:  parseLocationID,
		}, nil
	case types.ResourceTransportations:
		return &kind[types.Transportation, types.TransportationFormData, int64]{
			name:     name,
			label:    "transportation",
			client:   c,
			resource: c.Transportations(),
			columns:  crud.TransportationColumns,
			parseID:  parseTransportationID,
		}, nil
	}
	return nil, fmt.Errorf("%w %q (valid: %s, %s)", types.ErrUnknownResource, name, types.ResourceLocations, types.ResourceTransportations)
}

func parseLocationID(s string) (string, error) {
	if s == "" {
		return "", types.ErrInvalidID
	}
	return s, nil
}

func parseTransportationID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w %q", types.ErrInvalidID, s)
	}
	return id, nil
}

// pageOutput is the JSON shape printed by "list --json".
type pageOutput[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
}

func (k *kind[T, F, ID]) list(ctx context.Context, s *session, w io.Writer, win types.PageWindow, sort string) error {
	if err := win.Validate(); err != nil {
		return err
	}
	coord := crud.NewCoordinator(k.resource,
		crud.WithWindow(win),
		crud.WithSort(sort),
		crud.WithLogger(s.logger),
	)
	if err := coord.Load(ctx); err != nil {
		return fmt.Errorf("list %s: %w", k.name, err)
	}
	snap := coord.Snapshot()
	if s.flags.jsonMode {
		return writeJSON(w, pageOutput[T]{
			Items:      snap.Rows,
			TotalCount: snap.TotalCount,
			Page:       snap.Window.Index,
			Size:       snap.Window.Size,
		})
	}
	if err := writeTable(w, k.columns, snap.Rows); err != nil {
		return err
	}
	pages := (snap.TotalCount + int64(win.Size) - 1) / int64(win.Size)
	_, err := fmt.Fprintf(w, "\npage %d of %d (%d %s)\n", win.Index+1, max(pages, 1), snap.TotalCount, k.name)
	return err
}

func (k *kind[T, F, ID]) get(ctx context.Context, s *session, w io.Writer, id string) error {
	if _, err := k.parseID(id); err != nil {
		return err
	}
	var entity T
	if err := k.client.Get(ctx, k.name, id, &entity); err != nil {
		return fmt.Errorf("get %s %s: %w", k.label, id, err)
	}
	return k.print(s, w, entity)
}

func (k *kind[T, F, ID]) create(ctx context.Context, s *session, w io.Writer, payload string) error {
	data, err := decodeForm[F](payload)
	if err != nil {
		return err
	}
	entity, err := k.resource.Create(ctx, data)
	if err != nil {
		return fmt.Errorf("create %s: %w", k.label, err)
	}
	return k.print(s, w, entity)
}

func (k *kind[T, F, ID]) update(ctx context.Context, s *session, w io.Writer, id, payload string) error {
	parsed, err := k.parseID(id)
	if err != nil {
		return err
	}
	data, err := decodeForm[F](payload)
	if err != nil {
		return err
	}
	entity, err := k.resource.Update(ctx, parsed, data)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", k.label, id, err)
	}
	return k.print(s, w, entity)
}

func (k *kind[T, F, ID]) remove(ctx context.Context, s *session, w io.Writer, id string) error {
	parsed, err := k.parseID(id)
	if err != nil {
		return err
	}
	if err := k.resource.Delete(ctx, parsed); err != nil {
		return fmt.Errorf("delete %s %s: %w", k.label, id, err)
	}
	if s.flags.jsonMode {
		return writeJSON(w, map[string]any{"deleted": parsed})
	}
	_, err = fmt.Fprintf(w, "Deleted %s %s\n", k.label, id)
	return err
}

func (k *kind[T, F, ID]) print(s *session, w io.Writer, entity T) error {
	if s.flags.jsonMode {
		return writeJSON(w, entity)
	}
	return writeRecord(w, k.columns, entity)
}

// decodeForm parses a JSON form payload, rejecting unknown fields.
func decodeForm[F any](payload string) (F, error) {
	var data F
	dec := json.NewDecoder(bytes.NewBufferString(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return data, fmt.Errorf("%w: parse JSON: %v", types.ErrInvalidData, err)
	}
	return data, nil
}

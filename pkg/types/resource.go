package types

import (
	"context"
	"errors"
	"fmt"
)

// Resource provides uniform paginated CRUD over one entity kind. T is the
// read shape returned by the backend, F the form-data payload sent on create
// and update, ID the identity type.
type Resource[T, F any, ID comparable] interface {
	// List returns one page of entities.
	List(ctx context.Context, req PageRequest) (Page[T], error)

	// Create stores a new entity built from data and returns it with the
	// backend-assigned ID and timestamps.
	Create(ctx context.Context, data F) (T, error)

	// Update replaces the editable fields of the entity with the given ID.
	Update(ctx context.Context, id ID, data F) (T, error)

	// Delete removes the entity with the given ID.
	Delete(ctx context.Context, id ID) error
}

// CodeLister pages through location codes for lookup lists.
type CodeLister interface {
	Codes(ctx context.Context, req PageRequest) (Page[string], error)
}

// RouteSearcher composes itineraries between two locations.
type RouteSearcher interface {
	SearchRoutes(ctx context.Context, req SearchRouteRequest) ([]Route, error)
}

// Resource names accepted by the CLI and used in API paths.
const (
	ResourceLocations       = "locations"
	ResourceTransportations = "transportations"
)

// ResourceNames lists the resource names for enumeration.
var ResourceNames = []string{
	ResourceLocations,
	ResourceTransportations,
}

// Resource errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidData     = errors.New("invalid entity data")
	ErrUnknownResource = errors.New("unknown resource")
	ErrInvalidWindow   = errors.New("invalid page window")
)

// Value errors.
var (
	ErrInvalidTransportationType = errors.New("invalid transportation type")
	ErrInvalidWeekday            = errors.New("invalid weekday")
	ErrInvalidDate               = errors.New("invalid date")
)

// Route search errors.
var (
	ErrSameEndpoints  = errors.New("origin code and destination code are the same")
	ErrSearchNotReady = errors.New("origin, destination and date are required")
	ErrNoSelection    = errors.New("no route selected")
)

// GenericErrorMessage is reported when a failed response carries no
// readable message.
const GenericErrorMessage = "Something went wrong"

// APIError is a non-2xx response from the backend. Message is the
// human-readable text delivered to the notification sink.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is maps well-known statuses onto the sentinel errors so callers can use
// errors.Is(err, ErrNotFound).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrInvalidData:
		return e.Status == 400
	}
	return false
}

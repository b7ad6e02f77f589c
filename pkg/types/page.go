package types

// Default paging parameters.
const (
	DefaultPageSize       = 5
	DefaultLookupPageSize = 50
	DefaultListSort       = "id,desc"
	DefaultLookupSort     = "id,asc"
)

// PageSizeOptions are the page sizes the grid cycles through.
var PageSizeOptions = []int{5, 10, 20}

// PageWindow is the (index, size) slice of a server-ordered collection that
// is currently materialized. Index is 0-based.
type PageWindow struct {
	Index int `json:"page"`
	Size  int `json:"pageSize"`
}

// Validate checks the window is addressable.
func (w PageWindow) Validate() error {
	if w.Index < 0 || w.Size <= 0 {
		return ErrInvalidWindow
	}
	return nil
}

// Request converts the window to a list request with the given sort.
func (w PageWindow) Request(sort string) PageRequest {
	return PageRequest{Page: w.Index, Size: w.Size, Sort: sort}
}

// PageRequest carries the query parameters of a paginated list call.
type PageRequest struct {
	Page int    `json:"page"`
	Size int    `json:"size"`
	Sort string `json:"sort,omitempty"`
}

// Page is one slice of a paginated collection as returned by the backend.
type Page[T any] struct {
	Items      []T   `json:"content"`
	TotalCount int64 `json:"totalElements"`
	IsLastPage bool  `json:"last"`
}

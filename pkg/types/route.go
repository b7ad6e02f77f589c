package types

import "time"

// Route is an ordered chain of transportation legs returned by a search.
// The destination of each step is the origin of the next; the backend owns
// that contract.
type Route struct {
	Steps []Transportation `json:"steps"`
}

// SearchRouteRequest asks for routes between two location codes on a date.
type SearchRouteRequest struct {
	OriginCode      string    `json:"originCode"`
	DestinationCode string    `json:"destinationCode"`
	Date            time.Time `json:"date"`
}

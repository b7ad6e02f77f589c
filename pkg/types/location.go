package types

import "time"

// Location is a named place (city, airport, station) identified by a unique
// location code. The backend owns ID, CreatedAt and UpdatedAt.
type Location struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	LocationCode string    `json:"locationCode"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LocationFormData holds the editable fields of a Location.
type LocationFormData struct {
	Name         string `json:"name"`
	Country      string `json:"country"`
	City         string `json:"city"`
	LocationCode string `json:"locationCode"`
}

// FormData projects the location onto its editable fields.
func (l Location) FormData() LocationFormData {
	return LocationFormData{
		Name:         l.Name,
		Country:      l.Country,
		City:         l.City,
		LocationCode: l.LocationCode,
	}
}

// Identity returns the location ID.
func (l Location) Identity() string { return l.ID }

package types

import (
	"fmt"
	"strings"
	"time"
)

// TransportationType names the kind of leg a Transportation provides.
type TransportationType string

// Transportation types.
const (
	TransportationFlight TransportationType = "FLIGHT"
	TransportationBus    TransportationType = "BUS"
	TransportationSubway TransportationType = "SUBWAY"
	TransportationRide   TransportationType = "RIDE"
)

// AllTransportationTypes lists the known types in display order.
var AllTransportationTypes = []TransportationType{
	TransportationFlight,
	TransportationBus,
	TransportationSubway,
	TransportationRide,
}

// legacyRideName is accepted on input for data written before RIDE existed.
const legacyRideName = "UBER"

// ParseTransportationType parses s case-insensitively.
// Returns ErrInvalidTransportationType for unknown names.
func ParseTransportationType(s string) (TransportationType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == legacyRideName {
		return TransportationRide, nil
	}
	for _, t := range AllTransportationTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTransportationType, s)
}

// Valid reports whether t is one of the known types.
func (t TransportationType) Valid() bool {
	for _, known := range AllTransportationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Transportation is a typed leg between two locations that runs on the
// given weekdays.
type Transportation struct {
	ID            int64              `json:"id"`
	Origin        Location           `json:"origin"`
	Destination   Location           `json:"destination"`
	Type          TransportationType `json:"transportationType"`
	OperatingDays OperatingDays      `json:"operatingDays"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// TransportationFormData is the create/update payload for a Transportation.
// Endpoints are referenced by location code rather than embedded.
type TransportationFormData struct {
	OriginCode      string             `json:"originCode"`
	DestinationCode string             `json:"destinationCode"`
	Type            TransportationType `json:"transportationType"`
	OperatingDays   OperatingDays      `json:"operatingDays"`
}

// FormData projects the transportation onto its editable fields. Operating
// days come back in canonical ascending order.
func (t Transportation) FormData() TransportationFormData {
	return TransportationFormData{
		OriginCode:      t.Origin.LocationCode,
		DestinationCode: t.Destination.LocationCode,
		Type:            t.Type,
		OperatingDays:   t.OperatingDays.Canonical(),
	}
}

// Identity returns the transportation ID.
func (t Transportation) Identity() int64 { return t.ID }

// OperatesOn reports whether the transportation runs on day.
func (t Transportation) OperatesOn(day time.Weekday) bool {
	return t.OperatingDays.Contains(day)
}

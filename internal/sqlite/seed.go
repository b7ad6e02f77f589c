package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// demoLocations is the location set written on first start of a seeded
// backend.
var demoLocations = []types.LocationFormData{
	{Name: "Istanbul Airport", Country: "Turkey", City: "Istanbul", LocationCode: "IST"},
	{Name: "Sabiha Gokcen Airport", Country: "Turkey", City: "Istanbul", LocationCode: "SAW"},
	{Name: "Taksim Square", Country: "Turkey", City: "Istanbul", LocationCode: "CCIST"},
	{Name: "Heathrow Airport", Country: "United Kingdom", City: "London", LocationCode: "LHR"},
	{Name: "Wembley Stadium", Country: "United Kingdom", City: "London", LocationCode: "CCLON"},
	{Name: "Ankara Esenboga Airport", Country: "Turkey", City: "Ankara", LocationCode: "ESB"},
}

type demoTransportation struct {
	origin, destination string
	typ                 types.TransportationType
	days                []int
}

var demoTransportations = []demoTransportation{
	{"CCIST", "IST", types.TransportationBus, []int{0, 1, 2, 3, 4, 5, 6}},
	{"CCIST", "SAW", types.TransportationRide, []int{0, 1, 2, 3, 4, 5, 6}},
	{"CCIST", "IST", types.TransportationSubway, []int{1, 2, 3, 4, 5}},
	{"IST", "LHR", types.TransportationFlight, []int{1, 3, 5}},
	{"SAW", "LHR", types.TransportationFlight, []int{0, 2, 4, 6}},
	{"ESB", "IST", types.TransportationFlight, []int{0, 1, 2, 3, 4, 5, 6}},
	{"LHR", "CCLON", types.TransportationSubway, []int{0, 1, 2, 3, 4, 5, 6}},
	{"LHR", "CCLON", types.TransportationBus, []int{0, 6}},
}

// seedDemoData writes the demo data set unless locations already exist.
func seedDemoData(b *Backend) error {
	page, err := b.locations.List(types.PageRequest{Size: 1})
	if err != nil {
		return err
	}
	if page.TotalCount > 0 {
		return nil
	}

	for _, l := range demoLocations {
		if _, err := b.locations.Create(l); err != nil {
			return fmt.Errorf("seeding location %s: %w", l.LocationCode, err)
		}
	}
	for _, t := range demoTransportations {
		days, err := types.NewOperatingDays(t.days...)
		if err != nil {
			return err
		}
		_, err = b.transportations.Create(types.TransportationFormData{
			OriginCode:      t.origin,
			DestinationCode: t.destination,
			Type:            t.typ,
			OperatingDays:   days,
		})
		if err != nil {
			return fmt.Errorf("seeding %s→%s: %w", t.origin, t.destination, err)
		}
	}
	return nil
}

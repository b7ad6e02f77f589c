package stubapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

func loc(code string) types.Location {
	return types.Location{ID: "id-" + code, Name: code, LocationCode: code}
}

func leg(id int64, from, to string, typ types.TransportationType) types.Transportation {
	return types.Transportation{ID: id, Origin: loc(from), Destination: loc(to), Type: typ}
}

func codes(r types.Route) []string {
	out := []string{r.Steps[0].Origin.LocationCode}
	for _, s := range r.Steps {
		out = append(out, s.Destination.LocationCode)
	}
	return out
}

func TestFindRoutes(t *testing.T) {
	legs := []types.Transportation{
		leg(1, "CC", "IST", types.TransportationBus),
		leg(2, "IST", "LHR", types.TransportationFlight),
		leg(3, "LHR", "WEM", types.TransportationSubway),
		leg(4, "CC", "WEM", types.TransportationBus),
		leg(5, "CC", "SAW", types.TransportationRide),
		leg(6, "SAW", "LHR", types.TransportationFlight),
	}

	routes := FindRoutes("id-CC", "id-WEM", legs)
	require.Len(t, routes, 2, "the direct bus has no flight")
	assert.Equal(t, []string{"CC", "IST", "LHR", "WEM"}, codes(routes[0]))
	assert.Equal(t, []string{"CC", "SAW", "LHR", "WEM"}, codes(routes[1]))
}

func TestFindRoutes_MaxLegs(t *testing.T) {
	legs := []types.Transportation{
		leg(1, "A", "B", types.TransportationBus),
		leg(2, "B", "C", types.TransportationFlight),
		leg(3, "C", "D", types.TransportationBus),
		leg(4, "D", "E", types.TransportationBus),
	}
	assert.Empty(t, FindRoutes("id-A", "id-E", legs))
	assert.Len(t, FindRoutes("id-A", "id-D", legs), 1)
}

func TestFindRoutes_NoRevisit(t *testing.T) {
	legs := []types.Transportation{
		leg(1, "A", "B", types.TransportationFlight),
		leg(2, "B", "A", types.TransportationFlight),
		leg(3, "A", "C", types.TransportationBus),
		leg(4, "B", "C", types.TransportationBus),
	}
	routes := FindRoutes("id-A", "id-C", legs)
	require.Len(t, routes, 1)
	assert.Equal(t, []string{"A", "B", "C"}, codes(routes[0]))
}

func TestFindRoutes_NoneIsEmptySlice(t *testing.T) {
	routes := FindRoutes("id-A", "id-B", nil)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
}

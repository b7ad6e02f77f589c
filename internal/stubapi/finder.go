package stubapi

import (
	"slices"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// MaxLegs bounds the number of transportations in one route.
const MaxLegs = 3

// FindRoutes enumerates every route from origin to destination (location
// IDs) over legs. A route has at most MaxLegs steps, never visits a location
// twice and contains at least one FLIGHT. Routes come back in depth-first
// order with legs tried by ascending ID.
func FindRoutes(origin, destination string, legs []types.Transportation) []types.Route {
	graph := make(map[string][]types.Transportation)
	for _, leg := range legs {
		graph[leg.Origin.ID] = append(graph[leg.Origin.ID], leg)
	}
	for _, out := range graph {
		slices.SortFunc(out, func(a, b types.Transportation) int {
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			}
			return 0
		})
	}

	routes := []types.Route{}
	visited := map[string]bool{origin: true}
	var path []types.Transportation

	var walk func(at string)
	walk = func(at string) {
		if at == destination {
			if containsFlight(path) {
				routes = append(routes, types.Route{Steps: slices.Clone(path)})
			}
			return
		}
		if len(path) >= MaxLegs {
			return
		}
		for _, leg := range graph[at] {
			next := leg.Destination.ID
			if visited[next] {
				continue
			}
			visited[next] = true
			path = append(path, leg)
			walk(next)
			path = path[:len(path)-1]
			visited[next] = false
		}
	}
	walk(origin)
	return routes
}

func containsFlight(path []types.Transportation) bool {
	for _, leg := range path {
		if leg.Type == types.TransportationFlight {
			return true
		}
	}
	return false
}

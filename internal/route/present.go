package route

import (
	"strings"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Summary renders a route as "Via C → B": the destination of every leg in
// order.
func Summary(r types.Route) string {
	if len(r.Steps) == 0 {
		return ""
	}
	names := make([]string, len(r.Steps))
	for i, step := range r.Steps {
		names[i] = placeName(step.Destination)
	}
	return "Via " + strings.Join(names, " → ")
}

// Stops returns every location visited, origin first.
func Stops(r types.Route) []types.Location {
	if len(r.Steps) == 0 {
		return nil
	}
	stops := make([]types.Location, 0, len(r.Steps)+1)
	stops = append(stops, r.Steps[0].Origin)
	for _, step := range r.Steps {
		stops = append(stops, step.Destination)
	}
	return stops
}

// Timeline draws the stops of a route joined by the glyph of each leg,
// e.g. "A ─✈→ C ─🚌→ B".
func Timeline(r types.Route) string {
	stops := Stops(r)
	if len(stops) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(stops[0].LocationCode)
	for i, step := range r.Steps {
		b.WriteString(" ─" + Glyph(step.Type) + "→ ")
		b.WriteString(stops[i+1].LocationCode)
	}
	return b.String()
}

// Glyph is the symbol shown next to a leg of type t.
func Glyph(t types.TransportationType) string {
	switch t {
	case types.TransportationFlight:
		return "✈"
	case types.TransportationBus:
		return "🚌"
	case types.TransportationSubway:
		return "🚇"
	case types.TransportationRide:
		return "🚕"
	default:
		return "•"
	}
}

// LegLabel describes one leg, e.g. "✈ FLIGHT IST → LHR".
func LegLabel(step types.Transportation) string {
	kind := string(step.Type)
	if kind == "" {
		kind = "UNKNOWN"
	}
	return Glyph(step.Type) + " " + kind + " " + step.Origin.LocationCode + " → " + step.Destination.LocationCode
}

func placeName(l types.Location) string {
	if l.Name != "" {
		return l.Name
	}
	return l.LocationCode
}

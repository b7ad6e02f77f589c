package sqlite

import (
	"strings"
)

// orderBy turns a "field,dir" sort parameter into an ORDER BY clause using
// the allowed field-to-column map. Empty sort falls back to fallback.
func orderBy(sort string, columns map[string]string, fallback string) (string, error) {
	if strings.TrimSpace(sort) == "" {
		return fallback, nil
	}
	field, dir, _ := strings.Cut(sort, ",")
	column, ok := columns[strings.TrimSpace(field)]
	if !ok {
		return "", invalid("cannot sort by %q", field)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return column + " ASC", nil
	case "desc":
		return column + " DESC", nil
	default:
		return "", invalid("sort direction %q must be asc or desc", dir)
	}
}

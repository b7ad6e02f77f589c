package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// OperatingDays is a set of weekdays, Sunday = 0 through Saturday = 6, the
// same numbering as time.Weekday. The wire form is an unordered JSON array of
// integers; Canonical gives the ascending display order.
type OperatingDays []time.Weekday

// ShortDayNames are the display labels indexed by weekday.
var ShortDayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// NewOperatingDays builds a canonical set from weekday indices. Duplicates
// are dropped; values outside 0-6 return ErrInvalidWeekday.
func NewOperatingDays(days ...int) (OperatingDays, error) {
	out := make(OperatingDays, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}
		out = append(out, time.Weekday(d))
	}
	return out.Canonical(), nil
}

// Canonical returns a sorted copy with duplicates removed.
func (d OperatingDays) Canonical() OperatingDays {
	out := slices.Clone(d)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = OperatingDays{}
	}
	return out
}

// Contains reports whether day is in the set.
func (d OperatingDays) Contains(day time.Weekday) bool {
	return slices.Contains(d, day)
}

// Equal reports set equality, ignoring order and duplicates.
func (d OperatingDays) Equal(other OperatingDays) bool {
	return slices.Equal(d.Canonical(), other.Canonical())
}

// Toggle returns a canonical copy with day added or removed.
func (d OperatingDays) Toggle(day time.Weekday) OperatingDays {
	if d.Contains(day) {
		return slices.DeleteFunc(d.Canonical(), func(w time.Weekday) bool { return w == day })
	}
	return append(slices.Clone(d), day).Canonical()
}

// String renders the canonical set with short labels, e.g. "Sun, Wed, Fri".
func (d OperatingDays) String() string {
	labels := make([]string, 0, len(d))
	for _, day := range d.Canonical() {
		if day < 0 || day > 6 {
			labels = append(labels, strconv.Itoa(int(day)))
			continue
		}
		labels = append(labels, ShortDayNames[day])
	}
	return strings.Join(labels, ", ")
}

// ParseOperatingDays accepts comma- or space-separated short names
// ("Sun,Wed"), full names ("sunday") or indices ("0,3"). Empty input is the
// empty set.
func ParseOperatingDays(s string) (OperatingDays, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		idx, err := parseWeekday(f)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return NewOperatingDays(indices...)
}

func parseWeekday(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	for i, name := range ShortDayNames {
		if strings.EqualFold(s, name) || strings.EqualFold(s, time.Weekday(i).String()) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

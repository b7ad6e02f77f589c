package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/ttadmin/internal/crud"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// writeTable prints rows under the column titles, tab-aligned.
func writeTable[T any](w io.Writer, columns []crud.Column[T], rows []T) error {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	titles := make([]string, len(columns))
	for i, col := range columns {
		titles[i] = strings.ToUpper(col.Title)
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = col.Value(row)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// writeRecord prints one entity as "Title: value" lines.
func writeRecord[T any](w io.Writer, columns []crud.Column[T], row T) error {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	for _, col := range columns {
		fmt.Fprintf(tw, "%s:\t%s\n", col.Title, col.Value(row))
	}
	return tw.Flush()
}

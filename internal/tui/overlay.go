package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay replaces a rectangular region of a rendered view with
// overlay lines placed from (x, y). ANSI-aware truncation keeps the escape
// sequences of the underlying view intact on both sides. Rows beyond the
// view are appended as needed.
func spliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}
	x = max(x, 0)
	y = max(y, 0)

	lines := strings.Split(view, "\n")
	for len(lines) < y+len(overlay) {
		lines = append(lines, "")
	}
	width := 0
	for _, line := range overlay {
		width = max(width, ansi.StringWidth(line))
	}

	for i, overlayLine := range overlay {
		line := lines[y+i]
		lineWidth := ansi.StringWidth(line)

		var b strings.Builder
		if x > 0 {
			prefix := ansi.Truncate(line, x, "")
			b.WriteString(prefix)
			if pad := x - ansi.StringWidth(prefix); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteString("\x1b[0m")
		b.WriteString(overlayLine)
		b.WriteString("\x1b[0m")
		if end := x + width; end < lineWidth {
			b.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		lines[y+i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// centerOverlay splices box into the middle of a width x height view.
func centerOverlay(view, box string, width, height int) string {
	lines := strings.Split(box, "\n")
	x := (width - lipgloss.Width(box)) / 2
	y := (height - len(lines)) / 3
	return spliceOverlay(view, lines, x, y)
}

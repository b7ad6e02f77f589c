package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/ttadmin/internal/crud"
	"github.com/mesh-intelligence/ttadmin/internal/lookup"
)

const inputWidth = 28

// newInput creates a text input with a static cursor.
func newInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.Width = inputWidth
	input.CharLimit = 128
	input.Cursor.SetMode(cursor.CursorStatic)
	return input
}

// form edits one draft through the field descriptors of a grid. Inputs
// hold raw text; the text is parsed into the draft only on submit.
type form[F any] struct {
	fields  []crud.Field[F]
	inputs  []textinput.Model
	focus   int
	err     string
	lookups map[int]*lookup.Loader[string]

	// dropdown is the open code lookup, attached to field dropdownField.
	dropdown      *dropdown
	dropdownField int
}

func newForm[F any](fields []crud.Field[F], draft F, lookups map[int]*lookup.Loader[string]) *form[F] {
	f := &form[F]{
		fields:  fields,
		inputs:  make([]textinput.Model, len(fields)),
		lookups: lookups,
	}
	for i, field := range fields {
		placeholder := ""
		switch {
		case len(field.Choices) > 0:
			placeholder = strings.Join(field.Choices, "|")
		case field.Lookup:
			placeholder = "C-l to look up"
		}
		f.inputs[i] = newInput(placeholder)
		f.inputs[i].SetValue(field.Get(draft))
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *form[F]) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// values returns the raw text of every input.
func (f *form[F]) values() []string {
	out := make([]string, len(f.inputs))
	for i, input := range f.inputs {
		out[i] = input.Value()
	}
	return out
}

// cycleChoice moves a closed-choice field to the next or previous choice.
func (f *form[F]) cycleChoice(step int) {
	choices := f.fields[f.focus].Choices
	if len(choices) == 0 {
		return
	}
	current := slices.Index(choices, strings.ToUpper(strings.TrimSpace(f.inputs[f.focus].Value())))
	next := (current + step + len(choices)) % len(choices)
	if current < 0 && step < 0 {
		next = len(choices) - 1
	}
	f.inputs[f.focus].SetValue(choices[next])
	f.inputs[f.focus].CursorEnd()
}

// openLookup opens the code dropdown of the focused field. It returns the
// loader when its first page still has to be fetched.
func (f *form[F]) openLookup() *lookup.Loader[string] {
	loader, ok := f.lookups[f.focus]
	if !ok {
		return nil
	}
	f.dropdown = newDropdown(loader)
	f.dropdownField = f.focus
	if f.dropdown.wantsMore() {
		return loader
	}
	return nil
}

// updateDropdown handles a key while the lookup is open. It returns the
// loader when scrolling asks for the next page.
func (f *form[F]) updateDropdown(msg tea.KeyMsg, keys KeyMap) *lookup.Loader[string] {
	switch {
	case key.Matches(msg, keys.Cancel):
		f.dropdown = nil
		return nil
	case msg.Type == tea.KeyEnter:
		if code, ok := f.dropdown.selected(); ok {
			f.inputs[f.dropdownField].SetValue(code)
			f.inputs[f.dropdownField].CursorEnd()
		}
		f.dropdown = nil
		return nil
	case key.Matches(msg, keys.Up):
		f.dropdown.moveUp()
	case key.Matches(msg, keys.Down):
		f.dropdown.moveDown()
	}
	if f.dropdown.wantsMore() {
		return f.dropdown.loader
	}
	return nil
}

// updateInput handles navigation keys and forwards the rest to the
// focused input.
func (f *form[F]) updateInput(msg tea.KeyMsg, keys KeyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.NextField):
		f.setFocus(f.focus + 1)
		return nil
	case key.Matches(msg, keys.PrevField):
		f.setFocus(f.focus - 1)
		return nil
	case key.Matches(msg, keys.Cycle):
		f.cycleChoice(1)
		return nil
	case key.Matches(msg, keys.CycleBack):
		f.cycleChoice(-1)
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return cmd
}

// render draws the form box.
func (f *form[F]) render(title string, theme Theme, keys KeyMap) string {
	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = max(labelWidth, lipgloss.Width(field.Label))
	}
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText).Width(labelWidth + 2)
	focusedLabel := labelStyle.Foreground(theme.AccentText)

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(title), ""}
	for i, field := range f.fields {
		style := labelStyle
		if i == f.focus {
			style = focusedLabel
		}
		lines = append(lines, style.Render(field.Label)+f.inputs[i].View())
	}
	lines = append(lines, "")
	if f.err != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ErrorText).Render(f.err), "")
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.HelpText).Render(
		helpLine(keys.NextField, keys.Cycle, keys.Lookup, keys.Submit, keys.Cancel)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// dropdownAnchor is where the open dropdown goes, relative to the top-left
// corner of the rendered box: under the input of its field.
func (f *form[F]) dropdownAnchor() (x, y int) {
	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = max(labelWidth, lipgloss.Width(field.Label))
	}
	// Border and padding, then label column; border, title and blank line.
	return 2 + labelWidth + 2, 3 + f.dropdownField + 1
}

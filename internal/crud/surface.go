package crud

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// ErrNoDialog is returned by Save and ConfirmDelete when the matching
// dialog is not open.
var ErrNoDialog = errors.New("no dialog open")

// ErrNoField is returned by SetField for an index outside the field list.
var ErrNoField = errors.New("no such field")

// Backend is what a Surface drives. *Coordinator satisfies it.
type Backend[T, F any, ID comparable] interface {
	Snapshot() Snapshot[T]
	SetWindow(ctx context.Context, w types.PageWindow) error
	Create(ctx context.Context, data F) error
	Update(ctx context.Context, id ID, data F) error
	Delete(ctx context.Context, id ID) error
}

var _ Backend[types.Location, types.LocationFormData, string] = (*Coordinator[types.Location, types.LocationFormData, string])(nil)

// Projector supplies the three functions a Surface needs to move between
// the read shape T and the form shape F.
type Projector[T, F any, ID comparable] struct {
	Zero       func() F
	ToForm     func(T) F
	IdentityOf func(T) ID
}

// Column describes one grid column.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Field describes one editable field of a form. Set parses text into a new
// draft or returns an error, leaving the old draft untouched.
type Field[F any] struct {
	Label string
	Get   func(F) string
	Set   func(F, string) (F, error)
	// Lookup marks fields whose value is chosen from the location-code
	// lookup list.
	Lookup bool
	// Choices, when set, is the closed set of values the field accepts.
	Choices []string
}

// DialogKind tags which dialog is open.
type DialogKind int

// Dialog kinds.
const (
	DialogClosed DialogKind = iota
	DialogAdding
	DialogEditing
	DialogConfirmDelete
)

func (k DialogKind) String() string {
	switch k {
	case DialogAdding:
		return "adding"
	case DialogEditing:
		return "editing"
	case DialogConfirmDelete:
		return "confirm-delete"
	}
	return "closed"
}

// Dialog is the open dialog, its target and its draft. TargetID is only
// meaningful for DialogEditing and DialogConfirmDelete. Generation grows
// every time a dialog opens and is kept when it closes, so two dialogs of
// the same kind can be told apart.
type Dialog[F any, ID comparable] struct {
	Kind       DialogKind
	TargetID   ID
	Draft      F
	Generation uint64
}

// IsOpen reports whether any dialog is showing.
func (d Dialog[F, ID]) IsOpen() bool { return d.Kind != DialogClosed }

// IsEdit reports whether Save will update rather than create.
func (d Dialog[F, ID]) IsEdit() bool { return d.Kind == DialogEditing }

// Surface is the interaction state of one data grid: columns, editors and
// which dialog is open. Rows come from the Backend; edit and delete can only
// target rows on the loaded page.
type Surface[T, F any, ID comparable] struct {
	label     string
	backend   Backend[T, F, ID]
	projector Projector[T, F, ID]
	columns   []Column[T]
	fields    []Field[F]

	mu         sync.Mutex
	dialog     Dialog[F, ID]
	generation uint64
}

// NewSurface creates a Surface titled with label, e.g. "Location".
func NewSurface[T, F any, ID comparable](label string, backend Backend[T, F, ID], projector Projector[T, F, ID], columns []Column[T], fields []Field[F]) *Surface[T, F, ID] {
	return &Surface[T, F, ID]{
		label:     label,
		backend:   backend,
		projector: projector,
		columns:   columns,
		fields:    fields,
	}
}

// Label returns the entity label.
func (s *Surface[T, F, ID]) Label() string { return s.label }

// Columns returns the grid columns.
func (s *Surface[T, F, ID]) Columns() []Column[T] { return s.columns }

// Fields returns the form fields.
func (s *Surface[T, F, ID]) Fields() []Field[F] { return s.fields }

// Snapshot returns the backend state.
func (s *Surface[T, F, ID]) Snapshot() Snapshot[T] { return s.backend.Snapshot() }

// SetWindow forwards a page change to the backend.
func (s *Surface[T, F, ID]) SetWindow(ctx context.Context, w types.PageWindow) error {
	return s.backend.SetWindow(ctx, w)
}

// Dialog returns the current dialog state.
func (s *Surface[T, F, ID]) Dialog() Dialog[F, ID] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}

// Title returns the dialog title, or "" when closed.
func (s *Surface[T, F, ID]) Title() string {
	switch s.Dialog().Kind {
	case DialogAdding:
		return "Add " + s.label
	case DialogEditing:
		return "Edit " + s.label
	case DialogConfirmDelete:
		return "Delete " + s.label
	}
	return ""
}

// OpenAdd opens the add dialog with a zero draft.
func (s *Surface[T, F, ID]) OpenAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.dialog = Dialog[F, ID]{Kind: DialogAdding, Draft: s.projector.Zero(), Generation: s.generation}
}

// OpenEdit opens the edit dialog for the row with id. Returns false, and
// changes nothing, when no row on the loaded page has that id.
func (s *Surface[T, F, ID]) OpenEdit(id ID) bool {
	row, ok := s.find(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.dialog = Dialog[F, ID]{Kind: DialogEditing, TargetID: id, Draft: s.projector.ToForm(row), Generation: s.generation}
	return true
}

// OpenDelete opens the delete confirmation for the row with id. Same lookup
// rules as OpenEdit.
func (s *Surface[T, F, ID]) OpenDelete(id ID) bool {
	row, ok := s.find(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.dialog = Dialog[F, ID]{Kind: DialogConfirmDelete, TargetID: id, Draft: s.projector.ToForm(row), Generation: s.generation}
	return true
}

func (s *Surface[T, F, ID]) find(id ID) (T, bool) {
	for _, row := range s.backend.Snapshot().Rows {
		if s.projector.IdentityOf(row) == id {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// SetDraft replaces the draft of an open add or edit dialog.
func (s *Surface[T, F, ID]) SetDraft(draft F) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog.Kind == DialogAdding || s.dialog.Kind == DialogEditing {
		s.dialog.Draft = draft
	}
}

// SetField parses text into field i of the draft.
func (s *Surface[T, F, ID]) SetField(i int, text string) error {
	if i < 0 || i >= len(s.fields) {
		return fmt.Errorf("%w: %d", ErrNoField, i)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog.Kind != DialogAdding && s.dialog.Kind != DialogEditing {
		return ErrNoDialog
	}
	draft, err := s.fields[i].Set(s.dialog.Draft, text)
	if err != nil {
		return fmt.Errorf("%s: %w", s.fields[i].Label, err)
	}
	s.dialog.Draft = draft
	return nil
}

// Save creates or updates from the draft depending on the dialog kind. On
// success the dialog closes; on failure it stays open and the error is
// returned.
func (s *Surface[T, F, ID]) Save(ctx context.Context) error {
	d := s.Dialog()
	var err error
	switch d.Kind {
	case DialogAdding:
		err = s.backend.Create(ctx, d.Draft)
	case DialogEditing:
		err = s.backend.Update(ctx, d.TargetID, d.Draft)
	default:
		return ErrNoDialog
	}
	if err != nil {
		return err
	}
	s.closeIf(d.Generation)
	return nil
}

// ConfirmDelete deletes the confirmation target. The dialog closes only on
// success.
func (s *Surface[T, F, ID]) ConfirmDelete(ctx context.Context) error {
	d := s.Dialog()
	if d.Kind != DialogConfirmDelete {
		return ErrNoDialog
	}
	if err := s.backend.Delete(ctx, d.TargetID); err != nil {
		return err
	}
	s.closeIf(d.Generation)
	return nil
}

// Cancel closes any dialog and drops the draft.
func (s *Surface[T, F, ID]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog = Dialog[F, ID]{Generation: s.generation}
}

// closeIf closes dialog generation if it is still the current one. A
// dialog opened while the request was in flight stays open.
func (s *Surface[T, F, ID]) closeIf(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog.Generation == generation {
		s.dialog = Dialog[F, ID]{Generation: generation}
	}
}

package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

func newItemSurface(t *testing.T, stub *stubResource) *Surface[item, itemForm, int64] {
	t.Helper()
	c := NewCoordinator[item, itemForm, int64](stub)
	require.NoError(t, c.Load(context.Background()))
	cols := []Column[item]{{Title: "Name", Width: 10, Value: func(i item) string { return i.Name }}}
	return NewSurface("Item", Backend[item, itemForm, int64](c), itemProjector, cols, itemFields)
}

func TestSurface_AddFlow(t *testing.T) {
	ctx := context.Background()
	stub := newStub(1)
	s := newItemSurface(t, stub)

	assert.Equal(t, "", s.Title())
	s.OpenAdd()
	d := s.Dialog()
	assert.Equal(t, DialogAdding, d.Kind)
	assert.False(t, d.IsEdit())
	assert.Equal(t, itemForm{}, d.Draft)
	assert.Equal(t, "Add Item", s.Title())

	require.NoError(t, s.SetField(0, "  new  "))
	assert.Equal(t, "new", s.Dialog().Draft.Name)

	require.NoError(t, s.Save(ctx))
	assert.False(t, s.Dialog().IsOpen())
	assert.Equal(t, itemForm{}, s.Dialog().Draft)
	assert.Equal(t, int64(2), s.Snapshot().TotalCount)
}

func TestSurface_SaveLandingAfterReopenKeepsNewDialog(t *testing.T) {
	stub := newStub(1)
	s := newItemSurface(t, stub)
	stub.createGate = make(chan struct{})

	s.OpenAdd()
	require.NoError(t, s.SetField(0, "first"))
	first := s.Dialog().Generation

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	<-stub.createGate

	s.Cancel()
	s.OpenAdd()
	require.NoError(t, s.SetField(0, "second draft"))
	assert.Greater(t, s.Dialog().Generation, first)

	stub.createGate <- struct{}{}
	require.NoError(t, <-done)

	d := s.Dialog()
	assert.Equal(t, DialogAdding, d.Kind)
	assert.Equal(t, "second draft", d.Draft.Name)
	assert.Equal(t, int64(2), s.Snapshot().TotalCount)
}

func TestSurface_EditOffPageIsNoop(t *testing.T) {
	stub := newStub(12)
	s := newItemSurface(t, stub)

	// Page 0 sorted id,desc holds 12..8; id 1 is not loaded.
	assert.False(t, s.OpenEdit(1))
	assert.False(t, s.Dialog().IsOpen())
	assert.False(t, s.OpenDelete(1))
	assert.False(t, s.Dialog().IsOpen())

	assert.True(t, s.OpenEdit(12))
	assert.Equal(t, "Edit Item", s.Title())
}

func TestSurface_FailedUpdateKeepsDialog(t *testing.T) {
	ctx := context.Background()
	stub := newStub(3)
	s := newItemSurface(t, stub)
	rows := s.Snapshot().Rows

	require.True(t, s.OpenEdit(3))
	s.SetDraft(itemForm{Name: "renamed"})
	stub.failUpdate = true

	assert.ErrorIs(t, s.Save(ctx), errBoom)
	d := s.Dialog()
	assert.True(t, d.IsEdit())
	assert.Equal(t, int64(3), d.TargetID)
	assert.Equal(t, "renamed", d.Draft.Name)
	assert.Equal(t, rows, s.Snapshot().Rows)
}

func TestSurface_ZeroIdentityIsStillAnEdit(t *testing.T) {
	ctx := context.Background()
	stub := &stubResource{items: []item{{ID: 0, Name: "zero"}}}
	s := newItemSurface(t, stub)

	require.True(t, s.OpenEdit(0))
	assert.True(t, s.Dialog().IsEdit())
	require.NoError(t, s.SetField(0, "still zero"))
	require.NoError(t, s.Save(ctx))

	assert.Len(t, stub.items, 1, "save updated rather than created")
	assert.Equal(t, "still zero", stub.items[0].Name)
}

func TestSurface_DeleteFlow(t *testing.T) {
	ctx := context.Background()
	stub := newStub(2)
	s := newItemSurface(t, stub)

	require.True(t, s.OpenDelete(2))
	assert.Equal(t, "Delete Item", s.Title())

	// Removing the row elsewhere makes the confirm fail; the dialog stays.
	require.NoError(t, stub.Delete(ctx, 2))
	assert.ErrorIs(t, s.ConfirmDelete(ctx), types.ErrNotFound)
	assert.Equal(t, DialogConfirmDelete, s.Dialog().Kind)

	s.Cancel()
	require.True(t, s.OpenDelete(1))
	require.NoError(t, s.ConfirmDelete(ctx))
	assert.False(t, s.Dialog().IsOpen())
	assert.Equal(t, int64(0), s.Snapshot().TotalCount)
}

func TestSurface_GuardsClosedDialog(t *testing.T) {
	s := newItemSurface(t, newStub(1))
	assert.ErrorIs(t, s.Save(context.Background()), ErrNoDialog)
	assert.ErrorIs(t, s.ConfirmDelete(context.Background()), ErrNoDialog)
	assert.ErrorIs(t, s.SetField(0, "x"), ErrNoDialog)
	assert.ErrorIs(t, s.SetField(5, "x"), ErrNoField)

	s.SetDraft(itemForm{Name: "ignored"})
	assert.Equal(t, itemForm{}, s.Dialog().Draft)
}

func TestCatalogProjectors(t *testing.T) {
	tr := types.Transportation{
		ID:            7,
		Origin:        types.Location{LocationCode: "IST"},
		Destination:   types.Location{LocationCode: "LHR"},
		Type:          types.TransportationFlight,
		OperatingDays: types.OperatingDays{5, 0, 3},
	}
	form := TransportationProjector.ToForm(tr)
	assert.Equal(t, types.OperatingDays{0, 3, 5}, form.OperatingDays)
	assert.Equal(t, int64(7), TransportationProjector.IdentityOf(tr))

	days := TransportationFields[3]
	assert.Equal(t, "Sun, Wed, Fri", days.Get(form))
	back, err := days.Set(form, days.Get(form))
	require.NoError(t, err)
	assert.True(t, back.OperatingDays.Equal(tr.OperatingDays))

	typ := TransportationFields[2]
	next, err := typ.Set(form, "uber")
	require.NoError(t, err)
	assert.Equal(t, types.TransportationRide, next.Type)
	_, err = typ.Set(form, "boat")
	assert.ErrorIs(t, err, types.ErrInvalidTransportationType)

	assert.Equal(t, types.OperatingDays{}, TransportationProjector.Zero().OperatingDays)
	assert.Equal(t, "IST", TransportationColumns[1].Value(tr))
}

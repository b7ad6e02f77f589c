package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

func setupLocations(t *testing.T, b *Backend, codes ...string) {
	t.Helper()
	for _, code := range codes {
		_, err := b.Locations().Create(types.LocationFormData{Name: code + " name", Country: "C", City: "X", LocationCode: code})
		require.NoError(t, err)
	}
}

func TestTransportationsTable_CRUD(t *testing.T) {
	b := setupBackend(t)
	setupLocations(t, b, "IST", "LHR", "SAW")
	tbl := b.Transportations()

	created, err := tbl.Create(types.TransportationFormData{
		OriginCode:      "IST",
		DestinationCode: "LHR",
		Type:            types.TransportationFlight,
		OperatingDays:   types.OperatingDays{time.Friday, time.Sunday, time.Wednesday},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "IST", created.Origin.LocationCode)
	assert.Equal(t, "LHR", created.Destination.LocationCode)
	assert.Equal(t, types.OperatingDays{time.Sunday, time.Wednesday, time.Friday}, created.OperatingDays)

	got, err := tbl.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	data := created.FormData()
	data.OriginCode = "SAW"
	data.Type = types.TransportationBus
	data.OperatingDays = types.OperatingDays{}
	updated, err := tbl.Update(created.ID, data)
	require.NoError(t, err)
	assert.Equal(t, "SAW", updated.Origin.LocationCode)
	assert.Equal(t, types.TransportationBus, updated.Type)
	assert.Equal(t, types.OperatingDays{}, updated.OperatingDays)

	require.NoError(t, tbl.Delete(created.ID))
	_, err = tbl.Get(created.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete(created.ID), types.ErrNotFound)
}

func TestTransportationsTable_Validation(t *testing.T) {
	b := setupBackend(t)
	setupLocations(t, b, "IST", "LHR")
	tbl := b.Transportations()

	tests := []struct {
		name string
		data types.TransportationFormData
	}{
		{"unknown type", types.TransportationFormData{OriginCode: "IST", DestinationCode: "LHR", Type: "BOAT", OperatingDays: types.OperatingDays{}}},
		{"unknown origin", types.TransportationFormData{OriginCode: "XXX", DestinationCode: "LHR", Type: types.TransportationBus, OperatingDays: types.OperatingDays{}}},
		{"empty destination", types.TransportationFormData{OriginCode: "IST", Type: types.TransportationBus, OperatingDays: types.OperatingDays{}}},
		{"null days", types.TransportationFormData{OriginCode: "IST", DestinationCode: "LHR", Type: types.TransportationBus}},
		{"day out of range", types.TransportationFormData{OriginCode: "IST", DestinationCode: "LHR", Type: types.TransportationBus, OperatingDays: types.OperatingDays{9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.Create(tt.data)
			assert.ErrorIs(t, err, types.ErrInvalidData)
		})
	}

	_, err := tbl.Update(404, types.TransportationFormData{
		OriginCode: "IST", DestinationCode: "LHR", Type: types.TransportationBus, OperatingDays: types.OperatingDays{},
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestTransportationsTable_ListAndOperatingOn(t *testing.T) {
	b := setupBackend(t)
	setupLocations(t, b, "IST", "LHR")
	tbl := b.Transportations()

	days := []types.OperatingDays{
		{time.Monday},
		{time.Monday, time.Tuesday},
		{time.Saturday},
	}
	for _, d := range days {
		_, err := tbl.Create(types.TransportationFormData{
			OriginCode: "IST", DestinationCode: "LHR", Type: types.TransportationFlight, OperatingDays: d,
		})
		require.NoError(t, err)
	}

	page, err := tbl.List(types.PageRequest{Page: 0, Size: 2, Sort: "id,desc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Greater(t, page.Items[0].ID, page.Items[1].ID)
	assert.False(t, page.IsLastPage)

	monday, err := tbl.OperatingOn(time.Monday)
	require.NoError(t, err)
	assert.Len(t, monday, 2)

	sunday, err := tbl.OperatingOn(time.Sunday)
	require.NoError(t, err)
	assert.Empty(t, sunday)
}

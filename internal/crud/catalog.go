package crud

import (
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Location grid and form.

var LocationProjector = Projector[types.Location, types.LocationFormData, string]{
	Zero:       func() types.LocationFormData { return types.LocationFormData{} },
	ToForm:     types.Location.FormData,
	IdentityOf: types.Location.Identity,
}

var LocationColumns = []Column[types.Location]{
	{Title: "Name", Width: 24, Value: func(l types.Location) string { return l.Name }},
	{Title: "Country", Width: 16, Value: func(l types.Location) string { return l.Country }},
	{Title: "City", Width: 16, Value: func(l types.Location) string { return l.City }},
	{Title: "Code", Width: 8, Value: func(l types.Location) string { return l.LocationCode }},
	{Title: "Updated", Width: 17, Value: func(l types.Location) string { return stamp(l.UpdatedAt) }},
}

var LocationFields = []Field[types.LocationFormData]{
	textField("Name",
		func(f types.LocationFormData) string { return f.Name },
		func(f *types.LocationFormData, v string) { f.Name = v }),
	textField("Country",
		func(f types.LocationFormData) string { return f.Country },
		func(f *types.LocationFormData, v string) { f.Country = v }),
	textField("City",
		func(f types.LocationFormData) string { return f.City },
		func(f *types.LocationFormData, v string) { f.City = v }),
	textField("Location code",
		func(f types.LocationFormData) string { return f.LocationCode },
		func(f *types.LocationFormData, v string) { f.LocationCode = v }),
}

// Transportation grid and form.

var TransportationProjector = Projector[types.Transportation, types.TransportationFormData, int64]{
	Zero: func() types.TransportationFormData {
		return types.TransportationFormData{OperatingDays: types.OperatingDays{}}
	},
	ToForm:     types.Transportation.FormData,
	IdentityOf: types.Transportation.Identity,
}

var TransportationColumns = []Column[types.Transportation]{
	{Title: "ID", Width: 6, Value: func(t types.Transportation) string { return strconv.FormatInt(t.ID, 10) }},
	{Title: "Origin", Width: 20, Value: func(t types.Transportation) string { return endpoint(t.Origin) }},
	{Title: "Destination", Width: 20, Value: func(t types.Transportation) string { return endpoint(t.Destination) }},
	{Title: "Type", Width: 8, Value: func(t types.Transportation) string { return string(t.Type) }},
	{Title: "Days", Width: 30, Value: func(t types.Transportation) string { return t.OperatingDays.String() }},
}

var TransportationFields = []Field[types.TransportationFormData]{
	{
		Label: "Origin code",
		Get:   func(f types.TransportationFormData) string { return f.OriginCode },
		Set: func(f types.TransportationFormData, v string) (types.TransportationFormData, error) {
			f.OriginCode = strings.TrimSpace(v)
			return f, nil
		},
		Lookup: true,
	},
	{
		Label: "Destination code",
		Get:   func(f types.TransportationFormData) string { return f.DestinationCode },
		Set: func(f types.TransportationFormData, v string) (types.TransportationFormData, error) {
			f.DestinationCode = strings.TrimSpace(v)
			return f, nil
		},
		Lookup: true,
	},
	{
		Label: "Type",
		Get:   func(f types.TransportationFormData) string { return string(f.Type) },
		Set: func(f types.TransportationFormData, v string) (types.TransportationFormData, error) {
			t, err := types.ParseTransportationType(v)
			if err != nil {
				return f, err
			}
			f.Type = t
			return f, nil
		},
		Choices: transportationChoices(),
	},
	{
		Label: "Operating days",
		Get:   func(f types.TransportationFormData) string { return f.OperatingDays.String() },
		Set: func(f types.TransportationFormData, v string) (types.TransportationFormData, error) {
			days, err := types.ParseOperatingDays(v)
			if err != nil {
				return f, err
			}
			f.OperatingDays = days
			return f, nil
		},
	},
}

func textField[F any](label string, get func(F) string, set func(*F, string)) Field[F] {
	return Field[F]{
		Label: label,
		Get:   get,
		Set: func(f F, v string) (F, error) {
			set(&f, strings.TrimSpace(v))
			return f, nil
		},
	}
}

func transportationChoices() []string {
	out := make([]string, len(types.AllTransportationTypes))
	for i, t := range types.AllTransportationTypes {
		out[i] = string(t)
	}
	return out
}

func endpoint(l types.Location) string {
	if l.Name == "" {
		return l.LocationCode
	}
	return l.Name + " (" + l.LocationCode + ")"
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

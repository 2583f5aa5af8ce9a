package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/camels-data-etl/internal/camels"
)

var frozenNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(frozenNow))
	t.Cleanup(func() { SetClock(nil) })
}

func day(d int) time.Time { return time.Date(1980, time.January, d, 0, 0, 0, 0, time.UTC) }

// forcingFrame builds a Year/Mnth/Day/prcp frame for the given January days,
// with precipitation scaled by factor.
func forcingFrame(factor float64, days ...int) *camels.Frame {
	f := camels.NewFrame([]string{"Year", "Mnth", "Day", "prcp(mm/day)", "tmax(C)"})
	for _, d := range days {
		f.AppendRow(day(d), []float64{1980, 1, float64(d), factor * float64(d), 10})
	}
	return f
}

func TestMergeForcings_SingleProduct(t *testing.T) {
	frame := forcingFrame(1, 1, 2)

	merged, err := MergeForcings([]string{"daymet"}, map[string]*camels.Frame{"daymet": frame})
	require.NoError(t, err)
	assert.Same(t, frame, merged)
}

func TestMergeForcings_SeveralProducts(t *testing.T) {
	frames := map[string]*camels.Frame{
		"daymet": forcingFrame(1, 1, 2, 3),
		"nldas":  forcingFrame(2, 4, 2, 3),
	}

	merged, err := MergeForcings([]string{"daymet", "nldas"}, frames)
	require.NoError(t, err)

	wantCols := []string{
		"Year", "Mnth", "Day",
		"prcp(mm/day)_daymet", "tmax(C)_daymet",
		"prcp(mm/day)_nldas", "tmax(C)_nldas",
	}
	if diff := cmp.Diff(wantCols, merged.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []time.Time{day(1), day(2), day(3), day(4)}, merged.Index)

	nldas, _ := merged.Column("prcp(mm/day)_nldas")
	assert.True(t, math.IsNaN(nldas[0]), "nldas has no 1980-01-01 row")
	assert.Equal(t, []float64{4, 6, 8}, nldas[1:])

	daymet, _ := merged.Column("prcp(mm/day)_daymet")
	assert.Equal(t, []float64{1, 2, 3}, daymet[:3])
	assert.True(t, math.IsNaN(daymet[3]))

	days, _ := merged.Column("Day")
	assert.Equal(t, []float64{1, 2, 3, 4}, days, "date columns cover the union")
}

func TestMergeForcings_Errors(t *testing.T) {
	_, err := MergeForcings(nil, nil)
	require.ErrorIs(t, err, ErrNoForcings)

	_, err = MergeForcings([]string{"daymet", "maurer"}, map[string]*camels.Frame{"daymet": forcingFrame(1, 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maurer")
}

func fishRiverData() BasinData {
	meteo := forcingFrame(1, 1, 2, 3)
	tmax, _ := meteo.Column("tmax(C)")
	tmax[2] = math.NaN()

	return BasinData{
		Basin:    "01013500",
		Forcings: []string{"daymet"},
		Area:     2252270960,
		Attributes: map[string]string{
			"huc":        "01",
			"gauge_name": " Fish River near Fort Kent, Maine ",
			"gauge_lat":  "47.23739",
			"gauge_lon":  "-68.58264",
		},
		Meteorology: meteo,
		Discharge: &camels.Series{
			Name:   camels.DischargeName,
			Index:  []time.Time{day(1), day(2), day(5)},
			Values: []float64{1.5, math.NaN(), 9},
		},
	}
}

func TestBuildObservations(t *testing.T) {
	freezeClock(t)

	obs := BuildObservations(fishRiverData())
	require.Len(t, obs, 3)

	first := obs[0]
	assert.Equal(t, "01013500", first.Basin)
	assert.Equal(t, "1980-01-01", first.Date)
	assert.Equal(t, frozenNow, first.ProcessedAt)
	assert.Equal(t, map[string]float64{"prcp(mm/day)": 1, "tmax(C)": 10}, first.Meteorology)
	require.NotNil(t, first.QObs)
	assert.InDelta(t, 1.5, *first.QObs, 1e-12)

	assert.Nil(t, obs[1].QObs, "NaN discharge is null")
	assert.Nil(t, obs[2].QObs, "day without streamflow row is null")
	assert.NotContains(t, obs[2].Meteorology, "tmax(C)", "missing forcing values are omitted")
	for _, o := range obs {
		assert.NotContains(t, o.Meteorology, "Year")
	}
}

func TestBuildObservations_NoDischarge(t *testing.T) {
	data := fishRiverData()
	data.Discharge = nil

	obs := BuildObservations(data)
	require.Len(t, obs, 3)
	for _, o := range obs {
		assert.Nil(t, o.QObs)
	}

	data.Meteorology = nil
	assert.Empty(t, BuildObservations(data))
}

func TestGenerateID(t *testing.T) {
	a := generateID("01013500", "1980-01-01", "daymet")
	b := generateID("01013500", "1980-01-01", "daymet")
	assert.Equal(t, a, b, "deterministic")
	assert.Regexp(t, `^01013500-[0-9a-f]{16}$`, a)

	assert.NotEqual(t, a, generateID("01013500", "1980-01-02", "daymet"))
	assert.NotEqual(t, a, generateID("01013500", "1980-01-01", "daymet,nldas"))
	assert.NotEqual(t, a, generateID("01022500", "1980-01-01", "daymet"))
}

func TestNewBasinMetadata(t *testing.T) {
	freezeClock(t)
	data := fishRiverData()

	meta := NewBasinMetadata(data, BuildObservations(data))

	assert.Equal(t, "01013500", meta.Basin)
	assert.Equal(t, "01", meta.HUC)
	assert.Equal(t, "Fish River near Fort Kent, Maine", meta.GaugeName)
	require.NotNil(t, meta.Geo)
	assert.Equal(t, Geo{Lat: 47.23739, Lon: -68.58264}, *meta.Geo)
	assert.Equal(t, 2252270960, meta.AreaM2)
	assert.Equal(t, []string{"daymet"}, meta.Forcings)
	assert.Equal(t, "1980-01-01", meta.FirstDate)
	assert.Equal(t, "1980-01-03", meta.LastDate)
	assert.Equal(t, 3, meta.Days)
	assert.Equal(t, 2, meta.MissingDischarge)
	assert.Equal(t, frozenNow, meta.ProcessedAt)
}

func TestNewBasinMetadata_WithoutCoordinates(t *testing.T) {
	data := fishRiverData()
	data.Attributes = map[string]string{"huc": "01", "gauge_lat": "NaN"}

	meta := NewBasinMetadata(data, nil)

	assert.Nil(t, meta.Geo)
	assert.Zero(t, meta.Days)
	assert.Empty(t, meta.FirstDate)
}

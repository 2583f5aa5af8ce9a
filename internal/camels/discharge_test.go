package camels

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/camels-data-etl/internal/fixture"
)

const fishRiverStreamflow = `01013500 1980 01 01      655.00 A
01013500 1980 01 02      640.00 A
01013500 1980 01 03     -999.00 M
01013500 1980 01 04      300.00
`

const fishRiverStreamflowPath = "usgs_streamflow/01/01013500_streamflow_qc.txt"

func TestConvertDischarge(t *testing.T) {
	got := ConvertDischarge(300, 831000000)
	assert.InDelta(t, 28316846.592*300*86400/(831000000*1e6), got, 1e-6)
	assert.InDelta(t, 0.88324, got, 1e-5)
	assert.Equal(t, ConvertDischarge(300, 831000000), got, "deterministic")
}

func TestLoadDischarge_ConvertsAndFlags(t *testing.T) {
	const area = 2252270960
	fsys := forcingFS(map[string]string{fishRiverStreamflowPath: fishRiverStreamflow})

	s, err := LoadDischargeFS(fsys, basinFishRiver, area)
	require.NoError(t, err)

	assert.Equal(t, DischargeName, s.Name)
	assert.Equal(t, []time.Time{date(1980, 1, 1), date(1980, 1, 2), date(1980, 1, 3), date(1980, 1, 4)}, s.Index)
	require.Equal(t, 4, s.Len())

	assert.InDelta(t, 28316846.592*655*86400/(area*1e6), s.Values[0], 1e-9)
	assert.InDelta(t, 28316846.592*640*86400/(area*1e6), s.Values[1], 1e-9)
	assert.True(t, IsMissing(s.Values[2]), "negative discharge becomes NaN")
	assert.InDelta(t, 28316846.592*300*86400/(area*1e6), s.Values[3], 1e-9, "missing flag column is tolerated")
	assert.Equal(t, 1, s.Missing())

	v, ok := s.At(date(1980, 1, 3))
	require.True(t, ok)
	assert.True(t, math.IsNaN(v))
	_, ok = s.At(date(1981, 1, 1))
	assert.False(t, ok)
}

func TestLoadDischarge_OnlyNegativeValuesAreMissing(t *testing.T) {
	content := "01013500 1980 01 01 -0.01 A\n01013500 1980 01 02 0.00 A\n01013500 1980 01 03 12.5 A\n"
	s, err := parseDischarge(strings.NewReader(content), "q.txt", 1_000_000)
	require.NoError(t, err)

	assert.True(t, IsMissing(s.Values[0]))
	assert.Zero(t, s.Values[1])
	assert.InDelta(t, ConvertDischarge(12.5, 1_000_000), s.Values[2], 1e-12)
}

func TestLoadDischarge_LookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		basin   string
		area    int
		wantErr error
	}{
		{
			name:    "unknown basin",
			files:   map[string]string{fishRiverStreamflowPath: fishRiverStreamflow},
			basin:   "99999999",
			area:    100,
			wantErr: ErrFileNotFound,
		},
		{
			name:    "missing streamflow folder",
			files:   map[string]string{nameFile: nameAttributes},
			basin:   basinFishRiver,
			area:    100,
			wantErr: ErrFileNotFound,
		},
		{
			name: "several matching files",
			files: map[string]string{
				fishRiverStreamflowPath: fishRiverStreamflow,
				"usgs_streamflow/02/01013500_streamflow_qc.txt": fishRiverStreamflow,
			},
			basin:   basinFishRiver,
			area:    100,
			wantErr: ErrAmbiguousFile,
		},
		{
			name:    "zero area",
			files:   map[string]string{fishRiverStreamflowPath: fishRiverStreamflow},
			basin:   basinFishRiver,
			area:    0,
			wantErr: ErrInvalidArea,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadDischargeFS(forcingFS(tt.files), tt.basin, tt.area)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, s)
		})
	}
}

func TestParseDischarge_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
		wantMsg  string
	}{
		{"too few fields", "01013500 1980 01 01\n", 1, "expected 6 fields, got 4"},
		{"too many fields", "01013500 1980 01 01 1.0 A extra\n", 1, "expected 6 fields, got 7"},
		{"invalid date", "01013500 1980 01 01 1.0 A\n01013500 1980 13 01 1.0 A\n", 2, "invalid date"},
		{"non numeric discharge", "\n01013500 1980 01 01 abc A\n", 2, "not numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDischarge(strings.NewReader(tt.content), "q.txt", 100)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantLine, perr.Line)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadDischarge_FromDiskAlignsWithForcings(t *testing.T) {
	root := t.TempDir()
	ds := fixture.Synthetic([]string{basinFishRiver}, date(1995, 10, 1), 120)
	require.NoError(t, fixture.Write(root, ds))

	frame, area, err := LoadForcings(root, basinFishRiver, "daymet")
	require.NoError(t, err)

	s, err := LoadDischarge(root, basinFishRiver, area)
	require.NoError(t, err)

	assert.Equal(t, frame.Index, s.Index)
	for i, d := range ds.Basins[0].Days {
		if d.QObs < 0 {
			assert.True(t, IsMissing(s.Values[i]), "day %d", i)
			continue
		}
		assert.False(t, IsMissing(s.Values[i]), "day %d", i)
	}
	assert.Equal(t, 2, s.Missing())
}

package pipeline_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/camels-data-etl/internal/camels"
	"github.com/couchcryptid/camels-data-etl/internal/fixture"
	"github.com/couchcryptid/camels-data-etl/internal/pipeline"
)

var fixtureStart = time.Date(1995, time.October, 1, 0, 0, 0, 0, time.UTC)

func writeFixture(t *testing.T, ids ...string) (string, fixture.Dataset) {
	t.Helper()
	root := t.TempDir()
	ds := fixture.Synthetic(ids, fixtureStart, 100)
	require.NoError(t, fixture.Write(root, ds))
	return root, ds
}

func TestDatasetExtractor_Extract(t *testing.T) {
	root, ds := writeFixture(t, "01013500", "01022500")
	attrs, err := camels.LoadAttributes(root, nil)
	require.NoError(t, err)

	ext := pipeline.NewExtractor(os.DirFS(root), ds.Forcings, attrs, discardLogger())
	data, err := ext.Extract(context.Background(), "01022500")
	require.NoError(t, err)

	assert.Equal(t, "01022500", data.Basin)
	assert.Equal(t, []string{"daymet"}, data.Forcings)
	assert.Equal(t, ds.Basins[1].Area, data.Area)
	assert.Equal(t, 100, data.Meteorology.Len())
	assert.Equal(t, 100, data.Discharge.Len())
	assert.Equal(t, 2, data.Discharge.Missing())
	assert.Equal(t, "02", data.Attributes["huc"])
	assert.Equal(t, ds.Basins[1].Name, data.Attributes["gauge_name"])
}

func TestDatasetExtractor_SeveralForcings(t *testing.T) {
	root := t.TempDir()
	ds := fixture.Synthetic([]string{"01013500"}, fixtureStart, 10)
	ds.Forcings = []string{"daymet", "nldas"}
	require.NoError(t, fixture.Write(root, ds))

	ext := pipeline.NewExtractor(os.DirFS(root), ds.Forcings, nil, discardLogger())
	data, err := ext.Extract(context.Background(), "01013500")
	require.NoError(t, err)

	cols := data.Meteorology.Columns()
	assert.Contains(t, cols, "prcp(mm/day)_daymet")
	assert.Contains(t, cols, "prcp(mm/day)_nldas")
	assert.Contains(t, cols, "Year")
	assert.NotContains(t, cols, "Year_nldas")
	assert.Nil(t, data.Attributes)
}

func TestDatasetExtractor_Errors(t *testing.T) {
	root, ds := writeFixture(t, "01013500")
	require.NoError(t, os.Remove(fixture.StreamflowPath(root, ds.Basins[0])))

	tests := []struct {
		name     string
		forcings []string
		basin    string
		wantErr  error
		wantMsg  string
	}{
		{"unknown basin", []string{"daymet"}, "99999999", camels.ErrFileNotFound, "load daymet forcings for basin 99999999"},
		{"unknown forcing product", []string{"maurer"}, "01013500", camels.ErrDirectoryNotFound, "maurer"},
		{"no streamflow file", []string{"daymet"}, "01013500", camels.ErrFileNotFound, "load discharge for basin 01013500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := pipeline.NewExtractor(os.DirFS(root), tt.forcings, nil, discardLogger())
			_, err := ext.Extract(context.Background(), tt.basin)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDatasetExtractor_CancelledContext(t *testing.T) {
	root, ds := writeFixture(t, "01013500")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ext := pipeline.NewExtractor(os.DirFS(root), ds.Forcings, nil, discardLogger())
	_, err := ext.Extract(ctx, "01013500")
	require.ErrorIs(t, err, context.Canceled)
}

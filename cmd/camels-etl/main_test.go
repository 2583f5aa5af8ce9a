package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/camels-data-etl/internal/config"
)

func TestResolveBasins(t *testing.T) {
	t.Run("from config list", func(t *testing.T) {
		basins, err := resolveBasins(&config.Config{Basins: []string{"01013500"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"01013500"}, basins)
	})

	t.Run("all basins", func(t *testing.T) {
		basins, err := resolveBasins(&config.Config{})
		require.NoError(t, err)
		assert.Empty(t, basins)
	})

	t.Run("from basin file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "531_basin_list.txt")
		require.NoError(t, os.WriteFile(path, []byte("01013500\n01022500\n"), 0o644))

		basins, err := resolveBasins(&config.Config{BasinFile: path})
		require.NoError(t, err)
		assert.Equal(t, []string{"01013500", "01022500"}, basins)
	})

	t.Run("empty basin file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(path, []byte("# nothing\n"), 0o644))

		_, err := resolveBasins(&config.Config{BasinFile: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lists no basins")
	})

	t.Run("missing basin file", func(t *testing.T) {
		_, err := resolveBasins(&config.Config{BasinFile: filepath.Join(t.TempDir(), "nope.txt")})
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

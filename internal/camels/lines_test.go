package camels

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		y, m, d  string
		expected time.Time
		wantErr  bool
	}{
		{"zero padded", "1980", "01", "05", date(1980, 1, 5), false},
		{"unpadded", "2014", "12", "31", date(2014, 12, 31), false},
		{"leap day", "1980", "2", "29", date(1980, 2, 29), false},
		{"no leap day", "1981", "2", "29", time.Time{}, true},
		{"month out of range", "1980", "13", "1", time.Time{}, true},
		{"day zero", "1980", "1", "0", time.Time{}, true},
		{"not a number", "1980", "Jan", "1", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.y, tt.m, tt.d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "01013500", escapeGlob("01013500"))
	assert.Equal(t, `a\*b\?\[c\]\{d\}\\`, escapeGlob(`a*b?[c]{d}\`))
}

func TestParseError(t *testing.T) {
	inner := errors.New("boom")

	withLine := &ParseError{Path: "a.txt", Line: 7, Err: inner}
	assert.Equal(t, "parse a.txt:7: boom", withLine.Error())
	assert.ErrorIs(t, withLine, inner)

	noLine := &ParseError{Path: "a.txt", Err: inner}
	assert.Equal(t, "parse a.txt: boom", noLine.Error())
}

func TestReadBasinFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basins.txt")
	content := "# CAMELS subset\n01013500\n\n  02046000  \n01022500\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	basins, err := ReadBasinFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"01013500", "02046000", "01022500"}, basins)

	_, err = ReadBasinFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package camels

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"
)

const (
	forcingRootDir = "basin_mean_forcing"

	// forcingMetadataLines precede the table; the last one carries the area.
	forcingMetadataLines = 3

	// Date columns shared by forcing and streamflow tables.
	YearColumn  = "Year"
	MonthColumn = "Mnth"
	DayColumn   = "Day"
)

// LoadForcings reads the basin-mean forcing file of one basin for a forcing
// product such as "daymet", "maurer" or "nldas". It returns the daily table and
// the catchment area in square metres recorded in the file header.
func LoadForcings(dataDir, basin, forcing string) (*Frame, int, error) {
	return LoadForcingsFS(os.DirFS(dataDir), basin, forcing)
}

// LoadForcingsFS is LoadForcings over an arbitrary filesystem rooted at the dataset.
func LoadForcingsFS(fsys fs.FS, basin, forcing string) (*Frame, int, error) {
	if forcing == "" || strings.Contains(forcing, "/") || !fs.ValidPath(forcing) {
		return nil, 0, fmt.Errorf("forcing folder %q: %w", forcing, ErrDirectoryNotFound)
	}
	dir := path.Join(forcingRootDir, forcing)
	if err := requireDir(fsys, dir); err != nil {
		return nil, 0, fmt.Errorf("forcing folder: %w", err)
	}

	name, err := findBasinFile(fsys, dir, basin, escapeGlob(basin)+"_*_forcing_leap.txt")
	if err != nil {
		return nil, 0, err
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, 0, fmt.Errorf("open forcing file: %w", err)
	}
	defer f.Close()

	return parseForcings(f, name)
}

func parseForcings(r io.Reader, name string) (*Frame, int, error) {
	lr := newLineReader(r, name)

	var areaLine string
	for i := 0; i < forcingMetadataLines; i++ {
		text, ok := lr.next()
		if !ok {
			if err := lr.err(); err != nil {
				return nil, 0, err
			}
			return nil, 0, lr.errorf("expected %d metadata lines, got %d", forcingMetadataLines, i)
		}
		areaLine = strings.TrimSpace(text)
	}
	area, err := strconv.Atoi(areaLine)
	if err != nil {
		return nil, 0, lr.errorf("catchment area %q is not an integer", areaLine)
	}

	header, ok := lr.nextFields()
	if !ok {
		if err := lr.err(); err != nil {
			return nil, 0, err
		}
		return nil, 0, lr.errorf("missing table header")
	}
	for i, col := range header {
		if slices.Contains(header[:i], col) {
			return nil, 0, lr.errorf("duplicate column %s", col)
		}
	}
	yi, mi, di := slices.Index(header, YearColumn), slices.Index(header, MonthColumn), slices.Index(header, DayColumn)
	if yi < 0 || mi < 0 || di < 0 {
		return nil, 0, &ParseError{Path: name, Line: lr.line, Err: fmt.Errorf("%w: need %s, %s and %s",
			ErrMissingColumn, YearColumn, MonthColumn, DayColumn)}
	}

	frame := NewFrame(header)
	row := make([]float64, len(header))
	for {
		fields, ok := lr.nextFields()
		if !ok {
			break
		}
		if len(fields) != len(header) {
			return nil, 0, lr.errorf("expected %d fields, got %d", len(header), len(fields))
		}
		date, err := parseDate(fields[yi], fields[mi], fields[di])
		if err != nil {
			return nil, 0, lr.errorf("%v", err)
		}
		for j, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, 0, lr.errorf("column %s: %q is not numeric", header[j], s)
			}
			row[j] = v
		}
		frame.AppendRow(date, row)
	}
	if err := lr.err(); err != nil {
		return nil, 0, err
	}

	return frame, area, nil
}

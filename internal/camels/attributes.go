package camels

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	attributesDir     = "camels_attributes_v2.0"
	attributesPattern = "camels_*.txt"

	// BasinColumn is the key column of every attribute file.
	BasinColumn = "gauge_id"

	// HUCColumn holds the two-character region code derived from huc_02.
	HUCColumn = "huc"

	hucSourceColumn = "huc_02"
)

// AttributeTable holds static catchment attributes, one row per basin.
// Cells absent from the source files are reported as missing by the accessors.
type AttributeTable struct {
	columns []string
	basins  []string
	rows    map[string]map[string]string
}

// LoadAttributes reads every attribute group below <dataDir>/camels_attributes_v2.0
// and joins them by basin. When basins is non-empty only those rows are
// returned, in the requested order, and every one of them must exist.
func LoadAttributes(dataDir string, basins []string) (*AttributeTable, error) {
	return LoadAttributesFS(os.DirFS(dataDir), basins)
}

// LoadAttributesFS is LoadAttributes over an arbitrary filesystem rooted at the dataset.
func LoadAttributesFS(fsys fs.FS, basins []string) (*AttributeTable, error) {
	if err := requireDir(fsys, attributesDir); err != nil {
		return nil, fmt.Errorf("attribute folder: %w", err)
	}

	files, err := doublestar.Glob(fsys, path.Join(attributesDir, attributesPattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", attributesDir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %s in %s", ErrFileNotFound, attributesPattern, attributesDir)
	}
	sort.Strings(files)

	t := &AttributeTable{rows: make(map[string]map[string]string)}
	for _, name := range files {
		records, err := readAttributeFile(fsys, name)
		if err != nil {
			return nil, err
		}
		if err := t.merge(name, records); err != nil {
			return nil, err
		}
	}

	if err := t.deriveHUC(); err != nil {
		return nil, err
	}

	if len(basins) > 0 {
		return t.subset(basins)
	}
	return t, nil
}

// readAttributeFile parses one semicolon-delimited attribute file, keeping
// every cell as text so identifiers retain their leading zeros.
func readAttributeFile(fsys fs.FS, name string) ([][]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open attribute file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(';'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, &ParseError{Path: name, Err: df.Err}
	}
	return df.Records(), nil
}

// merge performs a full outer join of one file's rows into the table.
func (t *AttributeTable) merge(name string, records [][]string) error {
	header := records[0]
	for _, col := range header[1:] {
		if !slices.Contains(t.columns, col) {
			t.columns = append(t.columns, col)
		}
	}

	inFile := make(map[string]bool, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		basin := strings.TrimSpace(rec[0])
		if basin == "" {
			return &ParseError{Path: name, Line: line, Err: fmt.Errorf("empty %s", header[0])}
		}
		if inFile[basin] {
			return &ParseError{Path: name, Line: line, Err: fmt.Errorf("duplicate basin %s", basin)}
		}
		inFile[basin] = true

		row, ok := t.rows[basin]
		if !ok {
			row = make(map[string]string, len(header))
			t.rows[basin] = row
			t.basins = append(t.basins, basin)
		}
		for j := 1; j < len(header) && j < len(rec); j++ {
			v := strings.TrimSpace(rec[j])
			if isMissingText(v) {
				continue
			}
			if _, exists := row[header[j]]; !exists {
				row[header[j]] = v
			}
		}
	}
	return nil
}

// deriveHUC replaces huc_02 with the zero-padded text column huc, appended last.
func (t *AttributeTable) deriveHUC() error {
	if !slices.Contains(t.columns, hucSourceColumn) {
		return fmt.Errorf("%w: %s in %s", ErrMissingColumn, hucSourceColumn, attributesDir)
	}

	for _, basin := range t.basins {
		row := t.rows[basin]
		raw, ok := row[hucSourceColumn]
		delete(row, hucSourceColumn)
		if !ok {
			delete(row, HUCColumn)
			continue
		}
		huc, err := padHUC(raw)
		if err != nil {
			return fmt.Errorf("basin %s: %w", basin, err)
		}
		row[HUCColumn] = huc
	}

	t.columns = slices.DeleteFunc(t.columns, func(c string) bool {
		return c == hucSourceColumn || c == HUCColumn
	})
	t.columns = append(t.columns, HUCColumn)
	return nil
}

// padHUC formats a numeric region code as two characters: "1" -> "01".
func padHUC(raw string) (string, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != math.Trunc(f) {
			return "", fmt.Errorf("invalid %s value %q", hucSourceColumn, raw)
		}
		n = int(f)
	}
	return fmt.Sprintf("%02d", n), nil
}

func (t *AttributeTable) subset(basins []string) (*AttributeTable, error) {
	var missing []string
	for _, b := range basins {
		if _, ok := t.rows[b]; !ok {
			missing = append(missing, b)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingAttributes, strings.Join(missing, ", "))
	}

	out := &AttributeTable{
		columns: t.columns,
		rows:    make(map[string]map[string]string, len(basins)),
	}
	for _, b := range basins {
		if _, dup := out.rows[b]; dup {
			continue
		}
		out.rows[b] = t.rows[b]
		out.basins = append(out.basins, b)
	}
	return out, nil
}

// Columns returns the attribute names, excluding the basin key.
func (t *AttributeTable) Columns() []string { return slices.Clone(t.columns) }

// Basins returns the basin identifiers in row order.
func (t *AttributeTable) Basins() []string { return slices.Clone(t.basins) }

// Len returns the number of basins.
func (t *AttributeTable) Len() int { return len(t.basins) }

// Has reports whether basin has a row.
func (t *AttributeTable) Has(basin string) bool {
	_, ok := t.rows[basin]
	return ok
}

// Get returns an attribute as text. ok is false for unknown basins and missing cells.
func (t *AttributeTable) Get(basin, column string) (string, bool) {
	row, ok := t.rows[basin]
	if !ok {
		return "", false
	}
	v, ok := row[column]
	return v, ok
}

// Float returns a numeric attribute.
func (t *AttributeTable) Float(basin, column string) (float64, bool) {
	s, ok := t.Get(basin, column)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Row returns a copy of a basin's non-missing attributes.
func (t *AttributeTable) Row(basin string) (map[string]string, bool) {
	row, ok := t.rows[basin]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, true
}

// DataFrame converts the table to a gota DataFrame with gauge_id as the first
// column. gauge_id and huc stay strings; other column types are detected.
// An empty table yields a DataFrame whose Err is set.
func (t *AttributeTable) DataFrame() dataframe.DataFrame {
	header := append([]string{BasinColumn}, t.columns...)
	records := make([][]string, 0, len(t.basins)+1)
	records = append(records, header)
	for _, b := range t.basins {
		rec := make([]string, len(header))
		rec[0] = b
		for j, c := range t.columns {
			if v, ok := t.rows[b][c]; ok {
				rec[j+1] = v
			} else {
				rec[j+1] = "NaN"
			}
		}
		records = append(records, rec)
	}

	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(map[string]series.Type{
			BasinColumn: series.String,
			HUCColumn:   series.String,
		}),
	)
}

func isMissingText(s string) bool {
	switch s {
	case "", "NaN", "nan", "NA", "N/A":
		return true
	}
	return false
}

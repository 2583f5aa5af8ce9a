package camels

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
)

const (
	dischargeDir = "usgs_streamflow"

	// DischargeName labels the converted discharge series.
	DischargeName = "QObs(mm/d)"

	mm3PerCubicFoot = 28316846.592
	secondsPerDay   = 86400
	mm2PerSquareM   = 1e6
)

// Streamflow files carry no header; columns are positional.
var dischargeColumns = []string{"basin", YearColumn, MonthColumn, DayColumn, "QObs", "flag"}

// LoadDischarge reads one basin's USGS streamflow file and converts it to
// mm/day over area, the catchment area in square metres returned by
// LoadForcings. Negative values become NaN in place.
func LoadDischarge(dataDir, basin string, area int) (*Series, error) {
	return LoadDischargeFS(os.DirFS(dataDir), basin, area)
}

// LoadDischargeFS is LoadDischarge over an arbitrary filesystem rooted at the dataset.
func LoadDischargeFS(fsys fs.FS, basin string, area int) (*Series, error) {
	if area <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidArea, area)
	}

	// A missing usgs_streamflow directory yields no match rather than a directory error.
	name, err := findBasinFile(fsys, dischargeDir, basin, escapeGlob(basin)+"_streamflow_qc.txt")
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open streamflow file: %w", err)
	}
	defer f.Close()

	return parseDischarge(f, name, area)
}

func parseDischarge(r io.Reader, name string, area int) (*Series, error) {
	lr := newLineReader(r, name)
	s := &Series{Name: DischargeName}

	for {
		fields, ok := lr.nextFields()
		if !ok {
			break
		}
		// The quality flag is occasionally absent.
		if len(fields) < len(dischargeColumns)-1 || len(fields) > len(dischargeColumns) {
			return nil, lr.errorf("expected %d fields, got %d", len(dischargeColumns), len(fields))
		}
		date, err := parseDate(fields[1], fields[2], fields[3])
		if err != nil {
			return nil, lr.errorf("%v", err)
		}
		cfs, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, lr.errorf("column %s: %q is not numeric", dischargeColumns[4], fields[4])
		}

		q := ConvertDischarge(cfs, area)
		if q < 0 {
			q = math.NaN()
		}
		s.Index = append(s.Index, date)
		s.Values = append(s.Values, q)
	}
	if err := lr.err(); err != nil {
		return nil, err
	}

	return s, nil
}

// ConvertDischarge converts cubic feet per second to millimetres per day over
// a catchment of area square metres.
func ConvertDischarge(cfs float64, area int) float64 {
	return mm3PerCubicFoot * cfs * secondsPerDay / (float64(area) * mm2PerSquareM)
}

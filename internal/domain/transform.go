package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/camels-data-etl/internal/camels"
)

// ErrNoForcings is returned by MergeForcings when no product is given.
var ErrNoForcings = errors.New("no forcing products")

// Attribute columns read into BasinMetadata.
const (
	gaugeNameColumn = "gauge_name"
	gaugeLatColumn  = "gauge_lat"
	gaugeLonColumn  = "gauge_lon"
)

// dateColumns are shared by every forcing product and never suffixed.
var dateColumns = []string{camels.YearColumn, camels.MonthColumn, camels.DayColumn}

func isDateColumn(name string) bool { return slices.Contains(dateColumns, name) }

// MergeForcings combines the frames of several forcing products on date.
// A single product is returned unchanged. With several products every column
// except Year/Mnth/Day is renamed to "<column>_<forcing>", the date columns are
// kept once, and the index is the sorted union of all dates. Cells a product
// does not cover are NaN.
func MergeForcings(forcings []string, frames map[string]*camels.Frame) (*camels.Frame, error) {
	if len(forcings) == 0 {
		return nil, ErrNoForcings
	}
	for _, f := range forcings {
		if frames[f] == nil {
			return nil, fmt.Errorf("merge forcings: no frame for %q", f)
		}
	}
	if len(forcings) == 1 {
		return frames[forcings[0]], nil
	}

	columns := slices.Clone(dateColumns)
	for _, f := range forcings {
		for _, c := range frames[f].Columns() {
			if !isDateColumn(c) {
				columns = append(columns, c+"_"+f)
			}
		}
	}

	var index []time.Time
	seen := make(map[time.Time]bool)
	for _, f := range forcings {
		for _, d := range frames[f].Index {
			if !seen[d] {
				seen[d] = true
				index = append(index, d)
			}
		}
	}
	slices.SortFunc(index, func(a, b time.Time) int { return a.Compare(b) })

	rowOf := make(map[string]map[time.Time]int, len(forcings))
	for _, f := range forcings {
		rows := make(map[time.Time]int, frames[f].Len())
		for i, d := range frames[f].Index {
			rows[d] = i
		}
		rowOf[f] = rows
	}

	merged := camels.NewFrame(columns)
	row := make([]float64, len(columns))
	for _, d := range index {
		row[0], row[1], row[2] = float64(d.Year()), float64(d.Month()), float64(d.Day())
		k := len(dateColumns)
		for _, f := range forcings {
			i, ok := rowOf[f][d]
			for _, c := range frames[f].Columns() {
				if isDateColumn(c) {
					continue
				}
				v := math.NaN()
				if ok {
					v, _ = frames[f].Value(i, c)
				}
				row[k] = v
				k++
			}
		}
		merged.AppendRow(d, row)
	}
	return merged, nil
}

// BuildObservations left-joins discharge onto the meteorology index. Days the
// streamflow record does not cover, or covers with a negative value, get a nil
// QObs. Streamflow days outside the forcing record are dropped.
func BuildObservations(data BasinData) []Observation {
	if data.Meteorology == nil {
		return nil
	}

	discharge := make(map[time.Time]float64)
	if data.Discharge != nil {
		for i, d := range data.Discharge.Index {
			discharge[d] = data.Discharge.Values[i]
		}
	}

	var meteo []string
	for _, c := range data.Meteorology.Columns() {
		if !isDateColumn(c) {
			meteo = append(meteo, c)
		}
	}

	forcingKey := strings.Join(data.Forcings, ",")
	now := clock.Now().UTC()
	out := make([]Observation, 0, data.Meteorology.Len())
	for i, d := range data.Meteorology.Index {
		date := d.Format(camels.DateLayout)
		obs := Observation{
			ID:          generateID(data.Basin, date, forcingKey),
			Basin:       data.Basin,
			Date:        date,
			Meteorology: make(map[string]float64, len(meteo)),
			ProcessedAt: now,
		}
		for _, c := range meteo {
			if v, ok := data.Meteorology.Value(i, c); ok && !camels.IsMissing(v) {
				obs.Meteorology[c] = v
			}
		}
		if q, ok := discharge[d]; ok && !camels.IsMissing(q) {
			obs.QObs = &q
		}
		out = append(out, obs)
	}
	return out
}

// NewBasinMetadata summarizes a basin and the observations built from it.
func NewBasinMetadata(data BasinData, obs []Observation) BasinMetadata {
	meta := BasinMetadata{
		Basin:       data.Basin,
		HUC:         data.Attributes[camels.HUCColumn],
		GaugeName:   strings.TrimSpace(data.Attributes[gaugeNameColumn]),
		AreaM2:      data.Area,
		Forcings:    slices.Clone(data.Forcings),
		Days:        len(obs),
		Attributes:  data.Attributes,
		ProcessedAt: clock.Now().UTC(),
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(data.Attributes[gaugeLatColumn]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(data.Attributes[gaugeLonColumn]), 64)
	if latErr == nil && lonErr == nil {
		meta.Geo = &Geo{Lat: lat, Lon: lon}
	}

	if len(obs) > 0 {
		meta.FirstDate = obs[0].Date
		meta.LastDate = obs[len(obs)-1].Date
	}
	for _, o := range obs {
		if o.QObs == nil {
			meta.MissingDischarge++
		}
	}
	return meta
}

// generateID creates a deterministic observation ID from the basin, the day
// and the forcing products it was built from.
func generateID(basin, date, forcings string) string {
	input := fmt.Sprintf("%s|%s|%s", basin, date, forcings)
	hash := sha256.Sum256([]byte(input))
	return basin + "-" + hex.EncodeToString(hash[:8])
}

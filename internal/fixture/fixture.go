// Package fixture writes small CAMELS US directory trees for tests and demos.
// The files follow the layout and text formats of the original dataset so the
// loaders read them exactly as they read the real download.
package fixture

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MissingDischarge is the USGS sentinel for an absent observation (cfs).
const MissingDischarge = -999.0

// Dataset describes a synthetic dataset.
type Dataset struct {
	Forcings []string // forcing products, e.g. "daymet"
	Basins   []Basin
}

// Basin is one gauged catchment and its daily records.
type Basin struct {
	ID        string
	HUC       int
	Name      string
	Lat       float64
	Lon       float64
	Elevation float64
	Area      int // m²
	Days      []Day
}

// Day holds one day of forcing and streamflow values.
type Day struct {
	Date time.Time
	Dayl float64 // s
	Prcp float64 // mm/day
	Srad float64 // W/m2
	SWE  float64 // mm
	Tmax float64 // C
	Tmin float64 // C
	Vp   float64 // Pa
	QObs float64 // cfs, MissingDischarge when absent
	Flag string
}

// ForcingHeader is the column header line of a forcing file.
const ForcingHeader = "Year Mnth Day Hr\tdayl(s)\tprcp(mm/day)\tsrad(W/m2)\tswe(mm)\ttmax(C)\ttmin(C)\tvp(Pa)"

// Synthetic builds a deterministic dataset: one daymet product, basins with
// the given ids and days consecutive days from start. Every 50th day has a
// missing discharge observation.
func Synthetic(ids []string, start time.Time, days int) Dataset {
	ds := Dataset{Forcings: []string{"daymet"}}
	for i, id := range ids {
		b := Basin{
			ID:        id,
			HUC:       i%18 + 1,
			Name:      fmt.Sprintf("Test River near Gauge %d", i+1),
			Lat:       40 + float64(i)*0.5,
			Lon:       -100 + float64(i)*0.5,
			Elevation: 250 + float64(i)*10,
			Area:      (i + 1) * 100_000_000,
		}
		for d := 0; d < days; d++ {
			phase := 2 * math.Pi * float64(d) / 365
			day := Day{
				Date: start.AddDate(0, 0, d),
				Dayl: 43200 + 10000*math.Sin(phase),
				Prcp: math.Max(0, 3*math.Sin(phase*3+float64(i))),
				Srad: 250 + 100*math.Sin(phase),
				Tmax: 15 + 10*math.Sin(phase),
				Tmin: 2 + 8*math.Sin(phase),
				Vp:   800 + 200*math.Sin(phase),
				QObs: 100 + 50*math.Sin(phase+float64(i)),
				Flag: "A",
			}
			if d%50 == 49 {
				day.QObs = MissingDischarge
				day.Flag = "M"
			}
			b.Days = append(b.Days, day)
		}
		ds.Basins = append(ds.Basins, b)
	}
	return ds
}

// Write creates the dataset below root: attribute files, one forcing file per
// basin and product, and one streamflow file per basin.
func Write(root string, ds Dataset) error {
	if err := writeAttributes(root, ds.Basins); err != nil {
		return err
	}
	for _, b := range ds.Basins {
		for _, forcing := range ds.Forcings {
			if err := writeText(ForcingPath(root, forcing, b), forcingFile(b)); err != nil {
				return err
			}
		}
		if err := writeText(StreamflowPath(root, b), streamflowFile(b)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(root, rel, content string) error {
	return writeText(filepath.Join(root, filepath.FromSlash(rel)), content)
}

// ForcingPath returns where Write puts a basin's forcing file.
func ForcingPath(root, forcing string, b Basin) string {
	source := forcing
	if forcing == "daymet" {
		source = "cida"
	}
	return filepath.Join(root, "basin_mean_forcing", forcing, hucDir(b),
		fmt.Sprintf("%s_lump_%s_forcing_leap.txt", b.ID, source))
}

// StreamflowPath returns where Write puts a basin's streamflow file.
func StreamflowPath(root string, b Basin) string {
	return filepath.Join(root, "usgs_streamflow", hucDir(b), b.ID+"_streamflow_qc.txt")
}

func hucDir(b Basin) string { return fmt.Sprintf("%02d", b.HUC) }

func writeAttributes(root string, basins []Basin) error {
	var name, topo strings.Builder
	name.WriteString("gauge_id;huc_02;gauge_name\n")
	topo.WriteString("gauge_id;gauge_lat;gauge_lon;elev_mean;area_gages2\n")
	for _, b := range basins {
		fmt.Fprintf(&name, "%s;%d;%s\n", b.ID, b.HUC, b.Name)
		fmt.Fprintf(&topo, "%s;%.5f;%.5f;%.2f;%.2f\n", b.ID, b.Lat, b.Lon, b.Elevation, float64(b.Area)/1e6)
	}

	dir := "camels_attributes_v2.0"
	if err := WriteFile(root, dir+"/camels_name.txt", name.String()); err != nil {
		return err
	}
	return WriteFile(root, dir+"/camels_topo.txt", topo.String())
}

func forcingFile(b Basin) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.5f\n%.0f\n%d\n%s\n", b.Lat, b.Elevation, b.Area, ForcingHeader)
	for _, d := range b.Days {
		fmt.Fprintf(&sb, "%d %02d %02d 12\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			d.Date.Year(), int(d.Date.Month()), d.Date.Day(),
			d.Dayl, d.Prcp, d.Srad, d.SWE, d.Tmax, d.Tmin, d.Vp)
	}
	return sb.String()
}

func streamflowFile(b Basin) string {
	var sb strings.Builder
	for _, d := range b.Days {
		fmt.Fprintf(&sb, "%s %d %02d %02d %10.2f %s\n",
			b.ID, d.Date.Year(), int(d.Date.Month()), d.Date.Day(), d.QObs, d.Flag)
	}
	return sb.String()
}

func writeText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

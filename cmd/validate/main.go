// Command validate checks the integrity of a CAMELS US download before it is
// fed to camels-etl. It loads every selected basin with the same loaders the
// pipeline uses and reports, phase by phase, anything that would make a run
// fail or publish suspicious data.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data-dir data/CAMELS_US \
//	  -forcings daymet,nldas \
//	  -basin-file data/531_basin_list.txt
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/camels-data-etl/internal/camels"
)

// areaTolerance is the accepted relative difference between the forcing
// header area and area_gages2.
const areaTolerance = 0.10

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "CAMELS US dataset root")
	forcings := flag.String("forcings", "daymet", "comma separated forcing products")
	basins := flag.String("basins", "", "comma separated basin ids (default: all basins in the attribute tables)")
	basinFile := flag.String("basin-file", "", "file with one basin id per line")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	ids := splitList(*basins)
	if *basinFile != "" {
		var err error
		if ids, err = camels.ReadBasinFile(*basinFile); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read basin file: %v\n", err)
			os.Exit(1)
		}
	}

	os.Exit(run(os.Stdout, *dataDir, splitList(*forcings), ids))
}

// basinRecord is what the forcing phase hands to the discharge phase.
type basinRecord struct {
	index []time.Time
	area  int
}

func run(w io.Writer, dataDir string, forcings, basins []string) int {
	fmt.Fprintln(w, "=== CAMELS US Integrity Validation ===")
	fmt.Fprintln(w)

	attrs, attrPhase := validateAttributes(dataDir, basins)
	if attrs == nil {
		report(w, []*phase{attrPhase})
		return 1
	}
	if len(basins) == 0 {
		basins = attrs.Basins()
	}

	records := make(map[string]basinRecord, len(basins))
	phases := []*phase{
		attrPhase,
		validateForcings(dataDir, forcings, basins, attrs, records),
		validateDischarge(dataDir, basins, records),
	}

	fmt.Fprintf(w, "Basins: %d, forcing products: %s\n", len(basins), strings.Join(forcings, ","))
	if !report(w, phases) {
		return 1
	}
	return 0
}

// report prints the phase table and details. It returns true if every phase passed.
func report(w io.Writer, phases []*phase) bool {
	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.notes) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Fprintf(w, "  Note: %s\n", n)
		}
	}

	fmt.Fprintln(w)
	if allPassed {
		fmt.Fprintln(w, "All phases passed.")
	}
	return allPassed
}

func validateAttributes(dataDir string, basins []string) (*camels.AttributeTable, *phase) {
	p := &phase{name: "Phase 1: Static Attributes"}

	attrs, err := camels.LoadAttributes(dataDir, basins)
	if err != nil {
		p.errorf("load attributes: %v", err)
		return nil, p
	}

	if attrs.Len() == 0 {
		p.errorf("attribute tables list no basins")
	}
	for _, b := range attrs.Basins() {
		huc, ok := attrs.Get(b, camels.HUCColumn)
		switch {
		case !ok:
			p.errorf("basin %s: missing huc", b)
		case len(huc) != 2:
			p.errorf("basin %s: huc %q is not two characters", b, huc)
		}
	}
	p.notef("%d basins, %d attribute columns", attrs.Len(), len(attrs.Columns()))
	return attrs, p
}

func validateForcings(dataDir string, forcings, basins []string, attrs *camels.AttributeTable, records map[string]basinRecord) *phase {
	p := &phase{name: "Phase 2: Forcings"}
	areaMismatch := 0

	for _, b := range basins {
		for i, forcing := range forcings {
			frame, area, err := camels.LoadForcings(dataDir, b, forcing)
			if err != nil {
				p.errorf("basin %s: %v", b, err)
				continue
			}
			if area <= 0 {
				p.errorf("basin %s %s: non-positive area %d", b, forcing, area)
			}
			if frame.Len() == 0 {
				p.errorf("basin %s %s: no rows", b, forcing)
				continue
			}
			if d, ok := firstNonIncreasing(frame.Index); ok {
				p.errorf("basin %s %s: dates not strictly increasing at %s", b, forcing, d.Format(camels.DateLayout))
			}
			if i > 0 {
				continue
			}
			records[b] = basinRecord{index: frame.Index, area: area}

			if km2, ok := attrs.Float(b, "area_gages2"); ok && area > 0 {
				if math.Abs(float64(area)/1e6-km2)/km2 > areaTolerance {
					areaMismatch++
				}
			}
		}
	}
	if areaMismatch > 0 {
		p.notef("%d basin(s) differ from area_gages2 by more than %.0f%%", areaMismatch, areaTolerance*100)
	}
	return p
}

func validateDischarge(dataDir string, basins []string, records map[string]basinRecord) *phase {
	p := &phase{name: "Phase 3: Discharge Alignment"}
	var missing, total, outside int

	for _, b := range basins {
		rec, ok := records[b]
		if !ok {
			continue // already reported by the forcing phase
		}
		q, err := camels.LoadDischarge(dataDir, b, rec.area)
		if err != nil {
			p.errorf("basin %s: %v", b, err)
			continue
		}
		if d, ok := firstNonIncreasing(q.Index); ok {
			p.errorf("basin %s: discharge dates not strictly increasing at %s", b, d.Format(camels.DateLayout))
		}
		if q.Len() > 0 && q.Missing() == q.Len() {
			p.errorf("basin %s: no valid discharge observation", b)
		}

		covered := make(map[time.Time]bool, len(rec.index))
		for _, d := range rec.index {
			covered[d] = true
		}
		for _, d := range q.Index {
			if !covered[d] {
				outside++
			}
		}
		missing += q.Missing()
		total += q.Len()
	}

	if total > 0 {
		p.notef("%d of %d discharge days missing (%.2f%%)", missing, total, 100*float64(missing)/float64(total))
	}
	if outside > 0 {
		p.notef("%d discharge day(s) fall outside the forcing record and are dropped by the pipeline", outside)
	}
	return p
}

// firstNonIncreasing returns the first date that is not after its predecessor.
func firstNonIncreasing(index []time.Time) (time.Time, bool) {
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return index[i], true
		}
	}
	return time.Time{}, false
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

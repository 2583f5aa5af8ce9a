// Command genfixture writes a small synthetic CAMELS US tree for demos and
// local runs of camels-etl. With -events-out it also writes the messages the
// pipeline would publish for that tree, using the real extract and transform
// stages and a fixed clock.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -out data/CAMELS_US \
//	  -basins 01013500,01022500,02046000 \
//	  -start 1995-10-01 -days 365 \
//	  -events-out data/mock/camels_events.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/camels-data-etl/internal/camels"
	"github.com/couchcryptid/camels-data-etl/internal/domain"
	"github.com/couchcryptid/camels-data-etl/internal/fixture"
	"github.com/couchcryptid/camels-data-etl/internal/observability"
	"github.com/couchcryptid/camels-data-etl/internal/pipeline"
)

// fixedNow stamps ProcessedAt in generated events.
var fixedNow = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	out       string
	basins    []string
	forcings  []string
	start     time.Time
	days      int
	eventsOut string
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("genfixture", flag.ContinueOnError)
	out := fs.String("out", "", "dataset root to create")
	basins := fs.String("basins", "01013500,01022500", "comma separated basin ids")
	forcings := fs.String("forcings", "daymet", "comma separated forcing products")
	start := fs.String("start", "1995-10-01", "first day (YYYY-MM-DD)")
	days := fs.Int("days", 365, "number of days per basin")
	eventsOut := fs.String("events-out", "", "optional path for the generated pipeline messages (JSON)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *out == "" {
		fs.Usage()
		return options{}, fmt.Errorf("missing required flag: -out")
	}
	startDate, err := time.Parse(camels.DateLayout, *start)
	if err != nil {
		return options{}, fmt.Errorf("invalid -start: %w", err)
	}
	if *days <= 0 {
		return options{}, fmt.Errorf("-days must be positive, got %d", *days)
	}

	opts := options{
		out:       *out,
		basins:    splitList(*basins),
		forcings:  splitList(*forcings),
		start:     startDate,
		days:      *days,
		eventsOut: *eventsOut,
	}
	if len(opts.basins) == 0 || len(opts.forcings) == 0 {
		return options{}, fmt.Errorf("-basins and -forcings must not be empty")
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	ds := fixture.Synthetic(opts.basins, opts.start, opts.days)
	ds.Forcings = opts.forcings
	if err := fixture.Write(opts.out, ds); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	log.Printf("wrote %d basins x %d days to %s", len(ds.Basins), opts.days, opts.out)

	if opts.eventsOut == "" {
		return nil
	}
	events, err := generateEvents(opts)
	if err != nil {
		return err
	}
	if err := writeJSON(opts.eventsOut, events); err != nil {
		return err
	}
	log.Printf("wrote %d messages to %s", len(events), opts.eventsOut)
	return nil
}

// message is the JSON form of one published Kafka message.
type message struct {
	Key     string            `json:"key"`
	Headers map[string]string `json:"headers"`
	Value   json.RawMessage   `json:"value"`
}

// generateEvents runs the extract and transform stages over the written tree.
func generateEvents(opts options) ([]message, error) {
	domain.SetClock(clockwork.NewFakeClockAt(fixedNow))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	attrs, err := camels.LoadAttributes(opts.out, opts.basins)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}

	ext := pipeline.NewExtractor(os.DirFS(opts.out), opts.forcings, attrs, logger)
	tfm := pipeline.NewTransformer(nil, observability.NewMetricsForTesting(), logger)

	var out []message
	for _, basin := range opts.basins {
		data, err := ext.Extract(context.Background(), basin)
		if err != nil {
			return nil, err
		}
		events, err := tfm.Transform(context.Background(), data)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			out = append(out, message{Key: string(e.Key), Headers: e.Headers, Value: e.Value})
		}
	}
	return out, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
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

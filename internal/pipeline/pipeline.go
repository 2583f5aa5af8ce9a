package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/camels-data-etl/internal/camels"
	"github.com/couchcryptid/camels-data-etl/internal/domain"
	"github.com/couchcryptid/camels-data-etl/internal/observability"
)

// Extractor loads everything the dataset holds for one basin.
type Extractor interface {
	Extract(ctx context.Context, basin string) (domain.BasinData, error)
}

// Transformer converts a basin's data into output events.
type Transformer interface {
	Transform(ctx context.Context, data domain.BasinData) ([]domain.OutputEvent, error)
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Options tunes a Pipeline.
type Options struct {
	// BatchSize caps the number of events per LoadBatch call.
	BatchSize int
	// SkipMissing skips basins whose forcing or streamflow file does not
	// exist instead of aborting the run.
	SkipMissing bool
}

// Summary reports the outcome of a run.
type Summary struct {
	Basins   int // basins requested
	Loaded   int
	Skipped  int
	Messages int
}

// Pipeline orchestrates the extract-transform-load loop over a basin list.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	opts        Options
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		opts:        opts,
	}
}

// CheckReadiness returns nil once the pipeline has published at least one
// basin, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published any basin yet")
	}
	return nil
}

// Run processes the basins in order. It stops at the first extract or
// transform failure, except for missing basin files when SkipMissing is set.
// Load failures are retried with backoff until ctx ends.
func (p *Pipeline) Run(ctx context.Context, basins []string) (Summary, error) {
	summary := Summary{Basins: len(basins)}
	p.logger.Info("pipeline started", "basins", len(basins), "batch_size", p.opts.BatchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for _, basin := range basins {
		if err := ctx.Err(); err != nil {
			p.logger.Info("pipeline stopping", "reason", err)
			return summary, err
		}

		n, err := p.processBasin(ctx, basin)
		switch {
		case errors.Is(err, errSkipped):
			summary.Skipped++
			continue
		case err != nil:
			return summary, err
		}
		summary.Loaded++
		summary.Messages += n
	}

	p.logger.Info("pipeline finished",
		"basins", summary.Basins,
		"loaded", summary.Loaded,
		"skipped", summary.Skipped,
		"messages", summary.Messages,
	)
	return summary, nil
}

var errSkipped = errors.New("basin skipped")

// processBasin runs one extract-transform-load cycle and returns the number of
// messages published.
func (p *Pipeline) processBasin(ctx context.Context, basin string) (int, error) {
	start := time.Now()

	data, err := p.extractor.Extract(ctx, basin)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		if p.opts.SkipMissing && errors.Is(err, camels.ErrFileNotFound) {
			p.logger.Warn("basin skipped", "basin", basin, "error", err)
			p.metrics.BasinsSkipped.Inc()
			return 0, errSkipped
		}
		p.metrics.BasinErrors.WithLabelValues("extract").Inc()
		return 0, fmt.Errorf("extract basin %s: %w", basin, err)
	}
	p.metrics.BasinsExtracted.Inc()

	events, err := p.transformer.Transform(ctx, data)
	if err != nil {
		p.metrics.BasinErrors.WithLabelValues("transform").Inc()
		return 0, fmt.Errorf("transform basin %s: %w", basin, err)
	}

	if err := p.load(ctx, events); err != nil {
		return 0, err
	}

	p.ready.Store(true)
	p.metrics.BasinProcessingDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("basin published", "basin", basin, "messages", len(events), "duration", time.Since(start))
	return len(events), nil
}

// load writes events in chunks of BatchSize, retrying each chunk until it
// succeeds or ctx ends.
func (p *Pipeline) load(ctx context.Context, events []domain.OutputEvent) error {
	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	const maxBackoff = 5 * time.Second

	for start := 0; start < len(events); start += p.opts.BatchSize {
		batch := events[start:min(start+p.opts.BatchSize, len(events))]
		backoff := 200 * time.Millisecond

		for {
			err := p.loader.LoadBatch(ctx, batch)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error("load batch failed", "error", err, "batch_size", len(batch), "retry_in", backoff)
			p.metrics.BasinErrors.WithLabelValues("load").Inc()
			if !sleepWithContext(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff, maxBackoff)
		}

		p.metrics.MessagesProduced.Add(float64(len(batch)))
		p.metrics.BatchSize.Observe(float64(len(batch)))
	}
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

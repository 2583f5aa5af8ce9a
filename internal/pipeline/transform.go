package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/camels-data-etl/internal/domain"
	"github.com/couchcryptid/camels-data-etl/internal/observability"
)

// BasinTransformer implements Transformer using domain transform functions
// with optional geocoding enrichment.
type BasinTransformer struct {
	geocoder domain.Geocoder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates a BasinTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *BasinTransformer {
	return &BasinTransformer{
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Transform emits the basin metadata message followed by one message per day.
func (t *BasinTransformer) Transform(ctx context.Context, data domain.BasinData) ([]domain.OutputEvent, error) {
	obs := domain.BuildObservations(data)

	meta := domain.NewBasinMetadata(data, obs)
	meta = domain.EnrichWithGeocoding(ctx, meta, t.geocoder, t.logger)

	events := make([]domain.OutputEvent, 0, len(obs)+1)
	event, err := domain.SerializeMetadata(meta)
	if err != nil {
		return nil, err
	}
	events = append(events, event)

	for _, o := range obs {
		event, err := domain.SerializeObservation(o)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	t.metrics.MissingDischarge.Add(float64(meta.MissingDischarge))
	return events, nil
}

package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/couchcryptid/camels-data-etl/internal/camels"
	"github.com/couchcryptid/camels-data-etl/internal/domain"
)

// DatasetExtractor implements Extractor over a CAMELS US directory tree.
type DatasetExtractor struct {
	fsys       fs.FS
	forcings   []string
	attributes *camels.AttributeTable
	logger     *slog.Logger
}

// NewExtractor creates a DatasetExtractor. attributes may be nil, in which
// case BasinData.Attributes stays empty.
func NewExtractor(fsys fs.FS, forcings []string, attributes *camels.AttributeTable, logger *slog.Logger) *DatasetExtractor {
	return &DatasetExtractor{
		fsys:       fsys,
		forcings:   forcings,
		attributes: attributes,
		logger:     logger,
	}
}

// Extract loads every configured forcing product, the streamflow record and
// the static attributes of one basin. The catchment area used for the
// discharge conversion comes from the first forcing product.
func (e *DatasetExtractor) Extract(ctx context.Context, basin string) (domain.BasinData, error) {
	if err := ctx.Err(); err != nil {
		return domain.BasinData{}, err
	}

	frames := make(map[string]*camels.Frame, len(e.forcings))
	area := 0
	for i, forcing := range e.forcings {
		frame, a, err := camels.LoadForcingsFS(e.fsys, basin, forcing)
		if err != nil {
			return domain.BasinData{}, fmt.Errorf("load %s forcings for basin %s: %w", forcing, basin, err)
		}
		if i == 0 {
			area = a
		} else if a != area {
			e.logger.Debug("forcing products disagree on area", "basin", basin, "forcing", forcing, "area", a, "used", area)
		}
		frames[forcing] = frame
	}

	meteo, err := domain.MergeForcings(e.forcings, frames)
	if err != nil {
		return domain.BasinData{}, fmt.Errorf("basin %s: %w", basin, err)
	}

	discharge, err := camels.LoadDischargeFS(e.fsys, basin, area)
	if err != nil {
		return domain.BasinData{}, fmt.Errorf("load discharge for basin %s: %w", basin, err)
	}

	data := domain.BasinData{
		Basin:       basin,
		Forcings:    e.forcings,
		Area:        area,
		Meteorology: meteo,
		Discharge:   discharge,
	}
	if e.attributes != nil {
		if row, ok := e.attributes.Row(basin); ok {
			data.Attributes = row
		}
	}

	e.logger.Debug("basin extracted",
		"basin", basin,
		"days", meteo.Len(),
		"area_m2", area,
		"missing_discharge", discharge.Missing(),
	)
	return data, nil
}

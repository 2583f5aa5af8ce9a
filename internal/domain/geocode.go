package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to enrich basin metadata with the place the
// gauge sits in. If geocoder is nil the metadata is returned untouched. A
// failed lookup sets GeoSource to "failed" and keeps the basin.
func EnrichWithGeocoding(ctx context.Context, meta BasinMetadata, geocoder Geocoder, logger *slog.Logger) BasinMetadata {
	if geocoder == nil {
		return meta
	}

	if meta.Geo == nil {
		meta.GeoSource = "original"
		return meta
	}

	result, err := geocoder.ReverseGeocode(ctx, meta.Geo.Lat, meta.Geo.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"basin", meta.Basin,
			"lat", meta.Geo.Lat,
			"lon", meta.Geo.Lon,
			"error", err,
		)
		meta.GeoSource = "failed"
		return meta
	}
	if result.FormattedAddress == "" {
		meta.GeoSource = "original"
		return meta
	}

	meta.FormattedAddress = result.FormattedAddress
	meta.PlaceName = result.PlaceName
	meta.GeoConfidence = result.Confidence
	meta.GeoSource = "reverse"
	return meta
}

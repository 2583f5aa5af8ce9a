// Package domain models the per-basin records published downstream of the
// CAMELS US loaders.
//
// # Messages
//
// For every basin the pipeline publishes one BasinMetadata message followed by
// one Observation per day of the forcing record. All messages of a basin share
// the basin id as their key, so they land on one partition in date order.
//
// BasinMetadata:
//
//	Static description of the gauge: two-character HUC region, gauge name and
//	coordinates from the attribute tables, catchment area (m²) from the forcing
//	file header, the covered date range, and the number of days without a valid
//	discharge observation. The full attribute row is carried as text.
//
// Observation:
//
//	One calendar day. Meteorology holds every forcing column except the
//	Year/Mnth/Day date columns, keyed by the column name as it appears in the
//	forcing file header, e.g. "prcp(mm/day)". With more than one forcing
//	product the names are suffixed with the product: "prcp(mm/day)_daymet".
//	qobs_mm_per_day is the discharge converted to mm/day; it is null when the
//	streamflow file has no valid value for that day.
//
// Missing values:
//
//	NaN never appears in JSON. Missing meteorology values are omitted from the
//	map; missing discharge is null.
//
// # ID Generation
//
// Observation IDs are the basin id plus a short SHA-256 of basin|date|forcings.
// Replaying a basin produces identical IDs, so consumers can upsert
// idempotently. See [generateID].
//
// # Geocoding
//
// When a geocoder is configured the gauge coordinates are reverse geocoded and
// the place name attached to BasinMetadata. Failures degrade to GeoSource
// "failed" and never drop the basin.
package domain

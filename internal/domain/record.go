package domain

import (
	"time"

	"github.com/couchcryptid/camels-data-etl/internal/camels"
)

// BasinData is everything loaded from the dataset for one basin.
type BasinData struct {
	Basin       string
	Forcings    []string
	Area        int // m², from the first forcing product's header
	Attributes  map[string]string
	Meteorology *camels.Frame
	Discharge   *camels.Series
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BasinMetadata describes a gauge and the extent of its published record.
type BasinMetadata struct {
	Basin            string            `json:"basin"`
	HUC              string            `json:"huc,omitempty"`
	GaugeName        string            `json:"gauge_name,omitempty"`
	Geo              *Geo              `json:"geo,omitempty"`
	AreaM2           int               `json:"area_m2"`
	Forcings         []string          `json:"forcings"`
	FirstDate        string            `json:"first_date,omitempty"`
	LastDate         string            `json:"last_date,omitempty"`
	Days             int               `json:"days"`
	MissingDischarge int               `json:"missing_discharge"`
	Attributes       map[string]string `json:"attributes,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "reverse", "original", "failed"

	ProcessedAt time.Time `json:"processed_at"`
}

// Observation is one day of forcing data joined with discharge.
type Observation struct {
	ID          string             `json:"id"`
	Basin       string             `json:"basin"`
	Date        string             `json:"date"` // YYYY-MM-DD
	Meteorology map[string]float64 `json:"meteorology"`
	QObs        *float64           `json:"qobs_mm_per_day"`
	ProcessedAt time.Time          `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message types carried in the "type" header.
const (
	TypeBasinMetadata = "basin_metadata"
	TypeObservation   = "observation"
)

// SerializeObservation encodes an observation keyed by its basin.
func SerializeObservation(o Observation) (OutputEvent, error) {
	value, err := json.Marshal(o)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("marshal observation %s: %w", o.ID, err)
	}
	return newOutputEvent(TypeObservation, o.Basin, value, o.ProcessedAt), nil
}

// SerializeMetadata encodes basin metadata keyed by its basin.
func SerializeMetadata(m BasinMetadata) (OutputEvent, error) {
	value, err := json.Marshal(m)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("marshal basin metadata %s: %w", m.Basin, err)
	}
	return newOutputEvent(TypeBasinMetadata, m.Basin, value, m.ProcessedAt), nil
}

func newOutputEvent(kind, basin string, value []byte, processedAt time.Time) OutputEvent {
	return OutputEvent{
		Key:   []byte(basin),
		Value: value,
		Headers: map[string]string{
			"type":         kind,
			"basin":        basin,
			"processed_at": processedAt.Format(time.RFC3339),
		},
	}
}

package model

import "time"

// RawTelemetry is one history record as returned by the telemetry source.
// Field contents are untrusted and validated by the telemetry transformer.
type RawTelemetry struct {
	TS      string                 `json:"ts"`
	Metrics map[string]interface{} `json:"metrics,omitempty"`
	Flags   map[string]interface{} `json:"flags,omitempty"`
}

// WeightPoint is one validated weight measurement.
type WeightPoint struct {
	TS       time.Time `json:"ts"`
	WeightKg float64   `json:"weightKg"`
}

// DoorEvent is one validated door state change.
type DoorEvent struct {
	TS     time.Time `json:"ts"`
	Status string    `json:"status"`
}

// TelemetryRecord is a normalized reading held by the telemetry store.
type TelemetryRecord struct {
	PantryID string
	TS       time.Time
	WeightKg *float64
	Door     string
}

// Raw converts a stored record back into the source wire shape.
func (r TelemetryRecord) Raw() RawTelemetry {
	raw := RawTelemetry{TS: r.TS.UTC().Format(time.RFC3339Nano)}
	if r.WeightKg != nil {
		raw.Metrics = map[string]interface{}{"weightKg": *r.WeightKg}
	}
	if r.Door != "" {
		raw.Flags = map[string]interface{}{"door": r.Door}
	}
	return raw
}

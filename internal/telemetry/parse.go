// Package telemetry turns raw pantry sensor readings into the weight trend
// chart and the door event timeline.
package telemetry

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"micropantry-api/internal/model"
)

// History is the parsed, time-ordered sensor history of one pantry.
type History struct {
	Weight []model.WeightPoint `json:"weight"`
	Doors  []model.DoorEvent   `json:"doors"`
}

// ParseHistory extracts the weight and door series from raw readings. Both
// series come out ascending by time. Readings with an unparseable timestamp,
// missing or non-numeric weight, or no door flag are left out of the
// respective series.
func ParseHistory(raw []model.RawTelemetry) History {
	h := History{
		Weight: make([]model.WeightPoint, 0, len(raw)),
		Doors:  make([]model.DoorEvent, 0),
	}
	for _, r := range raw {
		ts, ok := model.ParseInstant(r.TS)
		if !ok {
			continue
		}
		if w, ok := weightOf(r.Metrics); ok {
			h.Weight = append(h.Weight, model.WeightPoint{TS: ts, WeightKg: w})
		}
		if door, ok := doorOf(r.Flags); ok {
			h.Doors = append(h.Doors, model.DoorEvent{TS: ts, Status: door})
		}
	}
	sort.SliceStable(h.Weight, func(i, j int) bool { return h.Weight[i].TS.Before(h.Weight[j].TS) })
	sort.SliceStable(h.Doors, func(i, j int) bool { return h.Doors[i].TS.Before(h.Doors[j].TS) })
	return h
}

// Normalize validates one raw reading into a storable record. It reports
// false when the timestamp is unparseable or the reading carries neither a
// weight nor a door state.
func Normalize(pantryID string, r model.RawTelemetry) (model.TelemetryRecord, bool) {
	ts, ok := model.ParseInstant(r.TS)
	if !ok {
		return model.TelemetryRecord{}, false
	}
	rec := model.TelemetryRecord{PantryID: pantryID, TS: ts}
	if w, ok := weightOf(r.Metrics); ok {
		rec.WeightKg = &w
	}
	if door, ok := doorOf(r.Flags); ok {
		rec.Door = door
	}
	if rec.WeightKg == nil && rec.Door == "" {
		return model.TelemetryRecord{}, false
	}
	return rec, true
}

func weightOf(metrics map[string]interface{}) (float64, bool) {
	if metrics == nil {
		return 0, false
	}
	v := metrics["weightKg"]
	if v == nil {
		v = metrics["weightkg"]
	}
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func doorOf(flags map[string]interface{}) (string, bool) {
	if flags == nil {
		return "", false
	}
	switch d := flags["door"].(type) {
	case string:
		return d, d != ""
	case bool:
		if d {
			return "open", true
		}
	}
	return "", false
}

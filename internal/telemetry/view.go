package telemetry

import (
	"time"

	"micropantry-api/internal/model"
)

// LoadFailed replaces the whole history view when the fetch fails.
const LoadFailed = "Failed to load telemetry history."

// View is the expanded sensor history panel of one pantry.
type View struct {
	PantryID string        `json:"pantryId"`
	Weight   *WeightChart  `json:"weight,omitempty"`
	Doors    *DoorTimeline `json:"doors,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// BuildView parses raw readings into the chart and timeline.
func BuildView(pantryID string, raw []model.RawTelemetry, plot Plot, loc *time.Location) View {
	h := ParseHistory(raw)
	chart := BuildWeightChart(h.Weight, plot, loc)
	timeline := BuildDoorTimeline(h.Doors, loc)
	return View{PantryID: pantryID, Weight: &chart, Doors: &timeline}
}

// FailedView is the placeholder view for an unavailable telemetry source.
func FailedView(pantryID string) View {
	return View{PantryID: pantryID, Error: LoadFailed}
}

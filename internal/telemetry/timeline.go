package telemetry

import (
	"fmt"
	"time"

	"micropantry-api/internal/model"
)

// MaxTimelineEvents caps the rendered door timeline.
const MaxTimelineEvents = 40

// NoDoorEvents is shown when the door series is empty.
const NoDoorEvents = "No door events recorded."

// TimelineEntry is one rendered door event.
type TimelineEntry struct {
	Status string    `json:"status"`
	TS     time.Time `json:"ts"`
	Label  string    `json:"label"`
}

// DoorTimeline is the newest-first list of door events.
type DoorTimeline struct {
	Entries     []TimelineEntry `json:"entries"`
	Total       int             `json:"total"`
	Openings    int             `json:"openings"`
	Summary     string          `json:"summary"`
	Placeholder string          `json:"placeholder,omitempty"`
}

// BuildDoorTimeline renders the most recent events of an ascending series in
// reverse order. Total and openings count the whole series.
func BuildDoorTimeline(events []model.DoorEvent, loc *time.Location) DoorTimeline {
	if len(events) == 0 {
		return DoorTimeline{Entries: []TimelineEntry{}, Placeholder: NoDoorEvents}
	}

	t := DoorTimeline{Total: len(events)}
	for _, e := range events {
		if e.Status == "open" {
			t.Openings++
		}
	}

	recent := events
	if len(recent) > MaxTimelineEvents {
		recent = recent[len(recent)-MaxTimelineEvents:]
	}
	t.Entries = make([]TimelineEntry, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		t.Entries = append(t.Entries, TimelineEntry{
			Status: recent[i].Status,
			TS:     recent[i].TS,
			Label:  FormatMinutes(recent[i].TS, loc),
		})
	}
	t.Summary = fmt.Sprintf("%d events · %d openings", t.Total, t.Openings)
	return t
}

package telemetry

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"micropantry-api/internal/model"
)

// Placeholder for missing sensor values.
const Missing = "--"

// MinuteLayout formats instants to the minute, 24-hour and zero-padded.
const MinuteLayout = "2006-01-02 15:04"

// FormatMinutes renders t in loc to minute precision.
func FormatMinutes(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(MinuteLayout)
}

// FormatInstant parses s and renders it to the minute, or "Unknown".
func FormatInstant(s string, loc *time.Location) string {
	t, ok := model.ParseInstant(s)
	if !ok {
		return "Unknown"
	}
	return FormatMinutes(t, loc)
}

// FormatWeight renders a weight with one decimal, e.g. "12.3 kg".
func FormatWeight(kg *float64) string {
	if kg == nil {
		return Missing
	}
	return fmt.Sprintf("%.1f kg", *kg)
}

// FormatDoor normalizes a door state for display.
func FormatDoor(v string) string {
	switch strings.ToLower(v) {
	case "":
		return Missing
	case "open", "opened":
		return "Opened"
	case "closed", "close":
		return "Closed"
	}
	return v
}

// FormatCondition capitalizes the food condition.
func FormatCondition(v string) string {
	if v == "" {
		return Missing
	}
	r, size := utf8.DecodeRuneInString(v)
	return string(unicode.ToUpper(r)) + v[size:]
}

// RelativeTimestamp describes how long ago s happened, falling back to the
// minute format for anything older than a week.
func RelativeTimestamp(s string, now time.Time, loc *time.Location) string {
	if strings.TrimSpace(s) == "" {
		return "No recent uploads"
	}
	t, ok := model.ParseInstant(s)
	if !ok {
		return "Unknown"
	}
	minutes := int(now.Sub(t) / time.Minute)
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return plural(minutes, "min") + " ago"
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hr") + " ago"
	}
	days := hours / 24
	if days < 7 {
		return plural(days, "day") + " ago"
	}
	return FormatMinutes(t, loc)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Snapshot is the sensor block of the pantry detail view.
type Snapshot struct {
	Weight    string `json:"weight"`
	Door      string `json:"door"`
	Condition string `json:"condition"`
	Updated   string `json:"updated"`
	Uploaded  string `json:"uploaded"`
}

// NewSnapshot renders the latest sensor values of a pantry.
func NewSnapshot(s *model.Sensors, now time.Time, loc *time.Location) Snapshot {
	if s == nil {
		return Snapshot{
			Weight:    Missing,
			Door:      Missing,
			Condition: Missing,
			Updated:   Missing,
			Uploaded:  RelativeTimestamp("", now, loc),
		}
	}
	snap := Snapshot{
		Weight:    FormatWeight(s.WeightKg),
		Door:      FormatDoor(s.LastDoorEvent),
		Condition: FormatCondition(s.FoodCondition),
		Updated:   Missing,
		Uploaded:  RelativeTimestamp(s.UpdatedAt, now, loc),
	}
	if s.UpdatedAt != "" {
		snap.Updated = FormatInstant(s.UpdatedAt, loc)
	}
	return snap
}

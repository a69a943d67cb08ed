package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"micropantry-api/internal/model"
)

func decode(t *testing.T, doc string) []model.RawTelemetry {
	t.Helper()
	var raw []model.RawTelemetry
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestParseHistory_WeightCasingsAndOrder(t *testing.T) {
	raw := decode(t, `[
		{"ts": "2024-05-01T12:00:00Z", "metrics": {"weightKg": 12.5}},
		{"ts": "2024-05-01T10:00:00Z", "metrics": {"weightkg": 10}},
		{"ts": "2024-05-01T11:00:00Z", "metrics": {"weightKg": "abc"}},
		{"ts": "2024-05-01T09:00:00Z", "metrics": {"weightKg": "8.25"}},
		{"ts": "2024-05-01T08:00:00Z", "metrics": {"weightKg": null, "weightkg": 7}},
		{"ts": "2024-05-01T07:00:00Z", "metrics": {}},
		{"ts": "garbage", "metrics": {"weightKg": 3}}
	]`)

	h := ParseHistory(raw)
	want := []float64{7, 8.25, 10, 12.5}
	if len(h.Weight) != len(want) {
		t.Fatalf("weight = %+v", h.Weight)
	}
	for i, w := range want {
		if h.Weight[i].WeightKg != w {
			t.Errorf("weight[%d] = %v, want %v", i, h.Weight[i].WeightKg, w)
		}
		if i > 0 && h.Weight[i].TS.Before(h.Weight[i-1].TS) {
			t.Errorf("weight series not ascending at %d", i)
		}
	}
}

func TestParseHistory_BothCasingsCountOnce(t *testing.T) {
	raw := decode(t, `[{"ts": "2024-05-01T12:00:00Z", "metrics": {"weightKg": 5, "weightkg": 6}}]`)
	h := ParseHistory(raw)
	if len(h.Weight) != 1 || h.Weight[0].WeightKg != 5 {
		t.Fatalf("weight = %+v", h.Weight)
	}
}

func TestParseHistory_Doors(t *testing.T) {
	raw := decode(t, `[
		{"ts": "2024-05-01T12:00:00Z", "flags": {"door": "closed"}},
		{"ts": "2024-05-01T10:00:00Z", "flags": {"door": "open"}},
		{"ts": "2024-05-01T11:00:00Z", "flags": {"door": ""}},
		{"ts": "2024-05-01T09:00:00Z", "flags": {}},
		{"ts": "2024-05-01T13:00:00Z", "flags": {"door": true}}
	]`)
	h := ParseHistory(raw)
	got := make([]string, len(h.Doors))
	for i, d := range h.Doors {
		got[i] = d.Status
	}
	want := []string{"open", "closed", "open"}
	if len(got) != len(want) {
		t.Fatalf("doors = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("doors = %v, want %v", got, want)
		}
	}
}

func TestParseHistory_Empty(t *testing.T) {
	h := ParseHistory(nil)
	if len(h.Weight) != 0 || len(h.Doors) != 0 {
		t.Fatalf("expected empty history, got %+v", h)
	}
}

func TestBuildView(t *testing.T) {
	raw := decode(t, `[
		{"ts": "2024-05-01T10:00:00Z", "metrics": {"weightKg": 4}, "flags": {"door": "open"}}
	]`)
	v := BuildView("p1", raw, DefaultPlot(), time.UTC)
	if v.Error != "" || v.Weight == nil || v.Doors == nil {
		t.Fatalf("view = %+v", v)
	}
	if v.Doors.Summary != "1 events · 1 openings" {
		t.Errorf("summary = %q", v.Doors.Summary)
	}

	failed := FailedView("p1")
	if failed.Error != LoadFailed || failed.Weight != nil {
		t.Errorf("failed view = %+v", failed)
	}
}

func TestNormalize(t *testing.T) {
	raw := decode(t, `[
		{"ts": "2024-05-01T10:00:00Z", "metrics": {"weightkg": "7.5"}},
		{"ts": "2024-05-01T11:00:00Z", "flags": {"door": true}},
		{"ts": "2024-05-01T12:00:00Z", "metrics": {"temp": 4}},
		{"ts": "soon", "metrics": {"weightKg": 1}}
	]`)

	rec, ok := Normalize("p1", raw[0])
	if !ok || rec.PantryID != "p1" || rec.WeightKg == nil || *rec.WeightKg != 7.5 || rec.Door != "" {
		t.Errorf("weight reading = %+v, %v", rec, ok)
	}
	rec, ok = Normalize("p1", raw[1])
	if !ok || rec.WeightKg != nil || rec.Door != "open" {
		t.Errorf("door reading = %+v, %v", rec, ok)
	}
	if _, ok := Normalize("p1", raw[2]); ok {
		t.Error("reading without weight or door should be rejected")
	}
	if _, ok := Normalize("p1", raw[3]); ok {
		t.Error("reading with bad timestamp should be rejected")
	}
}

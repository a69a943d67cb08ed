package stock

import (
	"math"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		count    float64
		capacity float64
		label    string
		ratio    float64
	}{
		{"empty", 0, 0, LevelLow, 0},
		{"nan count", math.NaN(), 40, LevelLow, 0},
		{"infinite count", math.Inf(1), 40, LevelLow, 0},
		{"full boundary", 30, 40, LevelFull, 0.75},
		{"just below full", 0.749999 * 40, 40, LevelMedium, 0.749999},
		{"medium boundary", 16, 40, LevelMedium, 0.4},
		{"low", 15, 40, LevelLow, 0.375},
		{"over capacity clamps", 120, 40, LevelFull, 1},
		{"negative clamps", -5, 40, LevelLow, 0},
		{"default capacity", 20, 0, LevelMedium, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(tt.count, tt.capacity)
			if r.Label != tt.label {
				t.Errorf("label = %s, want %s", r.Label, tt.label)
			}
			if math.Abs(r.Ratio-tt.ratio) > 1e-9 {
				t.Errorf("ratio = %v, want %v", r.Ratio, tt.ratio)
			}
		})
	}
}

func TestGaugeDashOffset(t *testing.T) {
	circ := math.Pi * GaugeRadius

	if r := Classify(0, 40); math.Abs(r.Gauge.DashOffset-circ) > 1e-9 {
		t.Errorf("empty gauge offset = %v, want %v", r.Gauge.DashOffset, circ)
	}
	if r := Classify(40, 40); r.Gauge.DashOffset != 0 {
		t.Errorf("full gauge offset = %v, want 0", r.Gauge.DashOffset)
	}
	if r := Classify(10, 40); math.Abs(r.Gauge.DashOffset-circ*0.75) > 1e-9 {
		t.Errorf("quarter gauge offset = %v", r.Gauge.DashOffset)
	}
}

func TestReadingSVG(t *testing.T) {
	svg := Classify(12, 40).SVG()
	for _, want := range []string{"12 Items", "Low", ArcPath, "stroke-dashoffset"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

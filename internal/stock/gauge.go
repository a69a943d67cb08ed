// Package stock classifies a pantry's item count against its capacity for
// the detail-view gauge.
package stock

import (
	"fmt"
	"math"
)

const (
	// DefaultCapacity is used when no positive capacity is given.
	DefaultCapacity = 40
	// GaugeRadius is the radius of the semicircular gauge arc.
	GaugeRadius = 80
)

// Level labels.
const (
	LevelFull   = "Full"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

// Gauge holds the stroke parameters of the filled arc.
type Gauge struct {
	Radius        float64 `json:"radius"`
	Circumference float64 `json:"circumference"`
	DashOffset    float64 `json:"dashOffset"`
}

// Reading is a classified stock level.
type Reading struct {
	Count    float64 `json:"count"`
	Capacity float64 `json:"capacity"`
	Ratio    float64 `json:"ratio"`
	Label    string  `json:"label"`
	Gauge    Gauge   `json:"gauge"`
}

// Classify maps count onto a ratio in [0,1], a level label and a gauge fill.
// These thresholds are independent of the list badge ones.
func Classify(count, capacity float64) Reading {
	if math.IsNaN(count) || math.IsInf(count, 0) {
		count = 0
	}
	if !(capacity > 0) || math.IsInf(capacity, 0) {
		capacity = DefaultCapacity
	}

	ratio := math.Max(0, math.Min(count/capacity, 1))

	label := LevelLow
	switch {
	case ratio >= 0.75:
		label = LevelFull
	case ratio >= 0.4:
		label = LevelMedium
	}

	circumference := math.Pi * GaugeRadius
	return Reading{
		Count:    count,
		Capacity: capacity,
		Ratio:    ratio,
		Label:    label,
		Gauge: Gauge{
			Radius:        GaugeRadius,
			Circumference: circumference,
			DashOffset:    circumference * (1 - ratio),
		},
	}
}

// CountLabel renders the centre caption of the gauge, e.g. "12 Items".
func (r Reading) CountLabel() string {
	return fmt.Sprintf("%s Items", formatCount(r.Count))
}

// ArcPath is the SVG path of the gauge track and fill.
const ArcPath = "M20 100 A80 80 0 0 1 180 100"

// SVG renders the gauge as a standalone SVG fragment.
func (r Reading) SVG() string {
	return fmt.Sprintf(`<svg viewBox="0 0 200 120" xmlns="http://www.w3.org/2000/svg" role="img" aria-label="Stock level">`+
		`<path class="gauge-track" d="%s" fill="none" stroke="#e5e7eb" stroke-width="16"/>`+
		`<path class="gauge-fill" d="%s" fill="none" stroke="#16a34a" stroke-width="16" stroke-dasharray="%.4f" stroke-dashoffset="%.4f"/>`+
		`<text x="100" y="88" text-anchor="middle" font-size="18">%s</text>`+
		`<text x="100" y="110" text-anchor="middle" font-size="12">%s</text>`+
		`</svg>`,
		ArcPath, ArcPath, r.Gauge.Circumference, r.Gauge.DashOffset, r.Label, r.CountLabel())
}

func formatCount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

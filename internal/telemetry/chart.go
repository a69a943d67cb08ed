package telemetry

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"micropantry-api/internal/model"
)

// NoWeightData is shown instead of the chart when the series is empty.
const NoWeightData = "No weight data available."

// Marker is a plotted point with its hover title.
type Marker struct {
	Point
	Title string `json:"title"`
}

// WeightChart is the scaled weight trend, ready to draw.
type WeightChart struct {
	Plot        Plot     `json:"plot"`
	Points      []Point  `json:"points,omitempty"`
	Path        string   `json:"path,omitempty"`
	Markers     []Marker `json:"markers,omitempty"`
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	Legend      string   `json:"legend"`
	Range       string   `json:"range"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Empty reports whether the chart has nothing to plot.
func (c WeightChart) Empty() bool { return len(c.Points) == 0 }

// BuildWeightChart scales an ascending weight series onto plot. Timestamps in
// titles and the range label are rendered in loc.
func BuildWeightChart(series []model.WeightPoint, plot Plot, loc *time.Location) WeightChart {
	c := WeightChart{Plot: plot}
	if len(series) == 0 {
		c.Legend = NoWeightData
		c.Placeholder = NoWeightData
		return c
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.WeightKg
	}
	c.Points = Scale(values, plot)
	c.Min, c.Max = values[0], values[0]
	for _, v := range values {
		if v < c.Min {
			c.Min = v
		}
		if v > c.Max {
			c.Max = v
		}
	}

	coords := make([]string, len(c.Points))
	c.Markers = make([]Marker, len(c.Points))
	for i, pt := range c.Points {
		coords[i] = num(pt.X) + "," + num(pt.Y)
		c.Markers[i] = Marker{
			Point: pt,
			Title: fmt.Sprintf("%s — %.2f kg", FormatMinutes(series[i].TS, loc), series[i].WeightKg),
		}
	}
	c.Path = strings.Join(coords, " ")
	c.Legend = fmt.Sprintf("Min %.2f kg · Max %.2f kg", c.Min, c.Max)
	c.Range = FormatMinutes(series[0].TS, loc) + " → " + FormatMinutes(series[len(series)-1].TS, loc)
	return c
}

// SVG renders the chart. An empty chart renders the placeholder text only.
func (c WeightChart) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" role="img" aria-label="Weight sensor readings over time">`,
		num(c.Plot.Width), num(c.Plot.Height))
	if c.Empty() {
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="14" fill="#6b7280">%s</text>`,
			num(c.Plot.Width/2), num(c.Plot.Height/2), html.EscapeString(c.Placeholder))
		b.WriteString(`</svg>`)
		return b.String()
	}

	m := c.Plot.Margin
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="#f9fafb" stroke="#e5e7eb" stroke-width="1" rx="8"/>`,
		num(m.Left), num(m.Top), num(c.Plot.InnerWidth()), num(c.Plot.InnerHeight()))
	fmt.Fprintf(&b, `<polyline fill="none" stroke="#0ea5e9" stroke-width="3" stroke-linejoin="round" stroke-linecap="round" points="%s"/>`, c.Path)
	for _, mk := range c.Markers {
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="4" fill="#2563eb" opacity="0.9"><title>%s</title></circle>`,
			num(mk.X), num(mk.Y), html.EscapeString(mk.Title))
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

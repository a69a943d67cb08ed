package telemetry

import "math"

// Margin is the space between the drawing surface edge and the plot area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Plot is a fixed drawing surface.
type Plot struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// DefaultPlot is the 720x320 surface used for the weight trend.
func DefaultPlot() Plot {
	return Plot{
		Width:  720,
		Height: 320,
		Margin: Margin{Top: 20, Right: 32, Bottom: 36, Left: 56},
	}
}

// InnerWidth is the width of the plot area.
func (p Plot) InnerWidth() float64 { return p.Width - p.Margin.Left - p.Margin.Right }

// InnerHeight is the height of the plot area.
func (p Plot) InnerHeight() float64 { return p.Height - p.Margin.Top - p.Margin.Bottom }

// Point is a scaled coordinate on the surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale maps values onto the plot area. X is linear in the index and Y is
// linear between the observed min (bottom) and max (top). A single point sits
// on the horizontal midpoint and a flat series on the vertical midpoint.
func Scale(values []float64, p Plot) []Point {
	if len(values) == 0 {
		return nil
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	w, h := p.InnerWidth(), p.InnerHeight()
	pts := make([]Point, len(values))
	for i, v := range values {
		x := p.Margin.Left + w/2
		if len(values) > 1 {
			x = p.Margin.Left + float64(i)/float64(len(values)-1)*w
		}
		y := p.Margin.Top + h/2
		if maxV != minV {
			y = p.Margin.Top + (maxV-v)*(h/(maxV-minV))
		}
		pts[i] = Point{X: x, Y: y}
	}
	return pts
}

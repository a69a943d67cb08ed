package telemetry

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"micropantry-api/internal/model"
)

// ErrNoWeightData is returned when there is nothing to plot.
var ErrNoWeightData = errors.New(NoWeightData)

// RenderPNG draws the weight series as a PNG time chart sized like plot.
func RenderPNG(w io.Writer, series []model.WeightPoint, plot Plot, loc *time.Location) error {
	if len(series) == 0 {
		return ErrNoWeightData
	}
	if loc == nil {
		loc = time.UTC
	}

	times := make([]time.Time, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		times[i] = p.TS.In(loc)
		ys[i] = p.WeightKg
	}
	// go-chart needs two distinct x values.
	if len(times) == 1 {
		times = append(times, times[0].Add(time.Minute))
		ys = append(ys, ys[0])
	}

	minY, maxY := ys[0], ys[0]
	for _, v := range ys {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	if maxY == minY {
		minY, maxY = minY-1, maxY+1
	}

	m := plot.Margin
	graph := chart.Chart{
		Width:  int(plot.Width),
		Height: int(plot.Height),
		Background: chart.Style{Padding: chart.Box{
			Top: int(m.Top), Right: int(m.Right), Bottom: int(m.Bottom), Left: int(m.Left),
		}},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return chart.TimeFromFloat64(f).In(loc).Format("01-02 15:04")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:  "kg",
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Weight",
				XValues: times,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("0ea5e9"),
					StrokeWidth: 3,
					DotColor:    drawing.ColorFromHex("2563eb"),
					DotWidth:    4,
				},
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render weight chart: %w", err)
	}
	return nil
}

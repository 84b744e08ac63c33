package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/sleeplens/engine"
)

// ============================================================================
// PNG — Static export through go-chart
// ============================================================================
// Strip and bar charts only; go-chart has no box or heatmap series.
// ============================================================================

// PNG draws spec as a PNG image of the given size.
func PNG(w io.Writer, spec *engine.ChartSpec, width, height int) error {
	if spec == nil {
		return fmt.Errorf("nil chart spec")
	}

	switch spec.Mark {
	case engine.MarkPoint:
		return stripPNG(w, spec, width, height)
	case engine.MarkBar:
		return barPNG(w, spec, width, height)
	default:
		return fmt.Errorf("%w: %s as png", ErrUnsupported, spec.Mark)
	}
}

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color, size int) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    float64(size) / 4,
		DotColor:    col,
	}
}

func hexColor(c string) drawing.Color {
	switch c {
	case "", "white":
		return drawing.ColorWhite
	case "black":
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}

func padding(t engine.Theme) chart.Box {
	return chart.Box{Top: t.Margin.Top, Left: t.Margin.Left, Right: t.Margin.Right, Bottom: t.Margin.Bottom}
}

func stripPNG(w io.Writer, spec *engine.ChartSpec, width, height int) error {
	size, jitter := 10, 0.0
	if spec.Marker != nil {
		size = spec.Marker.Size
		jitter = spec.Marker.Jitter * band(spec)
	}

	var series []chart.Series
	for si, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		offsets := Jitter(len(s.Points), jitter, int64(si+1))
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.X + offsets[i]
			ys[i] = p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(hexColor(s.Color), size),
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("strip chart has no points")
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: padding(spec.Theme), FillColor: hexColor(spec.Theme.PaperBackground)},
		Canvas:     chart.Style{FillColor: hexColor(spec.Theme.PlotBackground)},
		XAxis:      chart.XAxis{Name: spec.XAxis.Title},
		YAxis:      chart.YAxis{Name: spec.YAxis.Title},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}

func barPNG(w io.Writer, spec *engine.ChartSpec, width, height int) error {
	var bars []chart.Value
	for _, s := range spec.Series {
		col := hexColor(s.Color)
		for _, p := range s.Points {
			bars = append(bars, chart.Value{
				Label: p.Category,
				Value: p.Y,
				Style: chart.Style{FillColor: col, StrokeColor: col},
			})
		}
	}
	if len(bars) == 0 {
		return fmt.Errorf("bar chart has no bars")
	}

	avail := width - spec.Theme.Margin.Left - spec.Theme.Margin.Right
	per := avail / (len(bars) + 1)
	if per < 3 {
		per = 3
	}

	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: padding(spec.Theme), FillColor: hexColor(spec.Theme.PaperBackground)},
		Canvas:     chart.Style{FillColor: hexColor(spec.Theme.PlotBackground)},
		YAxis:      chart.YAxis{Name: spec.YAxis.Title},
		BarWidth:   per * 2 / 3,
		BarSpacing: per / 3,
		Bars:       bars,
	}
	return bc.Render(chart.PNG, w)
}

package render

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/spektr-org/sleeplens/engine"
)

// ============================================================================
// ECHARTS — ChartSpec → ECharts option object
// ============================================================================
// Charts are assembled with go-echarts, exported through JSON(), then patched
// for the few settings go-echarts does not expose (mirrored borders, fixed
// tick interval, heatmap cell gaps and text size). Tooltips are resolved per
// point in Go and shown through the "{b}" formatter.
// ============================================================================

// Options is an ECharts option object ready for setOption.
type Options map[string]interface{}

var blues = []string{"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"}

// ECharts converts a spec into ECharts options.
func ECharts(spec *engine.ChartSpec) (Options, error) {
	if spec == nil {
		return nil, fmt.Errorf("nil chart spec")
	}

	var raw map[string]interface{}
	switch spec.Mark {
	case engine.MarkPoint:
		c := stripChart(spec)
		c.Validate()
		raw = c.JSON()
	case engine.MarkBar:
		c := barChart(spec)
		c.Validate()
		raw = c.JSON()
	case engine.MarkBox:
		c := boxChart(spec)
		c.Validate()
		raw = c.JSON()
	case engine.MarkHeatmap:
		c := heatChart(spec)
		c.Validate()
		raw = c.JSON()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, spec.Mark)
	}

	// round-trip to plain maps so the result can be patched and re-encoded
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode %s options: %w", spec.Mark, err)
	}
	var out Options
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s options: %w", spec.Mark, err)
	}
	patch(out, spec)
	return out, nil
}

// ============================================================================
// GLOBAL OPTIONS
// ============================================================================

func globalOpts(spec *engine.ChartSpec) []charts.GlobalOpts {
	t := spec.Theme
	g := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			BackgroundColor: t.PaperBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      spec.Title,
			Left:       "left",
			TitleStyle: &opts.TextStyle{FontSize: t.TitleFontSize},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}",
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   strconv.Itoa(t.Margin.Left),
			Right:  strconv.Itoa(t.Margin.Right),
			Top:    strconv.Itoa(t.Margin.Top),
			Bottom: strconv.Itoa(t.Margin.Bottom),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         spec.YAxis.Title,
			NameLocation: "middle",
			NameGap:      35,
			AxisLine:     axisLine(spec.YAxis.Line),
			SplitLine:    &opts.SplitLine{Show: opts.Bool(false)},
		}),
	}

	if spec.Legend != nil {
		g = append(g, charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: orient(spec.Legend.Orientation),
			Right:  "0",
			Top:    "30",
			Data:   spec.Legend.Order,
		}))
	} else {
		g = append(g, charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}))
	}
	return g
}

func xAxisOpts(spec *engine.ChartSpec, kind string) charts.GlobalOpts {
	return charts.WithXAxisOpts(opts.XAxis{
		Name:         spec.XAxis.Title,
		Type:         kind,
		NameLocation: "middle",
		NameGap:      30,
		SplitLine:    &opts.SplitLine{Show: opts.Bool(false)},
	})
}

func axisLine(l engine.AxisLine) *opts.AxisLine {
	return &opts.AxisLine{
		Show:      opts.Bool(l.Show),
		LineStyle: &opts.LineStyle{Color: l.Color, Width: float32(l.Width)},
	}
}

func orient(o string) string {
	if o == "v" {
		return "vertical"
	}
	return "horizontal"
}

// ============================================================================
// CHARTS
// ============================================================================

func stripChart(spec *engine.ChartSpec) *charts.Scatter {
	c := charts.NewScatter()
	c.SetGlobalOptions(append(globalOpts(spec), xAxisOpts(spec, "value"))...)

	size, width := 10, 0.0
	if spec.Marker != nil {
		size = spec.Marker.Size
		width = spec.Marker.Jitter * band(spec)
	}

	for si, s := range spec.Series {
		offsets := Jitter(len(s.Points), width, int64(si+1))
		data := make([]opts.ScatterData, 0, len(s.Points))
		for i, p := range s.Points {
			data = append(data, opts.ScatterData{
				Name:       tooltip(spec, p),
				Value:      []float64{p.X + offsets[i], p.Y},
				SymbolSize: size,
			})
		}
		c.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
	}
	return c
}

func barChart(spec *engine.ChartSpec) *charts.Bar {
	c := charts.NewBar()
	c.SetGlobalOptions(append(globalOpts(spec), xAxisOpts(spec, "category"))...)
	c.SetXAxis(spec.XAxis.Categories)

	for _, s := range spec.Series {
		data := make([]opts.BarData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.BarData{Name: tooltip(spec, p), Value: p.Y})
		}
		c.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
	}
	return c
}

func boxChart(spec *engine.ChartSpec) *charts.BoxPlot {
	c := charts.NewBoxPlot()
	c.SetGlobalOptions(append(globalOpts(spec), xAxisOpts(spec, "category"))...)
	c.SetXAxis(spec.XAxis.Categories)

	var outliers []opts.ScatterData
	for _, s := range spec.Series {
		data := make([]opts.BoxPlotData, 0, len(s.Points))
		for i, p := range s.Points {
			if p.Box == nil {
				data = append(data, opts.BoxPlotData{Name: p.Category, Value: []float64{}})
				continue
			}
			b := p.Box
			data = append(data, opts.BoxPlotData{
				Name:  tooltip(spec, p),
				Value: []float64{b.LowerWhisker, b.Q1, b.Median, b.Q3, b.UpperWhisker},
			})
			for _, o := range b.Outliers {
				outliers = append(outliers, opts.ScatterData{
					Name:  tooltip(spec, engine.Point{Category: p.Category, Y: o}),
					Value: []interface{}{i, o},
				})
			}
		}
		c.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{
			Color:       "white",
			BorderColor: s.Color,
		}))
	}

	if len(outliers) > 0 {
		sc := charts.NewScatter()
		sc.AddSeries("Outliers", outliers, charts.WithItemStyleOpts(opts.ItemStyle{Color: BoxOutlierColor(spec)}))
		c.Overlap(sc)
	}
	return c
}

// BoxOutlierColor is the colour of the first box series.
func BoxOutlierColor(spec *engine.ChartSpec) string {
	if len(spec.Series) == 0 {
		return "black"
	}
	return spec.Series[0].Color
}

func heatChart(spec *engine.ChartSpec) *charts.HeatMap {
	h := spec.Heat
	c := charts.NewHeatMap()

	rowLabels := make([]string, len(h.Rows))
	for i, r := range h.Rows {
		rowLabels[i] = plainBreaks(spec.YAxis.TickLabel(r))
	}

	c.SetGlobalOptions(append(globalOpts(spec),
		xAxisOpts(spec, "category"),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         spec.YAxis.Title,
			Type:         "category",
			Data:         rowLabels,
			NameLocation: "middle",
			NameGap:      50,
			AxisLine:     axisLine(spec.YAxis.Line),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(h.Max()),
			Text:       []string{h.ColorBarTitle},
			InRange:    &opts.VisualMapInRange{Color: blues},
		}),
	)...)
	c.SetXAxis(h.Columns)

	data := make([]opts.HeatMapData, 0, len(h.Rows)*len(h.Columns))
	for r := range h.Rows {
		for col := range h.Columns {
			data = append(data, opts.HeatMapData{
				Name:  engine.ResolvePlaceholders(spec.Tooltip, h.CellValues(r, col)),
				Value: [3]interface{}{col, r, h.Counts[r][col]},
			})
		}
	}
	c.AddSeries(h.ColorBarTitle, data)
	return c
}

// ============================================================================
// PATCHES — settings go-echarts does not model
// ============================================================================

func patch(o Options, spec *engine.ChartSpec) {
	if spec.XAxis.Line.Mirror || spec.YAxis.Line.Mirror {
		if _, ok := o["grid"]; !ok {
			o["grid"] = map[string]interface{}{}
		}
		each(o["grid"], func(g map[string]interface{}) {
			g["show"] = true
			g["borderColor"] = spec.XAxis.Line.Color
			g["borderWidth"] = spec.XAxis.Line.Width
			g["backgroundColor"] = spec.Theme.PlotBackground
		})
	}
	each(o["xAxis"], func(a map[string]interface{}) {
		l := spec.XAxis.Line
		a["axisLine"] = map[string]interface{}{
			"show":      l.Show,
			"lineStyle": map[string]interface{}{"color": l.Color, "width": l.Width},
		}
	})
	if spec.YAxis.DTick > 0 {
		each(o["yAxis"], func(a map[string]interface{}) {
			a["interval"] = spec.YAxis.DTick
			a["scale"] = true
		})
	}
	if spec.Mark == engine.MarkPoint {
		each(o["xAxis"], func(a map[string]interface{}) { a["scale"] = true })
	}
	if h := spec.Heat; h != nil {
		each(o["visualMap"], func(v map[string]interface{}) {
			v["right"] = 0
			v["top"] = "middle"
		})
		each(o["series"], func(s map[string]interface{}) {
			s["label"] = map[string]interface{}{"show": true, "fontSize": h.TextSize, "formatter": "{@[2]}"}
			s["itemStyle"] = map[string]interface{}{"borderColor": spec.Theme.PlotBackground, "borderWidth": h.Gap}
		})
	}
}

// each applies fn to v when v is an object, or to every object in v when it
// is a list.
func each(v interface{}, fn func(map[string]interface{})) {
	switch t := v.(type) {
	case map[string]interface{}:
		fn(t)
	case []interface{}:
		for _, item := range t {
			if m, ok := item.(map[string]interface{}); ok {
				fn(m)
			}
		}
	}
}

package dashboard

import (
	"fmt"
	"math"

	"github.com/spektr-org/sleeplens/engine"
	"github.com/spektr-org/sleeplens/schema"
)

// BarColor fills every bar.
const BarColor = "#a6cee3"

// BuildBar plots the mean of metric per distinct Stress Level, ascending.
// Levels where every metric value is missing are left out.
func BuildBar(view engine.RecordView, metric string, opts ...engine.Option) *engine.ChartSpec {
	s := engine.ApplyOptions(opts)
	name := schema.MetricName(metric)

	spec := engine.NewChartSpec(engine.MarkBar,
		fmt.Sprintf("Average %s per Stress Level", name),
		schema.AxisLabel(schema.ColStressLevel), "Average "+schema.MetricAxisLabel(metric), s)
	spec.Theme.TitleFontSize = 18
	spec.Tooltip = "Stress Level: {x}<br>" + name + ": {y:.1f}"

	series := engine.Series{Name: name, Color: BarColor, Points: []engine.Point{}}
	for _, g := range engine.GroupAndAverage(view, schema.ColStressLevel, metric) {
		if math.IsNaN(g.Value) {
			continue
		}
		series.Points = append(series.Points, engine.Point{
			Category: g.Key,
			Y:        g.Value,
			Count:    g.Count,
		})
		spec.XAxis.Categories = append(spec.XAxis.Categories, g.Key)
	}
	spec.Series = append(spec.Series, series)

	return spec
}

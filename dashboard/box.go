package dashboard

import (
	"fmt"

	"github.com/spektr-org/sleeplens/engine"
	"github.com/spektr-org/sleeplens/schema"
)

// BoxColor strokes every box.
const BoxColor = "#1f78b4"

// BuildBox plots the distribution of metric per Age Group. All seven groups
// are present in fixed order, empty ones without statistics.
func BuildBox(view engine.RecordView, metric string, opts ...engine.Option) *engine.ChartSpec {
	s := engine.ApplyOptions(opts)
	name := schema.MetricName(metric)

	spec := engine.NewChartSpec(engine.MarkBox,
		fmt.Sprintf("Difference in %s across different Age Groups", name),
		schema.ColAgeGroup, schema.MetricAxisLabel(metric), s)
	spec.YAxis.DTick = 1
	spec.XAxis.Categories = schema.AgeGroupLabels
	spec.Theme.TitleFontSize = 18
	spec.Tooltip = "Age Group: {x}<br>Value: {y:.2f}"

	series := engine.Series{Name: name, Color: BoxColor}
	for _, g := range engine.GroupByCategories(view, schema.ColAgeGroup, schema.AgeGroupLabels) {
		values := engine.MeasureValues(g.View, metric)
		p := engine.Point{
			Category: g.Label,
			Count:    len(values),
			Values:   values,
			Box:      engine.Summarize(values),
		}
		if p.Box != nil {
			p.Y = p.Box.Median
		}
		series.Points = append(series.Points, p)
	}
	spec.Series = append(spec.Series, series)

	return spec
}

package dashboard

import (
	"fmt"
	"math"

	"github.com/spektr-org/sleeplens/engine"
	"github.com/spektr-org/sleeplens/schema"
)

// ============================================================================
// STRIP PLOT — Physical activity vs. metric, coloured by Age Group
// ============================================================================

// OtherGroup names the series of records that fall in no Age Group.
const OtherGroup = "Other"

// BuildStrip plots one point per record: x = Physical Activity Level,
// y = metric, one series per Age Group in fixed order. Records without an
// Age Group go to a trailing grey series. Records missing x or y are not
// drawn.
func BuildStrip(view engine.RecordView, metric string, opts ...engine.Option) *engine.ChartSpec {
	s := engine.ApplyOptions(opts)
	name := schema.MetricName(metric)

	spec := engine.NewChartSpec(engine.MarkPoint,
		fmt.Sprintf("Influence of Physical Activity on %s per Age Group", name),
		schema.AxisLabel(schema.ColPhysicalActivity), schema.MetricAxisLabel(metric), s)
	spec.YAxis.DTick = 1
	spec.Theme.Margin.Top = 80
	spec.Theme.TitleFontSize = 22
	spec.Marker = &engine.Marker{Size: s.MarkerSize, Jitter: s.Jitter}
	spec.Legend = &engine.Legend{
		Title:       schema.ColAgeGroup,
		Orientation: "h",
		Anchor:      "top-right",
		Order:       schema.AgeGroupLabels,
	}
	spec.Tooltip = "Age Group: {age_group}<br>Physical Activity Level: {x}<br>" + name + ": {y}"

	colors := engine.AssignColors(s.Palette, len(schema.AgeGroupLabels))
	groups := engine.GroupByCategories(view, schema.ColAgeGroup, schema.AgeGroupLabels)
	for i, g := range groups {
		spec.Series = append(spec.Series, engine.Series{
			Name:   g.Label,
			Color:  colors[i],
			Points: stripPoints(g.View, metric, g.Label),
		})
	}

	other := engine.MissingOnly(view, schema.ColAgeGroup)
	if other.Len() > 0 {
		spec.Series = append(spec.Series, engine.Series{
			Name:   OtherGroup,
			Color:  engine.OtherColor,
			Points: stripPoints(other, metric, OtherGroup),
		})
		spec.Legend.Order = append(append([]string(nil), schema.AgeGroupLabels...), OtherGroup)
	}

	return spec
}

func stripPoints(view engine.RecordView, metric, group string) []engine.Point {
	points := make([]engine.Point, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		x := view.Measure(i, schema.ColPhysicalActivity)
		y := view.Measure(i, metric)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		points = append(points, engine.Point{
			X:      x,
			Y:      y,
			Fields: map[string]string{"age_group": group},
		})
	}
	return points
}

package dashboard

import (
	"strconv"

	"github.com/spektr-org/sleeplens/engine"
	"github.com/spektr-org/sleeplens/schema"
)

// ============================================================================
// HEATMAP — BMI category × sleep disorder frequencies
// ============================================================================

var bmiTickText = map[string]string{
	schema.BMINormalWeight: "Normal<br>Weight",
	schema.BMIOverweight:   "Over-<br>weight",
}

// BuildHeatmap counts records per (BMI category, sleep disorder) pair. The
// grid is always 2×3 with zero cells kept; records outside the known
// categories are not counted.
func BuildHeatmap(view engine.RecordView, opts ...engine.Option) *engine.ChartSpec {
	s := engine.ApplyOptions(opts)
	sch := schema.SleepHealth()
	bmi, _ := sch.Dimension(schema.ColBMICategory)
	disorder, _ := sch.Dimension(schema.ColSleepDisorder)

	spec := engine.NewChartSpec(engine.MarkHeatmap,
		"Frequencies between "+bmi.DisplayName+" and "+disorder.DisplayName,
		disorder.DisplayName, bmi.DisplayName, s)
	spec.Theme.TitleFontSize = 18
	spec.Tooltip = "Sleep Disorder: {x}<br>BMI-Category: {y}<br>Frequency: {z}"

	rows := bmi.Categories
	cols := disorder.Categories
	spec.XAxis.Categories = cols
	spec.YAxis.Categories = rows
	spec.YAxis.TickValues = rows
	for _, r := range rows {
		spec.YAxis.TickText = append(spec.YAxis.TickText, bmiTickText[r])
	}

	counts := engine.CrossTab(view, schema.ColBMICategory, schema.ColSleepDisorder, rows, cols)
	text := make([][]string, len(counts))
	for i, row := range counts {
		text[i] = make([]string, len(row))
		for j, c := range row {
			text[i][j] = strconv.Itoa(c)
		}
	}

	spec.Heat = &engine.HeatGrid{
		Rows:          rows,
		Columns:       cols,
		Counts:        counts,
		Text:          text,
		ColorScale:    "Blues",
		ColorBarTitle: "Frequency",
		Gap:           2,
		TextSize:      20,
	}
	return spec
}

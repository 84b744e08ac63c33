package engine

// ============================================================================
// CHART BUILDER — Shared scaffolding for ChartSpecs
// ============================================================================
// Builders in the dashboard package start from NewChartSpec and fill in
// series. Colours come from a sequential ramp mapped 1:1 onto ordered
// categories, so the darkest shade always lands on the last category.
// ============================================================================

// SequentialBlues is the default categorical ramp, lightest to darkest.
var SequentialBlues = []string{
	"#a6cee3", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b", "#041c3a",
}

// OtherColor is used for records outside every known category.
const OtherColor = "#bdbdbd"

// DefaultTheme returns the white, bordered look shared by every chart.
func DefaultTheme() Theme {
	return Theme{
		PaperBackground: "white",
		PlotBackground:  "white",
		Margin:          Margin{Left: 50, Right: 50, Top: 50, Bottom: 50},
		TitleFontSize:   16,
	}
}

// BorderedAxis returns an axis with a mirrored 2px black line.
func BorderedAxis(title string) Axis {
	return Axis{
		Title: title,
		Line:  AxisLine{Show: true, Width: 2, Color: "black", Mirror: true},
	}
}

// NewChartSpec creates a spec with the shared theme and bordered axes.
func NewChartSpec(mark Mark, title, xTitle, yTitle string, s *Settings) *ChartSpec {
	return &ChartSpec{
		Mark:   mark,
		Title:  title,
		XAxis:  BorderedAxis(xTitle),
		YAxis:  BorderedAxis(yTitle),
		Series: []Series{},
		Theme:  s.Theme,
	}
}

// AssignColors maps count ordered categories onto the palette. When there
// are more categories than colours the palette wraps.
func AssignColors(palette []string, count int) []string {
	colors := make([]string, count)
	if len(palette) == 0 {
		return colors
	}
	for i := 0; i < count; i++ {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

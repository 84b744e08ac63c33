package engine

import "math"

// ============================================================================
// ENGINE TYPES — Renderer-agnostic chart specifications
// ============================================================================
// A ChartSpec is plain data: mark + series + axis/legend metadata + tooltip.
// Concrete renderers (ECharts options, PNG) adapt it at the boundary.
// ============================================================================

// Mark is the visual mark type of a chart.
type Mark string

const (
	MarkPoint   Mark = "point"
	MarkBar     Mark = "bar"
	MarkBox     Mark = "box"
	MarkHeatmap Mark = "heatmap"
)

// ChartSpec is a declarative description of one chart.
type ChartSpec struct {
	Mark    Mark      `json:"mark"`
	Title   string    `json:"title"`
	XAxis   Axis      `json:"xAxis"`
	YAxis   Axis      `json:"yAxis"`
	Legend  *Legend   `json:"legend,omitempty"`
	Series  []Series  `json:"series"`
	Marker  *Marker   `json:"marker,omitempty"`
	Heat    *HeatGrid `json:"heat,omitempty"`
	Tooltip string    `json:"tooltip"` // "{name}" / "{name:.1f}" placeholders
	Theme   Theme     `json:"theme"`
}

// PointCount returns the number of data points across all series.
func (s *ChartSpec) PointCount() int {
	n := 0
	for _, sr := range s.Series {
		n += len(sr.Points)
	}
	return n
}

// Axis describes one axis.
type Axis struct {
	Title      string   `json:"title"`
	Categories []string `json:"categories,omitempty"` // category order, empty = continuous
	TickValues []string `json:"tickValues,omitempty"`
	TickText   []string `json:"tickText,omitempty"` // display text for TickValues
	DTick      float64  `json:"dtick,omitempty"`
	Line       AxisLine `json:"line"`
}

// TickLabel returns the display text for a category, honouring TickText.
func (a Axis) TickLabel(category string) string {
	for i, v := range a.TickValues {
		if v == category && i < len(a.TickText) {
			return a.TickText[i]
		}
	}
	return category
}

// AxisLine styles the axis border. Mirror draws it on the opposite side too.
type AxisLine struct {
	Show   bool   `json:"show"`
	Width  int    `json:"width"`
	Color  string `json:"color"`
	Mirror bool   `json:"mirror"`
}

// Legend describes the colour legend.
type Legend struct {
	Title       string   `json:"title"`
	Orientation string   `json:"orientation"` // "h" or "v"
	Anchor      string   `json:"anchor"`      // "top-right", ...
	Order       []string `json:"order"`
}

// Series is a named group of points sharing one colour.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Point is one datum. Category is set for categorical x axes.
type Point struct {
	X        float64           `json:"x"`
	Category string            `json:"category,omitempty"`
	Y        float64           `json:"y"`
	Count    int               `json:"count,omitempty"`
	Values   []float64         `json:"values,omitempty"` // box distribution
	Box      *BoxStats         `json:"box,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"` // extra tooltip values
}

// Marker sets the point glyph size and horizontal jitter (fraction of a band).
type Marker struct {
	Size   int     `json:"size"`
	Jitter float64 `json:"jitter"`
}

// HeatGrid is a dense row × column count matrix.
type HeatGrid struct {
	Rows          []string   `json:"rows"`
	Columns       []string   `json:"columns"`
	Counts        [][]int    `json:"counts"`
	Text          [][]string `json:"text"`
	ColorScale    string     `json:"colorScale"`
	ColorBarTitle string     `json:"colorBarTitle"`
	Gap           int        `json:"gap"`
	TextSize      int        `json:"textSize,omitempty"`
}

// Max returns the largest cell count.
func (h *HeatGrid) Max() int {
	m := 0
	for _, row := range h.Counts {
		for _, c := range row {
			if c > m {
				m = c
			}
		}
	}
	return m
}

// Theme holds the shared visual settings.
type Theme struct {
	PaperBackground string `json:"paperBackground"`
	PlotBackground  string `json:"plotBackground"`
	Margin          Margin `json:"margin"`
	TitleFontSize   int    `json:"titleFontSize"`
}

// Margin in pixels.
type Margin struct {
	Left   int `json:"l"`
	Right  int `json:"r"`
	Top    int `json:"t"`
	Bottom int `json:"b"`
}

// ============================================================================
// BOX STATISTICS
// ============================================================================

// BoxStats summarizes a distribution. Whiskers end at the most extreme
// values within 1.5 IQR of the quartiles.
type BoxStats struct {
	N            int       `json:"n"`
	Mean         float64   `json:"mean"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	LowerWhisker float64   `json:"lowerWhisker"`
	UpperWhisker float64   `json:"upperWhisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // sub-view for records in this group (zero-copy)
}

// ============================================================================
// TABLE / TEXT TYPES
// ============================================================================

// TableData is a flat tabular rendering of a chart, used for CSV export.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"` // "text", "number"
}

// TextData is the dataset description shown under the page title.
type TextData struct {
	Text         string `json:"text"`
	Observations int    `json:"observations"`
	Variables    int    `json:"variables"`
}

// isMissing reports whether a measure value is the missing marker.
func isMissing(v float64) bool { return math.IsNaN(v) }

package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Flattens a ChartSpec into TableData
// ============================================================================
// One row per point (or per heatmap cell). Used by the CSV export path.
// ============================================================================

// BuildTable flattens a chart spec into rows.
func BuildTable(spec *ChartSpec) *TableData {
	if spec == nil {
		return &TableData{Columns: []Column{}, Rows: [][]string{}}
	}

	switch spec.Mark {
	case MarkHeatmap:
		return buildHeatTable(spec)
	case MarkBox:
		return buildBoxTable(spec)
	default:
		return buildPointTable(spec)
	}
}

// ============================================================================
// POINT TABLE — Strip and bar charts
// ============================================================================

func buildPointTable(spec *ChartSpec) *TableData {
	columns := []Column{
		{Key: "series", Label: "Series", Type: "text"},
		{Key: "x", Label: axisLabel(spec.XAxis, "x"), Type: "text"},
		{Key: "y", Label: axisLabel(spec.YAxis, "y"), Type: "number"},
	}

	rows := make([][]string, 0, spec.PointCount())
	for _, s := range spec.Series {
		for _, p := range s.Points {
			x := p.Category
			if x == "" {
				x = FormatNumber(p.X)
			}
			rows = append(rows, []string{s.Name, x, FormatNumber(p.Y)})
		}
	}

	return &TableData{Title: spec.Title, Columns: columns, Rows: rows}
}

// ============================================================================
// BOX TABLE — One row per category with the five-number summary
// ============================================================================

func buildBoxTable(spec *ChartSpec) *TableData {
	columns := []Column{
		{Key: "category", Label: axisLabel(spec.XAxis, "category"), Type: "text"},
		{Key: "n", Label: "N", Type: "number"},
		{Key: "lower", Label: "Lower Whisker", Type: "number"},
		{Key: "q1", Label: "Q1", Type: "number"},
		{Key: "median", Label: "Median", Type: "number"},
		{Key: "q3", Label: "Q3", Type: "number"},
		{Key: "upper", Label: "Upper Whisker", Type: "number"},
	}

	rows := [][]string{}
	for _, s := range spec.Series {
		for _, p := range s.Points {
			if p.Box == nil {
				rows = append(rows, []string{p.Category, "0", "", "", "", "", ""})
				continue
			}
			b := p.Box
			rows = append(rows, []string{
				p.Category,
				fmt.Sprintf("%d", b.N),
				FormatNumber(b.LowerWhisker),
				FormatNumber(b.Q1),
				FormatNumber(b.Median),
				FormatNumber(b.Q3),
				FormatNumber(b.UpperWhisker),
			})
		}
	}

	return &TableData{Title: spec.Title, Columns: columns, Rows: rows}
}

// ============================================================================
// HEAT TABLE — One row per cell
// ============================================================================

func buildHeatTable(spec *ChartSpec) *TableData {
	columns := []Column{
		{Key: "row", Label: axisLabel(spec.YAxis, "row"), Type: "text"},
		{Key: "column", Label: axisLabel(spec.XAxis, "column"), Type: "text"},
		{Key: "count", Label: "Count", Type: "number"},
	}

	rows := [][]string{}
	if h := spec.Heat; h != nil {
		for r, rowName := range h.Rows {
			for c, colName := range h.Columns {
				rows = append(rows, []string{rowName, colName, FormatInt(h.Counts[r][c])})
			}
		}
	}

	return &TableData{Title: spec.Title, Columns: columns, Rows: rows}
}

func axisLabel(a Axis, fallback string) string {
	if a.Title != "" {
		return a.Title
	}
	return fallback
}

package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ============================================================================
// AGGREGATORS — Grouping, Averaging, and Ordering via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to the dataset.
// Grouping produces SubViews (index lists into the parent view).
// Missing measures (NaN) are skipped, missing dimensions ("") form no group.
// ============================================================================

var nan = math.NaN()

// GroupAndAverage groups by one dimension, averages a measure per group,
// then orders groups by key. Pipeline: group → average → sort.
func GroupAndAverage(view RecordView, dimension, measure string) []Group {
	if view.Len() == 0 {
		return nil
	}

	groups := groupBySingle(view, dimension)
	for i := range groups {
		g := &groups[i]
		g.Count = g.View.Len()
		g.Value = AvgMeasure(g.View, measure)
	}
	sortByKey(groups)
	return groups
}

// GroupByCategories groups by a dimension with a fixed category order.
// Every category yields a group, empty ones included; values outside the
// category list are ignored.
func GroupByCategories(view RecordView, dimension string, categories []string) []Group {
	index := make(map[string]int, len(categories))
	buckets := make([][]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}

	for i := 0; i < view.Len(); i++ {
		if pos, ok := index[view.Dimension(i, dimension)]; ok {
			buckets[pos] = append(buckets[pos], i)
		}
	}

	groups := make([]Group, len(categories))
	for i, c := range categories {
		groups[i] = Group{
			Key:   c,
			Label: c,
			Count: len(buckets[i]),
			View:  newSubView(view, buckets[i]),
		}
	}
	return groups
}

// CrossTab counts co-occurrences of two dimensions over fixed row and column
// categories. The result is dense: len(rows) × len(cols), zeros included.
func CrossTab(view RecordView, rowDim, colDim string, rows, cols []string) [][]int {
	rowIdx := make(map[string]int, len(rows))
	colIdx := make(map[string]int, len(cols))
	for i, r := range rows {
		rowIdx[r] = i
	}
	for i, c := range cols {
		colIdx[c] = i
	}

	counts := make([][]int, len(rows))
	for i := range counts {
		counts[i] = make([]int, len(cols))
	}

	for i := 0; i < view.Len(); i++ {
		r, okR := rowIdx[view.Dimension(i, rowDim)]
		c, okC := colIdx[view.Dimension(i, colDim)]
		if okR && okC {
			counts[r][c]++
		}
	}
	return counts
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

// MeasureValues returns the non-missing values of a measure, in view order.
func MeasureValues(view RecordView, measure string) []float64 {
	vals := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v := view.Measure(i, measure); !isMissing(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

// AvgMeasure computes the mean of the non-missing values of a measure.
// Returns NaN when no value is present.
func AvgMeasure(view RecordView, measure string) float64 {
	vals := MeasureValues(view, measure)
	if len(vals) == 0 {
		return nan
	}
	var total float64
	for _, v := range vals {
		total += v
	}
	return total / float64(len(vals))
}

// ============================================================================
// SORTING
// ============================================================================

// sortByKey orders groups by the numeric value of their keys, non-numeric
// keys last in lexical order.
func sortByKey(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool { return numericLess(groups[i].Key, groups[j].Key) })
}

func numericLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatNumber renders whole numbers without decimals and keeps the shortest
// exact representation otherwise ("7", "6.1").
func FormatNumber(v float64) string {
	if isMissing(v) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

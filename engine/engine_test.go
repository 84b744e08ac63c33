package engine

import (
	"math"
	"strings"
	"testing"
)

// ============================================================================
// ENGINE TESTS
// ============================================================================
// Tests cover:
//   1. DomainAdapter / SubView — zero-copy access, missing values
//   2. Grouping — key order, fixed categories, cross tabulation
//   3. Aggregation — missing measures skipped, empty groups
//   4. Box statistics — quartiles, whiskers, outliers
//   5. Tooltip templates — precision, unknown placeholders
//   6. Table flattening — per mark
// ============================================================================

// --- Test Fixtures ---

type person struct {
	group  string
	stress string
	hours  float64
}

func testView(rows []person) RecordView {
	return NewDomainAdapter[person]().
		Dimension("group", func(p person) string { return p.group }).
		Dimension("stress", func(p person) string { return p.stress }).
		Measure("hours", func(p person) float64 { return p.hours }).
		Bind(rows)
}

func fixture() RecordView {
	return testView([]person{
		{"b", "7", 6.0},
		{"a", "3", 8.0},
		{"b", "7", 7.0},
		{"a", "10", math.NaN()},
		{"", "3", 5.0},
		{"c", "3", 9.0},
	})
}

// ============================================================================
// VIEW TESTS
// ============================================================================

func TestDomainView_MissingValues(t *testing.T) {
	v := fixture()

	if v.Len() != 6 {
		t.Fatalf("Len = %d, want 6", v.Len())
	}
	if got := v.Dimension(0, "unknown"); got != "" {
		t.Errorf("unknown dimension = %q, want empty", got)
	}
	if got := v.Measure(0, "unknown"); !math.IsNaN(got) {
		t.Errorf("unknown measure = %v, want NaN", got)
	}
	if got := v.Measure(99, "hours"); !math.IsNaN(got) {
		t.Errorf("out of range measure = %v, want NaN", got)
	}
	if keys := v.DimensionKeys(); len(keys) != 2 || keys[0] != "group" {
		t.Errorf("DimensionKeys = %v", keys)
	}
}

func TestApplyFilters_SubViewReadsThroughParent(t *testing.T) {
	v := fixture()
	sub := ApplyFilters(v, Filters{Dimensions: map[string][]string{"stress": {"3"}}})

	if sub.Len() != 3 {
		t.Fatalf("filtered Len = %d, want 3", sub.Len())
	}
	if got := sub.Measure(2, "hours"); got != 9.0 {
		t.Errorf("sub.Measure(2) = %v, want 9", got)
	}
	if got := sub.Measure(5, "hours"); !math.IsNaN(got) {
		t.Errorf("out of range sub measure = %v, want NaN", got)
	}
}

func TestApplyFilters_EmptyReturnsOriginal(t *testing.T) {
	v := fixture()
	if got := ApplyFilters(v, Filters{}); got != v {
		t.Error("empty filter should return the original view")
	}
}

func TestOnlyCategories_DropsMissing(t *testing.T) {
	sub := OnlyCategories(fixture(), "group", []string{"a", "b"})
	if sub.Len() != 4 {
		t.Errorf("Len = %d, want 4", sub.Len())
	}
}

func TestMissingOnly(t *testing.T) {
	sub := MissingOnly(fixture(), "group")
	if sub.Len() != 1 {
		t.Fatalf("Len = %d, want 1", sub.Len())
	}
	if got := sub.Measure(0, "hours"); got != 5 {
		t.Errorf("hours = %v, want 5", got)
	}
}

// ============================================================================
// GROUPING TESTS
// ============================================================================

func TestGroupAndAverage_SkipsMissing(t *testing.T) {
	groups := GroupAndAverage(fixture(), "group", "hours")

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3 (missing key excluded)", len(groups))
	}
	if groups[0].Key != "a" || groups[0].Value != 8.0 || groups[0].Count != 2 {
		t.Errorf("group a = %s/%v/%d, want a/8/2", groups[0].Key, groups[0].Value, groups[0].Count)
	}
	if groups[1].Key != "b" || groups[1].Value != 6.5 {
		t.Errorf("group b = %s/%v, want b/6.5", groups[1].Key, groups[1].Value)
	}
}

func TestGroupAndAverage_NumericOrder(t *testing.T) {
	groups := GroupAndAverage(fixture(), "stress", "hours")

	want := []string{"3", "7", "10"}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, k := range want {
		if groups[i].Key != k {
			t.Errorf("groups[%d] = %s, want %s", i, groups[i].Key, k)
		}
	}
	if !math.IsNaN(groups[2].Value) {
		t.Errorf("all-missing group value = %v, want NaN", groups[2].Value)
	}
}

func TestGroupAndAverage_EmptyView(t *testing.T) {
	if groups := GroupAndAverage(testView(nil), "group", "hours"); groups != nil {
		t.Errorf("empty view returned %d groups", len(groups))
	}
}

func TestGroupByCategories_DenseAndOrdered(t *testing.T) {
	groups := GroupByCategories(fixture(), "group", []string{"c", "z", "a"})

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Count != 1 || groups[1].Count != 0 || groups[2].Count != 2 {
		t.Errorf("counts = %d/%d/%d, want 1/0/2", groups[0].Count, groups[1].Count, groups[2].Count)
	}
	if groups[1].View.Len() != 0 {
		t.Error("empty category should carry an empty view")
	}
}

func TestCrossTab_Dense(t *testing.T) {
	counts := CrossTab(fixture(), "group", "stress", []string{"a", "b", "c"}, []string{"3", "7", "10", "9"})

	want := [][]int{
		{1, 0, 1, 0},
		{0, 2, 0, 0},
		{1, 0, 0, 0},
	}
	for r := range want {
		for c := range want[r] {
			if counts[r][c] != want[r][c] {
				t.Errorf("counts[%d][%d] = %d, want %d", r, c, counts[r][c], want[r][c])
			}
		}
	}
}

func TestAvgMeasure(t *testing.T) {
	if got := AvgMeasure(fixture(), "hours"); got != 7 {
		t.Errorf("AvgMeasure = %v, want 7", got)
	}
	if got := AvgMeasure(testView(nil), "hours"); !math.IsNaN(got) {
		t.Errorf("AvgMeasure(empty) = %v, want NaN", got)
	}
}

// ============================================================================
// BOX STATISTICS TESTS
// ============================================================================

func TestSummarize_Outliers(t *testing.T) {
	st := Summarize([]float64{5, 3, 1, 2, 4, 8, 7, 6, 100})

	if st == nil {
		t.Fatal("Summarize returned nil")
	}
	if st.N != 9 {
		t.Errorf("N = %d, want 9", st.N)
	}
	if st.Median != 5 {
		t.Errorf("Median = %v, want 5", st.Median)
	}
	if !(st.Q1 <= st.Median && st.Median <= st.Q3) {
		t.Errorf("quartiles out of order: %v %v %v", st.Q1, st.Median, st.Q3)
	}
	if st.UpperWhisker != 8 {
		t.Errorf("UpperWhisker = %v, want 8", st.UpperWhisker)
	}
	if st.LowerWhisker != 1 {
		t.Errorf("LowerWhisker = %v, want 1", st.LowerWhisker)
	}
	if len(st.Outliers) != 1 || st.Outliers[0] != 100 {
		t.Errorf("Outliers = %v, want [100]", st.Outliers)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if st := Summarize(nil); st != nil {
		t.Errorf("Summarize(nil) = %+v, want nil", st)
	}
}

func TestSummarize_SingleValue(t *testing.T) {
	st := Summarize([]float64{7})
	if st.Median != 7 || st.LowerWhisker != 7 || st.UpperWhisker != 7 {
		t.Errorf("single value stats = %+v", st)
	}
}

// ============================================================================
// TEMPLATE TESTS
// ============================================================================

func TestResolvePlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]interface{}
		want     string
	}{
		{"plain", "Stress Level: {x}", map[string]interface{}{"x": "7"}, "Stress Level: 7"},
		{"precision", "{y:.1f}", map[string]interface{}{"y": 6.4567}, "6.5"},
		{"two decimals", "Value: {y:.2f}", map[string]interface{}{"y": 7.0}, "Value: 7.00"},
		{"int", "Frequency: {z}", map[string]interface{}{"z": 12}, "Frequency: 12"},
		{"whole float", "{y}", map[string]interface{}{"y": 8.0}, "8"},
		{"underscore key", "Age Group: {age_group}", map[string]interface{}{"age_group": "30-39"}, "Age Group: 30-39"},
		{"unknown dropped", "a{missing}b", map[string]interface{}{}, "ab"},
		{"numeric string precision", "{y:.1f}", map[string]interface{}{"y": "6.26"}, "6.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePlaceholders(tt.template, tt.values); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPointTooltipValues(t *testing.T) {
	p := Point{X: 45, Y: 6.1, Fields: map[string]string{"age_group": "40-49"}}
	got := ResolvePlaceholders("{age_group} {x} {y}", p.TooltipValues())
	if got != "40-49 45 6.1" {
		t.Errorf("got %q", got)
	}

	cat := Point{Category: "7", Y: 6.0}
	if got := ResolvePlaceholders("{x}", cat.TooltipValues()); got != "7" {
		t.Errorf("category x = %q, want 7", got)
	}
}

// ============================================================================
// TABLE / TEXT TESTS
// ============================================================================

func TestBuildTable_Points(t *testing.T) {
	spec := NewChartSpec(MarkBar, "Average", "Stress", "Hours", ApplyOptions(nil))
	spec.Series = []Series{{Name: "avg", Points: []Point{
		{Category: "3", Y: 7.5},
		{Category: "8", Y: 6},
	}}}

	table := BuildTable(spec)
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Columns[1].Label != "Stress" {
		t.Errorf("x column label = %q", table.Columns[1].Label)
	}
	if strings.Join(table.Rows[0], ",") != "avg,3,7.5" {
		t.Errorf("row 0 = %v", table.Rows[0])
	}
}

func TestBuildTable_Heatmap(t *testing.T) {
	spec := NewChartSpec(MarkHeatmap, "Freq", "Disorder", "BMI", ApplyOptions(nil))
	spec.Heat = &HeatGrid{
		Rows:    []string{"r1", "r2"},
		Columns: []string{"c1"},
		Counts:  [][]int{{3}, {0}},
	}

	table := BuildTable(spec)
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[1][2] != "0" {
		t.Errorf("zero cell = %q, want 0", table.Rows[1][2])
	}
}

func TestBuildText(t *testing.T) {
	text := BuildText(fixture(), 13)
	if text.Observations != 6 || text.Variables != 13 {
		t.Errorf("text = %+v", text)
	}
	if !strings.Contains(text.Text, "6 observations") {
		t.Errorf("text %q missing observation count", text.Text)
	}
}

func TestApplyOptions_Defaults(t *testing.T) {
	s := ApplyOptions([]Option{WithMarkerSize(12)})
	if s.MarkerSize != 12 {
		t.Errorf("MarkerSize = %d, want 12", s.MarkerSize)
	}
	if s.Jitter != 0.9 || len(s.Palette) != 7 {
		t.Errorf("defaults not applied: %+v", s)
	}
	if s.Theme.PlotBackground != "white" {
		t.Errorf("theme = %+v", s.Theme)
	}
}

func TestAssignColors_Wraps(t *testing.T) {
	colors := AssignColors([]string{"#1", "#2"}, 3)
	if colors[2] != "#1" {
		t.Errorf("colors = %v", colors)
	}
}

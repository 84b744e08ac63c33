package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/spektr-org/sleeplens/engine"
)

// --- Test Fixtures ---

func stripSpec() *engine.ChartSpec {
	spec := engine.NewChartSpec(engine.MarkPoint, "Strip", "Activity", "Hours", engine.ApplyOptions(nil))
	spec.Marker = &engine.Marker{Size: 20, Jitter: 0.9}
	spec.YAxis.DTick = 1
	spec.Tooltip = "Age Group: {age_group}<br>Physical Activity Level: {x}<br>Sleep Duration: {y}"
	spec.Legend = &engine.Legend{Orientation: "h", Order: []string{"25-29", "30-34"}}
	spec.Series = []engine.Series{
		{Name: "25-29", Color: "#a6cee3", Points: []engine.Point{
			{X: 30, Y: 6, Fields: map[string]string{"age_group": "25-29"}},
			{X: 45, Y: 7, Fields: map[string]string{"age_group": "25-29"}},
		}},
		{Name: "30-34", Color: "#6baed6", Points: []engine.Point{
			{X: 60, Y: 8, Fields: map[string]string{"age_group": "30-34"}},
		}},
	}
	return spec
}

func barSpec() *engine.ChartSpec {
	spec := engine.NewChartSpec(engine.MarkBar, "Bar", "Stress", "Average", engine.ApplyOptions(nil))
	spec.Tooltip = "Stress Level: {x}<br>Sleep Duration: {y:.1f}"
	spec.XAxis.Categories = []string{"3", "8"}
	spec.Series = []engine.Series{{Name: "Sleep Duration", Color: "#a6cee3", Points: []engine.Point{
		{Category: "3", Y: 7.45},
		{Category: "8", Y: 6.04},
	}}}
	return spec
}

func heatSpec() *engine.ChartSpec {
	spec := engine.NewChartSpec(engine.MarkHeatmap, "Heat", "Sleep Disorder", "BMI-Category", engine.ApplyOptions(nil))
	spec.Tooltip = "Sleep Disorder: {x}<br>BMI-Category: {y}<br>Frequency: {z}"
	spec.YAxis.TickValues = []string{"Normal Weight", "Overweight"}
	spec.YAxis.TickText = []string{"Normal<br>Weight", "Over-<br>weight"}
	spec.Heat = &engine.HeatGrid{
		Rows:          []string{"Normal Weight", "Overweight"},
		Columns:       []string{"None", "Insomnia", "Sleep Apnea"},
		Counts:        [][]int{{5, 0, 1}, {2, 3, 0}},
		ColorBarTitle: "Frequency",
		Gap:           2,
		TextSize:      20,
	}
	return spec
}

func encode(t *testing.T, o Options) string {
	t.Helper()
	b, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal options: %v", err)
	}
	return string(b)
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("expected %q in output", needle)
	}
}

// ============================================================================
// JITTER
// ============================================================================

func TestJitter_DeterministicAndBounded(t *testing.T) {
	a := Jitter(50, 2, 7)
	b := Jitter(50, 2, 7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("offset %d differs between runs", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Errorf("offset %d = %v outside [-1, 1]", i, a[i])
		}
	}
	for _, v := range Jitter(3, 0, 1) {
		if v != 0 {
			t.Errorf("zero width produced offset %v", v)
		}
	}
}

func TestBand(t *testing.T) {
	if got := band(stripSpec()); got != 15 {
		t.Errorf("band = %v, want 15", got)
	}
	if got := band(barSpec()); got != 1 {
		t.Errorf("band without x gaps = %v, want 1", got)
	}
}

// ============================================================================
// ECHARTS
// ============================================================================

func TestECharts_Strip(t *testing.T) {
	o, err := ECharts(stripSpec())
	if err != nil {
		t.Fatalf("ECharts: %v", err)
	}
	out := encode(t, o)

	assertContains(t, out, `"scatter"`)
	assertContains(t, out, "Age Group: 25-29\\u003cbr\\u003ePhysical Activity Level: 30")
	assertContains(t, out, `"interval":1`)
	assertContains(t, out, `"borderWidth":2`)

	var line map[string]interface{}
	each(o["xAxis"], func(a map[string]interface{}) {
		line, _ = a["axisLine"].(map[string]interface{})
	})
	if line == nil || line["show"] != true {
		t.Errorf("xAxis.axisLine = %v, want show=true", line)
	}

	again, _ := ECharts(stripSpec())
	if encode(t, again) != out {
		t.Error("strip options are not deterministic")
	}
}

func TestECharts_Bar(t *testing.T) {
	o, err := ECharts(barSpec())
	if err != nil {
		t.Fatalf("ECharts: %v", err)
	}
	out := encode(t, o)

	assertContains(t, out, `"bar"`)
	assertContains(t, out, "Sleep Duration: 7.5")
	assertContains(t, out, "#a6cee3")
}

func TestECharts_Heatmap(t *testing.T) {
	o, err := ECharts(heatSpec())
	if err != nil {
		t.Fatalf("ECharts: %v", err)
	}
	out := encode(t, o)

	assertContains(t, out, `"heatmap"`)
	assertContains(t, out, `Normal\nWeight`)
	assertContains(t, out, "Frequency: 0")
	assertContains(t, out, `"fontSize":20`)
}

func TestECharts_Box(t *testing.T) {
	spec := engine.NewChartSpec(engine.MarkBox, "Box", "Age Group", "Hours", engine.ApplyOptions(nil))
	spec.Tooltip = "Age Group: {x}<br>Value: {y:.2f}"
	spec.XAxis.Categories = []string{"25-29", "30-34"}
	st := engine.Summarize([]float64{1, 2, 3, 4, 5, 6, 7, 8, 100})
	spec.Series = []engine.Series{{Name: "Hours", Color: "#1f78b4", Points: []engine.Point{
		{Category: "25-29", Y: st.Median, Box: st},
		{Category: "30-34"},
	}}}

	o, err := ECharts(spec)
	if err != nil {
		t.Fatalf("ECharts: %v", err)
	}
	out := encode(t, o)
	assertContains(t, out, `"boxplot"`)
	assertContains(t, out, "Value: 5.00")
	assertContains(t, out, "Outliers")
}

func TestECharts_Nil(t *testing.T) {
	if _, err := ECharts(nil); err == nil {
		t.Error("expected error for nil spec")
	}
}

// ============================================================================
// PNG
// ============================================================================

func TestPNG_StripAndBar(t *testing.T) {
	for _, spec := range []*engine.ChartSpec{stripSpec(), barSpec()} {
		var buf bytes.Buffer
		if err := PNG(&buf, spec, 640, 400); err != nil {
			t.Fatalf("%s: %v", spec.Mark, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("%s: decode: %v", spec.Mark, err)
		}
		if img.Bounds().Dx() != 640 {
			t.Errorf("%s: width = %d", spec.Mark, img.Bounds().Dx())
		}
	}
}

func TestPNG_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, heatSpec(), 640, 400); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

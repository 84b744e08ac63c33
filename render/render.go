// Package render adapts engine.ChartSpec values to concrete renderers:
// ECharts option objects for the browser and PNG images for export.
package render

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/spektr-org/sleeplens/engine"
)

// ErrUnsupported is returned when a renderer cannot draw a mark.
var ErrUnsupported = errors.New("mark not supported by renderer")

// Jitter returns n deterministic offsets in [-width/2, width/2]. The same
// (n, width, seed) always yields the same offsets.
func Jitter(n int, width float64, seed int64) []float64 {
	out := make([]float64, n)
	if width <= 0 {
		return out
	}
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64() - 0.5) * width
	}
	return out
}

// band is the smallest gap between distinct x values of a spec, or 1.
func band(spec *engine.ChartSpec) float64 {
	var xs []float64
	for _, s := range spec.Series {
		for _, p := range s.Points {
			xs = append(xs, p.X)
		}
	}
	sort.Float64s(xs)

	gap := math.Inf(1)
	for i := 1; i < len(xs); i++ {
		if d := xs[i] - xs[i-1]; d > 0 && d < gap {
			gap = d
		}
	}
	if math.IsInf(gap, 1) {
		return 1
	}
	return gap
}

// tooltip resolves the spec's template for one point.
func tooltip(spec *engine.ChartSpec, p engine.Point) string {
	return engine.ResolvePlaceholders(spec.Tooltip, p.TooltipValues())
}

// plainBreaks turns HTML line breaks into newlines for axis labels.
func plainBreaks(s string) string {
	return strings.ReplaceAll(s, "<br>", "\n")
}

package engine

import (
	"sort"

	"github.com/go-gota/gota/series"
)

// Summarize computes box statistics over values. Missing values must already
// be removed (see MeasureValues). Returns nil for an empty distribution.
//
// Quartiles use gota's empirical quantile, so they are always observed values.
func Summarize(values []float64) *BoxStats {
	if len(values) == 0 {
		return nil
	}

	s := series.Floats(values)
	st := &BoxStats{
		N:      len(values),
		Mean:   s.Mean(),
		Q1:     s.Quantile(0.25),
		Median: s.Quantile(0.5),
		Q3:     s.Quantile(0.75),
	}

	iqr := st.Q3 - st.Q1
	lowFence := st.Q1 - 1.5*iqr
	highFence := st.Q3 + 1.5*iqr

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	st.LowerWhisker = st.Q1
	st.UpperWhisker = st.Q3
	for _, v := range sorted {
		if v >= lowFence {
			st.LowerWhisker = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highFence {
			st.UpperWhisker = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			st.Outliers = append(st.Outliers, v)
		}
	}
	return st
}

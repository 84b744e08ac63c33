package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Describes the shape of a dataset for the loader + chart builders
// ============================================================================
// The loader uses Required columns to validate the header row.
// The builders use measure metadata for human-readable axis and tooltip text.
// ============================================================================

// ErrMissingColumns is returned when a source lacks required columns.
var ErrMissingColumns = errors.New("missing required columns")

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Derived columns computed at load time, never read from the source.
	Derived []string `json:"derived,omitempty"`
}

// DimensionMeta describes a categorical field used for grouping and colour.
type DimensionMeta struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"displayName"`
	Required    bool     `json:"required"`
	Categories  []string `json:"categories,omitempty"` // fixed order, empty = first-seen
	DerivedFrom string   `json:"derivedFrom,omitempty"`
}

// MeasureMeta describes a numeric field.
type MeasureMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	AxisLabel   string `json:"axisLabel,omitempty"`
	Unit        string `json:"unit,omitempty"` // "hours", "scale", "minutes", "bpm", "steps", "mmHg", "years"
	Required    bool   `json:"required"`
	Selectable  bool   `json:"selectable,omitempty"` // offered by the metric selector
	DerivedFrom string `json:"derivedFrom,omitempty"`
}

// Measure looks up measure metadata by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// Dimension looks up dimension metadata by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// RequiredColumns returns the source columns that must be present, in
// declaration order (dimensions first, then measures).
func (c Config) RequiredColumns() []string {
	var cols []string
	for _, d := range c.Dimensions {
		if d.Required {
			cols = append(cols, d.Key)
		}
	}
	for _, m := range c.Measures {
		if m.Required {
			cols = append(cols, m.Key)
		}
	}
	return cols
}

// ValidateHeaders checks a header row against the required columns.
// Header names are compared after trimming surrounding whitespace.
// All missing columns are reported in a single error.
func (c Config) ValidateHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, col := range c.RequiredColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// TOOLTIP TEMPLATES — Placeholder resolution
// ============================================================================
// Templates carry named substitutions: "{x}", "{age_group}", "{y:.1f}".
// A precision suffix formats numbers with a fixed number of decimals.
// Unresolved placeholders are removed.
// ============================================================================

var placeholderRegex = regexp.MustCompile(`\{([a-z_]+)(?::\.(\d)f)?\}`)

// ResolvePlaceholders substitutes values into a tooltip template.
// Values may be float64, int or string.
func ResolvePlaceholders(template string, values map[string]interface{}) string {
	out := placeholderRegex.ReplaceAllStringFunc(template, func(match string) string {
		sub := placeholderRegex.FindStringSubmatch(match)
		val, ok := values[sub[1]]
		if !ok {
			return ""
		}
		return formatValue(val, sub[2])
	})
	return strings.TrimSpace(out)
}

func formatValue(val interface{}, precision string) string {
	switch v := val.(type) {
	case float64:
		if isMissing(v) {
			return "NaN"
		}
		if precision != "" {
			p, _ := strconv.Atoi(precision)
			return strconv.FormatFloat(v, 'f', p, 64)
		}
		return FormatNumber(v)
	case int:
		if precision != "" {
			return formatValue(float64(v), precision)
		}
		return strconv.Itoa(v)
	case string:
		if precision != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return formatValue(f, precision)
			}
		}
		return v
	default:
		return ""
	}
}

// TooltipValues returns the named values a point exposes to a template:
// x (category label when set), y, z (count), plus the point's Fields.
func (p Point) TooltipValues() map[string]interface{} {
	vals := map[string]interface{}{
		"y": p.Y,
		"z": p.Count,
	}
	if p.Category != "" {
		vals["x"] = p.Category
	} else {
		vals["x"] = p.X
	}
	for k, v := range p.Fields {
		vals[k] = v
	}
	return vals
}

// CellValues returns the named values of one heatmap cell.
func (h *HeatGrid) CellValues(row, col int) map[string]interface{} {
	return map[string]interface{}{
		"x": h.Columns[col],
		"y": h.Rows[row],
		"z": h.Counts[row][col],
	}
}

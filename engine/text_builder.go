package engine

import (
	"fmt"
)

// ============================================================================
// TEXT BUILDER — Dataset description
// ============================================================================

// BuildText describes a dataset by its number of observations and variables.
func BuildText(view RecordView, variables int) *TextData {
	n := 0
	if view != nil {
		n = view.Len()
	}

	return &TextData{
		Text:         fmt.Sprintf("With %s observations and %s variables", FormatInt(n), FormatInt(variables)),
		Observations: n,
		Variables:    variables,
	}
}

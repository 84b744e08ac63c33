package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/sleeplens/schema"
)

// ============================================================================
// NORMALIZE — One-time derivation of cleaned and derived fields
// ============================================================================
// Order: BMI collapse → blood pressure split → age grouping → disorder fill.
// Nothing here fails; unparseable input degrades to missing values.
// ============================================================================

var bmiCollapse = map[string]string{
	"Normal":               schema.BMINormalWeight,
	schema.BMINormalWeight: schema.BMINormalWeight,
	schema.BMIOverweight:   schema.BMIOverweight,
	"Obese":                schema.BMIOverweight,
}

// Normalize derives the cleaned fields in place. It returns the raw BMI
// categories that matched no known value; those are kept verbatim.
func Normalize(records []Record) (unknownBMI []string) {
	seen := make(map[string]bool)
	for i := range records {
		r := &records[i]

		bmi, ok := NormalizeBMI(r.BMICategory)
		if !ok && r.BMICategory != "" && !seen[r.BMICategory] {
			seen[r.BMICategory] = true
			unknownBMI = append(unknownBMI, r.BMICategory)
		}
		r.BMICategory = bmi

		r.Systolic, r.Diastolic = SplitBloodPressure(r.BloodPressure)
		r.AgeGroup = AgeGroupOf(r.Age)
	}
	FillSleepDisorder(records)
	return unknownBMI
}

// NormalizeBMI collapses the raw BMI category into two classes.
// Unknown values are returned unchanged with ok=false.
func NormalizeBMI(raw string) (string, bool) {
	if v, ok := bmiCollapse[raw]; ok {
		return v, true
	}
	return raw, false
}

// SplitBloodPressure splits "SYS/DIA". A part that is absent or does not
// parse as a number becomes NaN.
func SplitBloodPressure(bp string) (systolic, diastolic float64) {
	systolic, diastolic = math.NaN(), math.NaN()
	parts := strings.Split(bp, "/")
	if len(parts) > 0 {
		systolic = parseNumber(parts[0])
	}
	if len(parts) > 1 {
		diastolic = parseNumber(parts[1])
	}
	return systolic, diastolic
}

// AgeGroupOf places an age into its half-open five-year bin.
// Ages outside [25,60) and missing ages yield MissingGroup.
func AgeGroupOf(age float64) string {
	if math.IsNaN(age) {
		return MissingGroup
	}
	edges := schema.AgeGroupEdges
	for i := 0; i < len(edges)-1; i++ {
		if age >= float64(edges[i]) && age < float64(edges[i+1]) {
			return schema.AgeGroupLabels[i]
		}
	}
	return MissingGroup
}

// FillSleepDisorder replaces missing Sleep Disorder values with "None",
// unless "None" already occurs in the data. Running it twice is a no-op.
func FillSleepDisorder(records []Record) {
	for _, r := range records {
		if r.SleepDisorder == schema.DisorderNone {
			return
		}
	}
	for i := range records {
		if records[i].SleepDisorder == "" {
			records[i].SleepDisorder = schema.DisorderNone
		}
	}
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

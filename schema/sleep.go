package schema

// ============================================================================
// SLEEP HEALTH — Column catalog for the Sleep, Health and Lifestyle dataset
// ============================================================================

// Source columns.
const (
	ColPersonID         = "Person ID"
	ColGender           = "Gender"
	ColAge              = "Age"
	ColOccupation       = "Occupation"
	ColSleepDuration    = "Sleep Duration"
	ColSleepQuality     = "Quality of Sleep"
	ColPhysicalActivity = "Physical Activity Level"
	ColStressLevel      = "Stress Level"
	ColBMICategory      = "BMI Category"
	ColBloodPressure    = "Blood Pressure"
	ColHeartRate        = "Heart Rate"
	ColDailySteps       = "Daily Steps"
	ColSleepDisorder    = "Sleep Disorder"
)

// Derived columns.
const (
	ColSystolic  = "Systolic"
	ColDiastolic = "Diastolic"
	ColAgeGroup  = "Age Group"
)

// Normalized BMI categories.
const (
	BMINormalWeight = "Normal Weight"
	BMIOverweight   = "Overweight"
)

// Sleep disorder categories.
const (
	DisorderNone       = "None"
	DisorderInsomnia   = "Insomnia"
	DisorderSleepApnea = "Sleep Apnea"
)

// AgeGroupEdges are the half-open bin edges [25,30) … [55,60).
var AgeGroupEdges = []int{25, 30, 35, 40, 45, 50, 55, 60}

// AgeGroupLabels is the ordered Age Group category. Order is significant.
var AgeGroupLabels = []string{"25-29", "30-34", "35-39", "40-44", "45-49", "50-54", "55-59"}

// BMICategories is the ordered normalized BMI category.
var BMICategories = []string{BMINormalWeight, BMIOverweight}

// DisorderCategories is the ordered Sleep Disorder category.
var DisorderCategories = []string{DisorderNone, DisorderInsomnia, DisorderSleepApnea}

// DefaultMetric is the metric selected when the dashboard opens.
const DefaultMetric = ColSleepDuration

// SleepHealth returns the schema of the Sleep, Health and Lifestyle dataset.
func SleepHealth() Config {
	return Config{
		Name: "Sleep, Health and Lifestyle",
		Description: "The dataset was synthetically generated and includes information on sleep patterns as well as factors that may influence " +
			"them, such as physical activity, stress levels, and health metrics.",
		Dimensions: []DimensionMeta{
			{Key: ColGender, DisplayName: "Gender", Required: true},
			{Key: ColOccupation, DisplayName: "Occupation", Required: true},
			{Key: ColBMICategory, DisplayName: "BMI-Category", Required: true, Categories: BMICategories},
			{Key: ColBloodPressure, DisplayName: "Blood Pressure", Required: true},
			{Key: ColSleepDisorder, DisplayName: "Sleep Disorder", Required: true, Categories: DisorderCategories},
			{Key: ColAgeGroup, DisplayName: "Age Group", Categories: AgeGroupLabels, DerivedFrom: ColAge},
		},
		Measures: []MeasureMeta{
			{Key: ColPersonID, DisplayName: "Person ID"},
			{Key: ColAge, DisplayName: "Age", Unit: "years", Required: true},
			{Key: ColSleepDuration, DisplayName: "Sleep Duration", AxisLabel: "Sleep Duration (Hours)", Unit: "hours", Required: true, Selectable: true},
			{Key: ColSleepQuality, DisplayName: "Sleep Quality", AxisLabel: "Sleep Quality (Scale 1-10)", Unit: "scale", Required: true, Selectable: true},
			{Key: ColPhysicalActivity, DisplayName: "Physical Activity Level", AxisLabel: "Physical Activity Level (Minutes/Day)", Unit: "minutes", Required: true},
			{Key: ColStressLevel, DisplayName: "Stress Level", AxisLabel: "Stress Level (Scale 1-10)", Unit: "scale", Required: true},
			{Key: ColHeartRate, DisplayName: "Heart Rate", Unit: "bpm", Required: true},
			{Key: ColDailySteps, DisplayName: "Daily Steps", Unit: "steps", Required: true},
			{Key: ColSystolic, DisplayName: "Systolic", Unit: "mmHg", DerivedFrom: ColBloodPressure},
			{Key: ColDiastolic, DisplayName: "Diastolic", Unit: "mmHg", DerivedFrom: ColBloodPressure},
		},
		Derived: []string{ColSystolic, ColDiastolic, ColAgeGroup},
	}
}

// ============================================================================
// METRIC SELECTOR
// ============================================================================

// MetricOption is one entry of the closed-option metric selector.
type MetricOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// MetricOptions returns the selector options in display order.
func MetricOptions() []MetricOption {
	return []MetricOption{
		{Label: "Sleep Quality", Value: ColSleepQuality},
		{Label: "Sleep Duration", Value: ColSleepDuration},
	}
}

// IsMetric reports whether key is one of the selectable metrics.
func IsMetric(key string) bool {
	for _, o := range MetricOptions() {
		if o.Value == key {
			return true
		}
	}
	return false
}

// MetricName returns the human-readable name of a metric ("Sleep Quality").
// Unknown keys fall back to the key itself.
func MetricName(key string) string {
	if m, ok := SleepHealth().Measure(key); ok && m.Selectable {
		return m.DisplayName
	}
	return key
}

// MetricAxisLabel returns the axis title of a metric ("Sleep Quality (Scale 1-10)").
// Unknown keys fall back to the key itself.
func MetricAxisLabel(key string) string {
	if m, ok := SleepHealth().Measure(key); ok && m.Selectable && m.AxisLabel != "" {
		return m.AxisLabel
	}
	return key
}

// AxisLabel returns the axis title for any measure, falling back to its key.
func AxisLabel(key string) string {
	if m, ok := SleepHealth().Measure(key); ok && m.AxisLabel != "" {
		return m.AxisLabel
	}
	return key
}

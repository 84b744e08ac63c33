package dataset

import (
	"errors"
	"math"

	"github.com/spektr-org/sleeplens/engine"
	"github.com/spektr-org/sleeplens/schema"
)

// ============================================================================
// RECORD / TABLE — The normalized, read-only dataset
// ============================================================================
// A Table is built and normalized once at startup and never mutated after.
// Builders read it through engine.RecordView (zero-copy).
// ============================================================================

// MissingGroup marks a record whose age falls outside every Age Group bin.
const MissingGroup = ""

// ErrEmptyDataset is returned when a source yields no records.
var ErrEmptyDataset = errors.New("dataset has no records")

// Record is one observation. Numeric fields are NaN when missing.
type Record struct {
	PersonID         float64
	Gender           string
	Age              float64
	Occupation       string
	SleepDuration    float64
	SleepQuality     float64
	PhysicalActivity float64
	StressLevel      float64
	BMICategory      string
	BloodPressure    string
	HeartRate        float64
	DailySteps       float64
	SleepDisorder    string

	// Derived by Normalize.
	Systolic  float64
	Diastolic float64
	AgeGroup  string
}

// Table owns the normalized records.
type Table struct {
	Records []Record
	Columns []string // source columns in file order
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// View binds the records to the engine without copying them.
func (t *Table) View() engine.RecordView {
	return recordAdapter.Bind(t.Records)
}

// Summary is the page's descriptive line: observations × source variables.
func (t *Table) Summary() *engine.TextData {
	return engine.BuildText(t.View(), len(t.Columns))
}

// ============================================================================
// ADAPTER — column name → accessor
// ============================================================================

var recordAdapter = engine.NewDomainAdapter[Record]().
	Dimension(schema.ColGender, func(r Record) string { return r.Gender }).
	Dimension(schema.ColOccupation, func(r Record) string { return r.Occupation }).
	Dimension(schema.ColBMICategory, func(r Record) string { return r.BMICategory }).
	Dimension(schema.ColBloodPressure, func(r Record) string { return r.BloodPressure }).
	Dimension(schema.ColSleepDisorder, func(r Record) string { return r.SleepDisorder }).
	Dimension(schema.ColAgeGroup, func(r Record) string { return r.AgeGroup }).
	Dimension(schema.ColStressLevel, func(r Record) string { return engine.FormatNumber(r.StressLevel) }).
	Measure(schema.ColPersonID, func(r Record) float64 { return r.PersonID }).
	Measure(schema.ColAge, func(r Record) float64 { return r.Age }).
	Measure(schema.ColSleepDuration, func(r Record) float64 { return r.SleepDuration }).
	Measure(schema.ColSleepQuality, func(r Record) float64 { return r.SleepQuality }).
	Measure(schema.ColPhysicalActivity, func(r Record) float64 { return r.PhysicalActivity }).
	Measure(schema.ColStressLevel, func(r Record) float64 { return r.StressLevel }).
	Measure(schema.ColHeartRate, func(r Record) float64 { return r.HeartRate }).
	Measure(schema.ColDailySteps, func(r Record) float64 { return r.DailySteps }).
	Measure(schema.ColSystolic, func(r Record) float64 { return r.Systolic }).
	Measure(schema.ColDiastolic, func(r Record) float64 { return r.Diastolic })

// NewRecord returns a record with every numeric field missing.
func NewRecord() Record {
	nan := math.NaN()
	return Record{
		PersonID:         nan,
		Age:              nan,
		SleepDuration:    nan,
		SleepQuality:     nan,
		PhysicalActivity: nan,
		StressLevel:      nan,
		HeartRate:        nan,
		DailySteps:       nan,
		Systolic:         nan,
		Diastolic:        nan,
	}
}

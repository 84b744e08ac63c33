package dataset

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/spektr-org/sleeplens/schema"
)

const sampleCSV = `Person ID,Gender,Age,Occupation,Sleep Duration,Quality of Sleep,Physical Activity Level,Stress Level,BMI Category,Blood Pressure,Heart Rate,Daily Steps,Sleep Disorder
1,Male,27,Software Engineer,6.1,6,42,6,Overweight,126/83,77,4200,
2,Male,28,Doctor,6.2,6,60,8,Normal,125/80,75,10000,
3,Female,59,Nurse,8.1,9,75,3,Obese,140/95,68,7000,Sleep Apnea
4,Female,61,Nurse,8,9,75,3,Normal Weight,bad,68,7000,Insomnia
`

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	if table.Len() != 4 {
		t.Fatalf("Len = %d, want 4", table.Len())
	}
	if len(table.Columns) != 13 {
		t.Errorf("Columns = %d, want 13", len(table.Columns))
	}

	r := table.Records[0]
	if r.SleepDuration != 6.1 || r.PhysicalActivity != 42 || r.StressLevel != 6 {
		t.Errorf("numeric fields = %+v", r)
	}
	if r.Systolic != 126 || r.Diastolic != 83 {
		t.Errorf("BP = %v/%v, want 126/83", r.Systolic, r.Diastolic)
	}
	if r.AgeGroup != "25-29" {
		t.Errorf("AgeGroup = %q", r.AgeGroup)
	}
	if r.SleepDisorder != schema.DisorderNone {
		t.Errorf("empty disorder = %q, want None", r.SleepDisorder)
	}

	if got := table.Records[1].BMICategory; got != schema.BMINormalWeight {
		t.Errorf("Normal collapsed to %q", got)
	}
	if got := table.Records[2].BMICategory; got != schema.BMIOverweight {
		t.Errorf("Obese collapsed to %q", got)
	}

	last := table.Records[3]
	if last.AgeGroup != MissingGroup {
		t.Errorf("age 61 grouped as %q", last.AgeGroup)
	}
	if !math.IsNaN(last.Systolic) || !math.IsNaN(last.Diastolic) {
		t.Errorf("malformed BP = %v/%v, want NaN", last.Systolic, last.Diastolic)
	}
}

func TestParseCSV_PersonIDOptional(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(sampleCSV), "\n")
	for i, l := range lines {
		lines[i] = l[strings.Index(l, ",")+1:]
	}

	table, err := ParseCSV(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if !math.IsNaN(table.Records[0].PersonID) {
		t.Errorf("PersonID = %v, want NaN", table.Records[0].PersonID)
	}
}

func TestParseCSV_MissingColumns(t *testing.T) {
	csv := "Gender,Occupation\nMale,Doctor\n"

	_, err := ParseCSV(strings.NewReader(csv))
	if !errors.Is(err, schema.ErrMissingColumns) {
		t.Fatalf("err = %v, want ErrMissingColumns", err)
	}
	if !strings.Contains(err.Error(), "Age") || !strings.Contains(err.Error(), "Blood Pressure") {
		t.Errorf("error %q should list every missing column", err)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestTableView(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	v := table.View()
	if v.Len() != 4 {
		t.Fatalf("view Len = %d", v.Len())
	}
	if got := v.Dimension(1, schema.ColStressLevel); got != "8" {
		t.Errorf("stress dimension = %q, want 8", got)
	}
	if got := v.Measure(2, schema.ColSystolic); got != 140 {
		t.Errorf("systolic measure = %v", got)
	}
	if got := v.Dimension(0, schema.ColAgeGroup); got != "25-29" {
		t.Errorf("age group = %q", got)
	}

	summary := table.Summary()
	if summary.Observations != 4 || summary.Variables != 13 {
		t.Errorf("summary = %+v", summary)
	}
}

// ============================================================================
// SQL PATH (no database required)
// ============================================================================

func TestLoadRecords_NullsAreMissing(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(sampleCSV), "\n")
	header := strings.Split(lines[0], ",")

	var cells [][]string
	for _, l := range lines[1:] {
		cells = append(cells, strings.Split(l, ","))
	}
	cells[2][len(header)-1] = "NA"
	cells[0][4] = "NA"

	table, err := loadRecords(header, cells, applyLoadOptions(nil))
	if err != nil {
		t.Fatalf("loadRecords: %v", err)
	}
	if !math.IsNaN(table.Records[0].SleepDuration) {
		t.Errorf("NULL sleep duration = %v, want NaN", table.Records[0].SleepDuration)
	}
	if table.Records[2].SleepDisorder != schema.DisorderNone {
		t.Errorf("NULL disorder = %q, want None", table.Records[2].SleepDisorder)
	}
}

func TestLoadRecords_NoRows(t *testing.T) {
	header := schema.SleepHealth().RequiredColumns()
	if _, err := loadRecords(header, nil, applyLoadOptions(nil)); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestLoadSQL_RejectsTableName(t *testing.T) {
	if _, err := LoadSQL(context.Background(), nil, "sleep; DROP TABLE x"); err == nil {
		t.Error("expected invalid table name error")
	}
}

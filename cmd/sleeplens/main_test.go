package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/sleeplens/dashboard"
	"github.com/spektr-org/sleeplens/dataset"
	"github.com/spektr-org/sleeplens/engine"
)

const fixtureCSV = `Person ID,Gender,Age,Occupation,Sleep Duration,Quality of Sleep,Physical Activity Level,Stress Level,BMI Category,Blood Pressure,Heart Rate,Daily Steps,Sleep Disorder
1,Male,27,Software Engineer,6.1,6,42,6,Overweight,126/83,77,4200,
2,Male,28,Doctor,6.2,6,60,8,Normal,125/80,75,10000,
3,Female,36,Teacher,7.1,7,45,5,Normal Weight,120/80,70,6000,Insomnia
4,Female,44,Nurse,7.8,8,75,4,Overweight,130/85,72,8000,Sleep Apnea
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sleep.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "sleeplens "+version) {
		t.Errorf("out = %q", out)
	}
}

func TestExportCSV(t *testing.T) {
	data := writeFixture(t)

	out, err := runCLI(t, "export", "--data", data, "--chart", "bar", "--metric", "Quality of Sleep", "--format", "csv")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v\n%s", err, out)
	}
	// header + one row per distinct stress level
	if len(rows) != 5 {
		t.Errorf("rows = %d, want 5:\n%s", len(rows), out)
	}
}

func TestExportJSONToFile(t *testing.T) {
	data := writeFixture(t)
	dest := filepath.Join(t.TempDir(), "heatmap.json")

	if _, err := runCLI(t, "export", "--data", data, "--chart", "heatmap", "--format", "pretty", "--out", dest); err != nil {
		t.Fatalf("export: %v", err)
	}

	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var spec engine.ChartSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec.Mark != engine.MarkHeatmap {
		t.Errorf("mark = %q", spec.Mark)
	}
}

func TestExportErrors(t *testing.T) {
	data := writeFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown chart", []string{"--chart", "pie"}},
		{"unknown metric", []string{"--metric", "Heart Rate"}},
		{"unknown format", []string{"--format", "xml"}},
		{"png box", []string{"--chart", "box", "--format", "png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"export", "--data", data}, tt.args...)
			if _, err := runCLI(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExportMissingDataFile(t *testing.T) {
	_, err := runCLI(t, "export", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing data file")
	}
}

func TestPickChart(t *testing.T) {
	table, err := dataset.ParseCSV(strings.NewReader(fixtureCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	ctrl := dashboard.NewController(table)

	for chart, mark := range map[string]engine.Mark{
		"strip":   engine.MarkPoint,
		"bar":     engine.MarkBar,
		"box":     engine.MarkBox,
		"heatmap": engine.MarkHeatmap,
	} {
		spec, err := pickChart(ctrl, chart, dashboard.DefaultMetric)
		if err != nil {
			t.Fatalf("%s: %v", chart, err)
		}
		if spec.Mark != mark {
			t.Errorf("%s: mark = %q, want %q", chart, spec.Mark, mark)
		}
	}

	if _, err := pickChart(ctrl, "bar", "Age"); !errors.Is(err, dashboard.ErrUnknownMetric) {
		t.Errorf("err = %v, want ErrUnknownMetric", err)
	}
}

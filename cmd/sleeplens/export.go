package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/sleeplens/dashboard"
	"github.com/spektr-org/sleeplens/engine"
	"github.com/spektr-org/sleeplens/render"
)

// ============================================================================
// EXPORT — One chart as JSON, CSV or PNG
// ============================================================================

type exportFlags struct {
	chart  string
	metric string
	format string
	out    string
	width  int
	height int
}

func newExportCmd(a *app) *cobra.Command {
	f := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one chart as JSON, CSV or PNG",
		Long: `Export computes a single chart over the dataset and writes it out.

Charts:
  strip     Metric against Physical Activity Level, one series per Age Group
  bar       Average metric per Stress Level
  box       Metric distribution per Age Group
  heatmap   BMI Category by Sleep Disorder frequencies (ignores --metric)

Formats:
  json      Renderer-agnostic chart spec (default)
  pretty    Pretty-printed JSON
  csv       Chart data as CSV (ready for Sheets/Excel)
  png       Static image (strip and bar only)

Examples:
  sleeplens export --chart bar --metric "Quality of Sleep" --format csv --out bar.csv
  sleeplens export --chart strip --format png --out strip.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runExport(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.chart, "chart", "bar", "chart to export: strip, bar, box, heatmap")
	fl.StringVar(&f.metric, "metric", dashboard.DefaultMetric, "metric column for strip, bar and box")
	fl.StringVar(&f.format, "format", "json", "output format: json, pretty, csv, png")
	fl.StringVar(&f.out, "out", "", "write output to file instead of stdout")
	fl.IntVar(&f.width, "width", 900, "png width")
	fl.IntVar(&f.height, "height", 600, "png height")
	return cmd
}

func (a *app) runExport(cmd *cobra.Command, f *exportFlags) error {
	table, err := a.loadTable(cmd.Context())
	if err != nil {
		return err
	}
	spec, err := pickChart(dashboard.NewController(table), f.chart, f.metric)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	switch f.format {
	case "csv":
		err = writeCSV(w, engine.BuildTable(spec))
	case "png":
		err = render.PNG(w, spec, f.width, f.height)
	case "json", "pretty":
		err = writeJSON(w, spec, f.format)
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}
	if err != nil {
		return err
	}

	if f.out != "" {
		a.logger.Info().Str("chart", f.chart).Str("format", f.format).Str("file", f.out).Msg("📄 chart written")
	}
	return nil
}

func pickChart(ctrl *dashboard.Controller, chart, metric string) (*engine.ChartSpec, error) {
	if chart == "heatmap" {
		return ctrl.Heatmap(), nil
	}

	set, err := ctrl.ComputeUpdatedSpecs(metric)
	if err != nil {
		return nil, err
	}
	switch chart {
	case "strip":
		return set.Strip, nil
	case "bar":
		return set.Bar, nil
	case "box":
		return set.Box, nil
	}
	return nil, fmt.Errorf("unknown chart %q", chart)
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

func writeCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)

	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range table.Rows {
		cw.Write(row)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}

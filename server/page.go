package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/spektr-org/sleeplens/schema"
)

//go:embed templates/*.html static/*
var assets embed.FS

// pageData feeds templates/index.html.
type pageData struct {
	Title       string
	Description string
	Summary     string
	Metrics     []schema.MetricOption
	Default     string
	Initial     template.JS
}

func parsePage() (*template.Template, error) {
	t, err := template.ParseFS(assets, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return t, nil
}

func (s *Server) pageData() (*pageData, error) {
	payload, err := s.decodedOptions(schema.DefaultMetric)
	if err != nil {
		return nil, err
	}

	sch := schema.SleepHealth()
	summary := s.ctrl.Table().Summary()

	initial, err := json.Marshal(json.RawMessage(payload))
	if err != nil {
		return nil, fmt.Errorf("encode initial options: %w", err)
	}

	return &pageData{
		Title:       sch.Name,
		Description: sch.Description,
		Summary: summary.Text + ", it provides a solid foundation for analyzing sleep quality and duration, " +
			"along with the factors that may impact them.",
		Metrics: schema.MetricOptions(),
		Default: schema.DefaultMetric,
		Initial: template.JS(initial),
	}, nil
}

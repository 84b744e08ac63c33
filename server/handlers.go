package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/spektr-org/sleeplens/dashboard"
	"github.com/spektr-org/sleeplens/engine"
	"github.com/spektr-org/sleeplens/render"
	"github.com/spektr-org/sleeplens/schema"
)

const (
	contentSnappy   = "application/x-snappy"
	defaultPNGW     = 900
	defaultPNGH     = 600
	maxPNGSide      = 4000
	errBadMetric    = "unknown metric"
	errRenderCharts = "failed to render charts"
)

// ============================================================================
// PAGE
// ============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := s.pageData()
	if err != nil {
		s.logger.Error().Err(err).Msg("build page data failed")
		s.writeError(w, http.StatusInternalServerError, errRenderCharts)
		return
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error().Err(err).Msg("render index failed")
		s.writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"records": s.ctrl.Table().Len(),
	})
}

// ============================================================================
// API
// ============================================================================

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"options": schema.MetricOptions(),
		"default": dashboard.DefaultMetric,
	})
}

func (s *Server) handleSpecs(w http.ResponseWriter, r *http.Request) {
	set, err := s.ctrl.ComputeUpdatedSpecs(metricParam(r))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric":  set.Metric,
		"strip":   set.Strip,
		"bar":     set.Bar,
		"box":     set.Box,
		"heatmap": s.ctrl.Heatmap(),
	})
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.ctrl.Heatmap())
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	metric := metricParam(r)
	compressed, err := s.optionsFor(metric)
	if errors.Is(err, dashboard.ErrUnknownMetric) {
		s.writeError(w, http.StatusBadRequest, errBadMetric)
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("metric", metric).Msg("render options failed")
		s.writeError(w, http.StatusInternalServerError, errRenderCharts)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), contentSnappy) {
		w.Header().Set("Content-Type", contentSnappy)
		w.Write(compressed)
		return
	}

	raw, err := s.decodedOptions(metric)
	if err != nil {
		s.logger.Error().Err(err).Msg("decompress options failed")
		s.writeError(w, http.StatusInternalServerError, errRenderCharts)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	chart := mux.Vars(r)["chart"]

	var spec *engine.ChartSpec
	if chart == "heatmap" {
		spec = s.ctrl.Heatmap()
	} else {
		set, err := s.ctrl.ComputeUpdatedSpecs(metricParam(r))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		switch chart {
		case "strip":
			spec = set.Strip
		case "bar":
			spec = set.Bar
		case "box":
			spec = set.Box
		default:
			s.writeError(w, http.StatusBadRequest, "unknown chart "+strconv.Quote(chart))
			return
		}
	}

	width := sizeParam(r, "width", defaultPNGW)
	height := sizeParam(r, "height", defaultPNGH)

	var buf bytes.Buffer
	if err := render.PNG(&buf, spec, width, height); err != nil {
		if errors.Is(err, render.ErrUnsupported) {
			s.writeError(w, http.StatusNotImplemented, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("chart", chart).Msg("render png failed")
		s.writeError(w, http.StatusInternalServerError, "failed to render png")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// ============================================================================
// HELPERS
// ============================================================================

func metricParam(r *http.Request) string {
	if m := r.URL.Query().Get("metric"); m != "" {
		return m
	}
	return dashboard.DefaultMetric
}

func sizeParam(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 || n > maxPNGSide {
		return def
	}
	return n
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

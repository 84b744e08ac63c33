package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/golang/snappy"

	"github.com/spektr-org/sleeplens/dashboard"
	"github.com/spektr-org/sleeplens/render"
)

// ============================================================================
// OPTIONS CACHE — snappy-compressed ECharts payloads per metric
// ============================================================================
// The dataset never changes after startup, so a metric's rendered options
// are computed once and kept compressed.
// ============================================================================

// ChartOptions is the payload for one metric: all four chart slots.
type ChartOptions struct {
	Metric  string         `json:"metric"`
	Strip   render.Options `json:"strip"`
	Bar     render.Options `json:"bar"`
	Box     render.Options `json:"box"`
	Heatmap render.Options `json:"heatmap"`
}

type optionsCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newOptionsCache() *optionsCache {
	return &optionsCache{entries: make(map[string][]byte)}
}

func (c *optionsCache) get(metric string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[metric]
	return b, ok
}

func (c *optionsCache) put(metric string, raw []byte) []byte {
	compressed := snappy.Encode(nil, raw)
	c.mu.Lock()
	c.entries[metric] = compressed
	c.mu.Unlock()
	return compressed
}

// compressedOptions returns the compressed payload for a computed spec set.
func (s *Server) compressedOptions(set dashboard.SpecSet) ([]byte, error) {
	if b, ok := s.cache.get(set.Metric); ok {
		return b, nil
	}

	payload := ChartOptions{Metric: set.Metric}
	var err error
	if payload.Strip, err = render.ECharts(set.Strip); err != nil {
		return nil, err
	}
	if payload.Bar, err = render.ECharts(set.Bar); err != nil {
		return nil, err
	}
	if payload.Box, err = render.ECharts(set.Box); err != nil {
		return nil, err
	}
	if payload.Heatmap, err = render.ECharts(s.ctrl.Heatmap()); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	s.logger.Debug().Str("metric", set.Metric).Int("bytes", len(raw)).Msg("📦 options cached")
	return s.cache.put(set.Metric, raw), nil
}

// optionsFor returns the compressed payload for metric, computing the
// spec set only on a cache miss.
func (s *Server) optionsFor(metric string) ([]byte, error) {
	if b, ok := s.cache.get(metric); ok {
		return b, nil
	}
	set, err := s.ctrl.ComputeUpdatedSpecs(metric)
	if err != nil {
		return nil, err
	}
	return s.compressedOptions(set)
}

// decodedOptions returns the plain JSON payload for metric.
func (s *Server) decodedOptions(metric string) ([]byte, error) {
	b, err := s.optionsFor(metric)
	if err != nil {
		return nil, err
	}
	raw, err := snappy.Decode(nil, b)
	if err != nil {
		return nil, fmt.Errorf("decompress options: %w", err)
	}
	return raw, nil
}

package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spektr-org/sleeplens/dataset"
	"github.com/spektr-org/sleeplens/engine"
	"github.com/spektr-org/sleeplens/schema"
)

// ============================================================================
// CONTROLLER — One selector in, three chart specs out
// ============================================================================
// The heatmap is built once. Every metric selection rebuilds strip, bar and
// box together; callers always receive the three as one SpecSet.
// ============================================================================

// ErrUnknownMetric is returned for a metric outside the selector options.
var ErrUnknownMetric = errors.New("unknown metric")

// DefaultMetric is selected when a session starts.
const DefaultMetric = schema.DefaultMetric

// SpecSet holds the three metric-dependent charts of one selection.
type SpecSet struct {
	Metric string            `json:"metric"`
	Strip  *engine.ChartSpec `json:"strip"`
	Bar    *engine.ChartSpec `json:"bar"`
	Box    *engine.ChartSpec `json:"box"`
}

// Controller computes chart specs over a read-only table.
type Controller struct {
	table   *dataset.Table
	view    engine.RecordView
	opts    []engine.Option
	heatmap *engine.ChartSpec
}

// NewController binds a controller to a loaded table.
func NewController(table *dataset.Table, opts ...engine.Option) *Controller {
	view := table.View()
	return &Controller{
		table:   table,
		view:    view,
		opts:    opts,
		heatmap: BuildHeatmap(view, opts...),
	}
}

// Table returns the underlying dataset.
func (c *Controller) Table() *dataset.Table { return c.table }

// Heatmap returns the static heatmap spec.
func (c *Controller) Heatmap() *engine.ChartSpec { return c.heatmap }

// ComputeUpdatedSpecs rebuilds the three metric-dependent charts.
func (c *Controller) ComputeUpdatedSpecs(metric string) (SpecSet, error) {
	if !schema.IsMetric(metric) {
		return SpecSet{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	return SpecSet{
		Metric: metric,
		Strip:  BuildStrip(c.view, metric, c.opts...),
		Bar:    BuildBar(c.view, metric, c.opts...),
		Box:    BuildBox(c.view, metric, c.opts...),
	}, nil
}

// ============================================================================
// SESSION — Idle / Updating state machine
// ============================================================================

// State of a session.
type State int

const (
	StateIdle State = iota
	StateUpdating
)

func (s State) String() string {
	if s == StateUpdating {
		return "updating"
	}
	return "idle"
}

// Session holds the current selection of one dashboard viewer.
type Session struct {
	ctrl *Controller

	mu       sync.RWMutex
	inflight int
	current  SpecSet
}

// NewSession starts a session on DefaultMetric.
func NewSession(ctrl *Controller) (*Session, error) {
	set, err := ctrl.ComputeUpdatedSpecs(DefaultMetric)
	if err != nil {
		return nil, err
	}
	return &Session{ctrl: ctrl, current: set}, nil
}

// Select computes the specs for metric and swaps them in as one set.
// On error the previous set stays current. The session reports
// StateUpdating until every overlapping Select has returned.
func (s *Session) Select(metric string) (SpecSet, error) {
	s.begin()
	defer s.end()

	set, err := s.ctrl.ComputeUpdatedSpecs(metric)
	if err != nil {
		return SpecSet{}, err
	}

	s.mu.Lock()
	s.current = set
	s.mu.Unlock()
	return set, nil
}

// Current returns the last complete spec set.
func (s *Session) Current() SpecSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// State reports whether a selection is being computed.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.inflight > 0 {
		return StateUpdating
	}
	return StateIdle
}

func (s *Session) begin() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
}

func (s *Session) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

package engine

// ============================================================================
// BUILDER OPTIONS — Functional options for the chart builders
// ============================================================================

// Option configures builder behavior via functional options pattern.
type Option func(*Settings)

// Settings is the resolved builder configuration.
type Settings struct {
	Palette    []string // sequential ramp mapped 1:1 to ordered categories
	MarkerSize int
	Jitter     float64
	Theme      Theme
}

// WithPalette overrides the category colour ramp.
func WithPalette(colors ...string) Option {
	return func(s *Settings) {
		s.Palette = colors
	}
}

// WithMarkerSize sets the point glyph size in pixels.
func WithMarkerSize(size int) Option {
	return func(s *Settings) {
		s.MarkerSize = size
	}
}

// WithJitter sets the horizontal jitter as a fraction of one band.
func WithJitter(jitter float64) Option {
	return func(s *Settings) {
		s.Jitter = jitter
	}
}

// WithTheme replaces the visual theme.
func WithTheme(t Theme) Option {
	return func(s *Settings) {
		s.Theme = t
	}
}

// ApplyOptions resolves options over the defaults.
func ApplyOptions(opts []Option) *Settings {
	s := &Settings{
		Palette:    SequentialBlues,
		MarkerSize: 20,
		Jitter:     0.9,
		Theme:      DefaultTheme(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

package certstudio

import (
	"log/slog"

	"github.com/Enonich/CertStudio/layout"
)

// Option is a functional option for configuring an Overlay via New.
type Option func(*overlayConfig)

type overlayConfig struct {
	dx, dy      float64
	placeholder bool
	debugGuides bool
	gridStep    float64
	pageSize    string
	logger      *slog.Logger
	measurer    layout.Measurer
}

// WithOffset shifts every field by (dx, dy) points. Positive dx moves right,
// positive dy moves up (bottom-left origin).
func WithOffset(dx, dy float64) Option {
	return func(c *overlayConfig) {
		c.dx = dx
		c.dy = dy
	}
}

// WithPlaceholderMode renders each field's literal name in braces instead of
// row data, for positioning dry-runs.
func WithPlaceholderMode(on bool) Option {
	return func(c *overlayConfig) {
		c.placeholder = on
	}
}

// WithDebugGuides draws a coordinate grid and field crosshairs on the output.
func WithDebugGuides(on bool) Option {
	return func(c *overlayConfig) {
		c.debugGuides = on
	}
}

// WithGridStep sets the spacing in points of the debug grid (default 50).
func WithGridStep(step float64) Option {
	return func(c *overlayConfig) {
		c.gridStep = step
	}
}

// WithPageSize sets the page size used when rendering without a template.
// Use PageSizeLetter, PageSizeA4, or PageSizeLegal.
func WithPageSize(size string) Option {
	return func(c *overlayConfig) {
		c.pageSize = size
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *overlayConfig) {
		c.logger = logger
	}
}

// WithMeasurer overrides the text measurer used for layout and fitting.
// By default widths come from the PDF backend's font metrics.
func WithMeasurer(m layout.Measurer) Option {
	return func(c *overlayConfig) {
		c.measurer = m
	}
}

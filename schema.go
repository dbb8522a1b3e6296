// Package certstudio fills fixed-position fields on a PDF page with text
// derived from row data. Fields support inline markup (bold, italic, color,
// font face), automatic word-wrap, shrink-to-fit sizing, and alignment, and
// can be placed automatically by anchoring to text already present on the
// template page.
//
// Field positions use page points with a bottom-left origin, matching PDF
// native coordinates. A configuration is a JSON document:
//
//	{
//	  "page": 0,
//	  "default_font": "Helvetica",
//	  "default_size": 14,
//	  "fields": {
//	    "name": {"x": 200, "y": 380, "size": 28, "align": "center"},
//	    "body": {"x": 80, "y": 300, "wrap_text": true, "wrap_width": 400,
//	             "box_height": 120}
//	  }
//	}
package certstudio

import (
	"encoding/json"
	"fmt"
	"os"
)

// Named page sizes for overlay-only rendering.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Alignment modes for field text.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Config describes every overlay field for one template page.
type Config struct {
	Page        int              `json:"page,omitempty"`         // 0-based template page index
	DefaultFont string           `json:"default_font,omitempty"` // fallback font family
	DefaultSize float64          `json:"default_size,omitempty"` // fallback font size in points
	Fields      map[string]Field `json:"fields"`
}

// Field positions one piece of content on the page. X and Y locate the text
// baseline in bottom-left page points. Optional values distinguish "absent"
// from zero via pointers.
type Field struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Literal content. When set it takes precedence over row data lookup
	// by field name.
	Text *string `json:"text,omitempty"`

	Font  string    `json:"font,omitempty"`
	Size  *float64  `json:"size,omitempty"`
	Color []float64 `json:"color,omitempty"` // [r, g, b] channels in [0, 1]
	Align string    `json:"align,omitempty"` // left, center, right

	// MaxWidth proportionally shrinks single-line text that measures wider.
	MaxWidth *float64 `json:"max_width,omitempty"`

	// Wrapping and box fitting.
	WrapText   bool     `json:"wrap_text,omitempty"`
	WrapWidth  *float64 `json:"wrap_width,omitempty"`
	BoxWidth   *float64 `json:"box_width,omitempty"`
	BoxHeight  *float64 `json:"box_height,omitempty"`
	WrapStartY *float64 `json:"wrap_start_y,omitempty"` // top edge of the wrap block

	// TemplateText anchors the field to existing text on the template page.
	TemplateText string `json:"template_text,omitempty"`

	// Barcode renders the field value as a barcode instead of text.
	Barcode *BarcodeSpec `json:"barcode,omitempty"`
}

// BarcodeSpec configures barcode rendering for a field.
type BarcodeSpec struct {
	Type   string  `json:"type"` // "qr" or "pdf417"
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LoadConfig reads and parses a field configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("certstudio: reading config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a field configuration from JSON bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("certstudio: parsing config: %w", err)
	}
	if cfg.DefaultFont == "" {
		cfg.DefaultFont = "Helvetica"
	}
	if cfg.DefaultSize <= 0 {
		cfg.DefaultSize = 14
	}
	return &cfg, nil
}

// baseFont returns the field's font, falling back to the config default.
func (c *Config) baseFont(f Field) string {
	if f.Font != "" {
		return f.Font
	}
	return c.DefaultFont
}

// baseSize returns the field's size, falling back to the config default.
func (c *Config) baseSize(f Field) float64 {
	if f.Size != nil && *f.Size > 0 {
		return *f.Size
	}
	return c.DefaultSize
}

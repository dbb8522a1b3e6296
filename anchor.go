package certstudio

import (
	"log/slog"
	"strings"

	"github.com/Enonich/CertStudio/reader"
)

// Anchor is a resolved position taken from text already present on the
// template page, in bottom-left page coordinates. X0/Y0/X1/Y1 bound the
// span; OriginX/OriginY carry the span's baseline origin.
type Anchor struct {
	X0, Y0, X1, Y1   float64
	OriginX, OriginY float64
}

// BottomLeftRect converts a top-left-origin bounding box (x0, y0, x1, y1) to
// bottom-left page coordinates. The vertical extrema swap so that y0 stays
// the lower edge.
func BottomLeftRect(x0, y0, x1, y1, pageHeight float64) (float64, float64, float64, float64) {
	return x0, pageHeight - y1, x1, pageHeight - y0
}

// BottomLeftPoint converts a top-left-origin point to bottom-left page
// coordinates.
func BottomLeftPoint(x, y, pageHeight float64) (float64, float64) {
	return x, pageHeight - y
}

// NormalizeAnchorText canonicalizes span text for anchor lookup: lower-cased
// with internal whitespace collapsed to single spaces and trimmed.
func NormalizeAnchorText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// BuildAnchorMap indexes template text spans by normalized text. The first
// span to claim a key wins; later duplicates are ignored.
func BuildAnchorMap(spans []reader.TextSpan, pageHeight float64) map[string]Anchor {
	anchors := make(map[string]Anchor, len(spans))
	for _, span := range spans {
		key := NormalizeAnchorText(span.Text)
		if key == "" {
			continue
		}
		if _, taken := anchors[key]; taken {
			continue
		}
		x0, y0, x1, y1 := BottomLeftRect(span.X, span.Y, span.X+span.Width, span.Y+span.Height, pageHeight)
		// The span baseline sits one ascent below its top edge.
		ox, oy := BottomLeftPoint(span.X, span.Y+reader.SpanAscent*span.Size, pageHeight)
		anchors[key] = Anchor{X0: x0, Y0: y0, X1: x1, Y1: y1, OriginX: ox, OriginY: oy}
	}
	return anchors
}

// ApplyAnchors returns a copy of cfg with each field that declares
// template_text repositioned at its anchor. X derives from the field's
// alignment against the anchor box; Y comes from the span origin. A lookup
// miss leaves the field's coordinates untouched and logs a warning.
func ApplyAnchors(cfg *Config, anchors map[string]Anchor, log *slog.Logger) *Config {
	if log == nil {
		log = slog.Default()
	}
	out := *cfg
	out.Fields = make(map[string]Field, len(cfg.Fields))
	for name, field := range cfg.Fields {
		if field.TemplateText == "" {
			out.Fields[name] = field
			continue
		}
		anchor, ok := anchors[NormalizeAnchorText(field.TemplateText)]
		if !ok {
			log.Warn("template anchor not found, keeping configured position",
				"field", name, "template_text", field.TemplateText)
			out.Fields[name] = field
			continue
		}
		switch field.Align {
		case AlignCenter:
			field.X = (anchor.X0 + anchor.X1) / 2
		case AlignRight:
			field.X = anchor.X1
		default:
			field.X = anchor.OriginX
		}
		field.Y = anchor.OriginY
		out.Fields[name] = field
	}
	return &out
}

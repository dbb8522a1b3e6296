package markup

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

// parseStyleAttr extracts the recognized declarations from a span's inline
// style attribute: color, font-family, font-weight (bold or 700), and
// font-style italic. Unrecognized or malformed declarations are skipped.
func parseStyleAttr(style string) delta {
	var d delta
	if style == "" {
		return d
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return d
	}
	for _, decl := range decls {
		value := strings.TrimSpace(decl.Value)
		switch strings.ToLower(decl.Property) {
		case "color":
			v := value
			d.color = &v
		case "font-family":
			v := value
			d.family = &v
		case "font-weight":
			if strings.EqualFold(value, "bold") || value == "700" {
				d.bold = true
			}
		case "font-style":
			if strings.EqualFold(value, "italic") {
				d.italic = true
			}
		}
	}
	return d
}

// PrimaryFamily extracts the first family name from a CSS font-family value,
// stripping surrounding quotes. It returns "" when no usable name exists.
func PrimaryFamily(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	primary := value
	if idx := strings.Index(value, ","); idx >= 0 {
		primary = value[:idx]
	}
	primary = strings.TrimSpace(primary)
	primary = strings.Trim(primary, `'"`)
	return primary
}

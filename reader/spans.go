package reader

import (
	"math"
	"strings"
	"unicode/utf16"
)

// TextSpan is one run of shown text from a page content stream. Coordinates
// use a top-left origin: X and Y locate the upper-left corner of the span's
// approximate bounding box, in points.
type TextSpan struct {
	Text   string
	Font   string
	Size   float64
	X, Y   float64
	Width  float64
	Height float64
}

// WidthFunc measures the advance width of text drawn in the named font at
// the given size. When nil, spans fall back to a half-em-per-rune estimate.
type WidthFunc func(text, font string, size float64) float64

// Glyph bounding approximation relative to the baseline, as fractions of the
// font size.
const (
	SpanAscent  = 0.8
	SpanDescent = 0.2
)

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul composes matrices: the result applies a first, then b.
func mul(a, b matrix) matrix {
	return matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

func translation(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// graphicsState holds the pieces of PDF graphics state the span scanner
// tracks across q/Q nesting.
type graphicsState struct {
	ctm     matrix
	font    string
	size    float64
	leading float64
}

// TextSpans extracts the text spans shown on this page, walking the content
// stream's text operators (BT/ET, Tf, Td, TD, Tm, T*, TL, Tj, TJ, ', ") and
// the q/Q/cm graphics stack. widths may be nil.
func (p *Page) TextSpans(widths WidthFunc) ([]TextSpan, error) {
	data, err := p.ContentStream()
	if err != nil {
		return nil, err
	}

	fontMap := p.fontBaseNames()
	pageH := p.MediaBox.Height()

	gs := graphicsState{ctm: identity}
	var stack []graphicsState
	tm, lm := identity, identity
	var spans []TextSpan

	show := func(text string) {
		if text == "" {
			return
		}
		m := mul(tm, gs.ctm)
		size := gs.size * math.Hypot(m[2], m[3])
		w := 0.0
		if widths != nil {
			w = widths(text, gs.font, size)
		}
		if w == 0 {
			w = float64(len([]rune(text))) * size * 0.5
		}
		baselineX, baselineY := m[4], m[5]
		spans = append(spans, TextSpan{
			Text:   text,
			Font:   gs.font,
			Size:   size,
			X:      baselineX,
			Y:      pageH - (baselineY + SpanAscent*size),
			Width:  w,
			Height: (SpanAscent + SpanDescent) * size,
		})
		// Advance the text matrix past the shown text.
		adv := w
		if scale := math.Hypot(m[0], m[1]); scale > 0 {
			adv = w / scale
		}
		tm = mul(translation(adv, 0), tm)
	}

	nextLine := func(tx, ty float64) {
		lm = mul(translation(tx, ty), lm)
		tm = lm
	}

	sc := newParser(data)
	var operands []Object
	num := func(i int) float64 {
		if i < 0 || i >= len(operands) {
			return 0
		}
		switch v := operands[i].(type) {
		case Integer:
			return float64(v)
		case Real:
			return float64(v)
		}
		return 0
	}
	str := func(i int) string {
		if i < 0 || i >= len(operands) {
			return ""
		}
		if s, ok := operands[i].(String); ok {
			return decodePDFString(s.Value)
		}
		return ""
	}

	for {
		sc.skipWhitespace()
		b, ok := sc.peek()
		if !ok {
			break
		}

		if b == '(' || b == '<' || b == '/' || b == '[' ||
			(b >= '0' && b <= '9') || b == '+' || b == '-' || b == '.' {
			obj, err := sc.ParseObject()
			if err != nil {
				// Malformed operand: resync at the next byte.
				sc.pos++
				operands = operands[:0]
				continue
			}
			operands = append(operands, obj)
			continue
		}

		op := sc.readToken()
		if op == "" {
			sc.pos++
			continue
		}

		switch op {
		case "q":
			stack = append(stack, gs)
		case "Q":
			if n := len(stack); n > 0 {
				gs = stack[n-1]
				stack = stack[:n-1]
			}
		case "cm":
			if len(operands) >= 6 {
				m := matrix{num(0), num(1), num(2), num(3), num(4), num(5)}
				gs.ctm = mul(m, gs.ctm)
			}
		case "BT":
			tm, lm = identity, identity
		case "Tf":
			if len(operands) >= 2 {
				if name, ok := operands[0].(Name); ok {
					gs.font = fontMap[name]
					if gs.font == "" {
						gs.font = string(name)
					}
				}
				gs.size = num(1)
			}
		case "TL":
			gs.leading = num(0)
		case "Td":
			nextLine(num(0), num(1))
		case "TD":
			gs.leading = -num(1)
			nextLine(num(0), num(1))
		case "T*":
			nextLine(0, -gs.leading)
		case "Tm":
			if len(operands) >= 6 {
				tm = matrix{num(0), num(1), num(2), num(3), num(4), num(5)}
				lm = tm
			}
		case "Tj":
			show(str(len(operands) - 1))
		case "'":
			nextLine(0, -gs.leading)
			show(str(len(operands) - 1))
		case "\"":
			// Word and character spacing operands are ignored.
			nextLine(0, -gs.leading)
			show(str(len(operands) - 1))
		case "BI":
			// Inline image: skip binary data up to the EI marker.
			for sc.pos+2 <= len(sc.data) {
				if sc.data[sc.pos] == 'E' && sc.data[sc.pos+1] == 'I' &&
					(sc.pos+2 == len(sc.data) || isWhitespace(sc.data[sc.pos+2])) {
					sc.pos += 2
					break
				}
				sc.pos++
			}
		case "TJ":
			if len(operands) >= 1 {
				if arr, ok := operands[len(operands)-1].(Array); ok {
					var sb strings.Builder
					for _, item := range arr {
						if s, ok := item.(String); ok {
							sb.WriteString(decodePDFString(s.Value))
						}
					}
					show(sb.String())
				}
			}
		}
		operands = operands[:0]
	}

	return spans, nil
}

// FontNames returns the distinct base font names referenced by this page's
// /Font resources, subset prefixes stripped, in first-seen order.
func (p *Page) FontNames() []string {
	byKey := p.fontBaseNames()
	seen := make(map[string]bool)
	var names []string
	for _, name := range byKey {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// fontBaseNames maps /Font resource keys to their base font names.
func (p *Page) fontBaseNames() map[Name]string {
	out := make(map[Name]string)
	if p.Resources == nil || p.doc == nil {
		return out
	}
	fontsObj, ok := p.Resources["Font"]
	if !ok {
		return out
	}
	resolved, err := p.doc.resolveIfRef(fontsObj)
	if err != nil {
		return out
	}
	fontDict, ok := resolved.(Dict)
	if !ok {
		return out
	}
	for key, v := range fontDict {
		entry, err := p.doc.resolveIfRef(v)
		if err != nil {
			continue
		}
		d, ok := entry.(Dict)
		if !ok {
			continue
		}
		out[key] = stripSubsetPrefix(string(d.GetName("BaseFont")))
	}
	return out
}

// stripSubsetPrefix removes the six-letter subset tag from names like
// "ABCDEF+Helvetica".
func stripSubsetPrefix(name string) string {
	if len(name) > 7 && name[6] == '+' {
		tag := name[:6]
		for i := 0; i < 6; i++ {
			if tag[i] < 'A' || tag[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}

// decodePDFString attempts to decode a PDF string to a Go string.
// Handles UTF-16BE BOM and falls back to Latin-1.
func decodePDFString(data []byte) string {
	// Check for UTF-16BE BOM
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16BE(data[2:])
	}
	// Assume PDFDocEncoding (similar to Latin-1 for printable chars)
	var buf strings.Builder
	for _, b := range data {
		buf.WriteRune(rune(b))
	}
	return buf.String()
}

// decodeUTF16BE decodes UTF-16BE encoded bytes to a Go string.
func decodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = append(data, 0) // pad
	}
	u16s := make([]uint16, len(data)/2)
	for i := range u16s {
		u16s[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return string(utf16.Decode(u16s))
}

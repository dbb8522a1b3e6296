package certstudio

import (
	"log/slog"

	"github.com/Enonich/CertStudio/fonts"
	"github.com/Enonich/CertStudio/layout"
)

// DrawCommand places one run of text at a baseline position, in bottom-left
// page coordinates. The command list for a field fully determines its visual
// output.
type DrawCommand struct {
	X, Y  float64
	Font  fonts.ID
	Size  float64
	Color layout.RGB
	Text  string
}

// Rect is an axis-aligned box in bottom-left page coordinates.
type Rect struct {
	X, Y, W, H float64
}

// FieldOutput is the rendered form of one field: ordered draw commands, an
// optional clip box applied around them, the final font size, and whether
// box fitting succeeded. Fits is true whenever fitting was not attempted.
type FieldOutput struct {
	Commands []DrawCommand
	Clip     *Rect
	Size     float64
	Fits     bool
}

// Renderer lays out field content and emits draw commands. The zero value is
// not usable: Fonts, Measurer, and Config must be set.
type Renderer struct {
	Fonts    *fonts.Registry
	Measurer layout.Measurer
	Config   *Config
	Logger   *slog.Logger

	// OffsetX and OffsetY shift every field, in points.
	OffsetX, OffsetY float64

	// Placeholder renders "{name}" instead of row content.
	Placeholder bool
}

func (r *Renderer) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// content resolves the text and markup for a field. Literal field text takes
// precedence over row data; placeholder mode short-circuits both.
func (r *Renderer) content(name string, field Field, row Row) (text, html string, err error) {
	if r.Placeholder {
		return "{" + name + "}", "", nil
	}
	if field.Text != nil {
		return *field.Text, "", nil
	}
	v, ok := row[name]
	if !ok {
		return "", "", newFieldError(name, ErrNoContent)
	}
	return v.Text, v.HTML, nil
}

// RenderField resolves one field's content, fits its size, lays out lines,
// and emits draw commands. An empty value renders nothing and returns a nil
// output. The input field is never mutated.
func (r *Renderer) RenderField(name string, field Field, row Row) (*FieldOutput, error) {
	text, html, err := r.content(name, field, row)
	if err != nil {
		return nil, err
	}
	if text == "" && html == "" {
		return nil, nil
	}

	rawX := field.X + r.OffsetX
	rawY := field.Y + r.OffsetY

	baseFont := r.Config.baseFont(field)
	size := r.Config.baseSize(field)
	color := layout.RGB{}
	if len(field.Color) >= 3 {
		color = layout.RGB{R: field.Color[0], G: field.Color[1], B: field.Color[2]}
	}

	resolved := r.Fonts.Resolve(baseFont, r.Config.DefaultFont)

	// Width-constrained single-line text shrinks proportionally first.
	if field.MaxWidth != nil && *field.MaxWidth > 0 && html == "" {
		size = layout.FitLineWidth(r.Measurer, text, resolved, size, *field.MaxWidth)
	}

	var tokens []layout.Token
	if html != "" {
		tokens = styledTokens(r.Fonts, html, baseFont, r.Config.DefaultFont, color)
	} else {
		tokens = plainTokens(r.Fonts, text, baseFont, r.Config.DefaultFont, color)
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	wrapWidth := 0.0
	if field.WrapText {
		switch {
		case field.WrapWidth != nil && *field.WrapWidth > 0:
			wrapWidth = *field.WrapWidth
		case field.BoxWidth != nil && *field.BoxWidth > 0:
			wrapWidth = *field.BoxWidth
		}
	}

	lines := layout.Lines(r.Measurer, tokens, size, wrapWidth)

	multiline := len(lines) > 1 || wrapWidth > 0
	fits := true

	// Box fitting takes precedence over the proportional path whenever
	// multi-line layout is in play and a box height is declared.
	if multiline && field.BoxHeight != nil && *field.BoxHeight > 0 {
		size, fits = layout.FitBox(r.Measurer, tokens, size, wrapWidth, *field.BoxHeight)
		lines = layout.Lines(r.Measurer, tokens, size, wrapWidth)
		if !fits {
			r.log().Warn("content does not fit its box at the minimum size",
				"field", name, "size", size, "box_height", *field.BoxHeight)
		}
	}

	out := &FieldOutput{Size: size, Fits: fits}

	if !multiline {
		line := lines[0]
		x := alignedX(rawX, field.Align, line.Width)
		for _, run := range line.Runs {
			out.Commands = append(out.Commands, DrawCommand{
				X: x, Y: rawY, Font: run.Font, Size: size, Color: run.Color, Text: run.Text,
			})
			x += r.Measurer.TextWidth(run.Text, run.Font, size)
		}
		return out, nil
	}

	// Multi-line block: lines stack downward from the block's top edge.
	boxHeight := 0.0
	if field.BoxHeight != nil {
		boxHeight = *field.BoxHeight
	}
	wrapStartY := rawY + boxHeight
	if field.WrapStartY != nil {
		wrapStartY = *field.WrapStartY
	}

	if boxHeight > 0 && field.BoxWidth != nil && *field.BoxWidth > 0 {
		out.Clip = &Rect{
			X: alignedX(rawX, field.Align, *field.BoxWidth),
			Y: wrapStartY - boxHeight,
			W: *field.BoxWidth,
			H: boxHeight,
		}
	}

	y := wrapStartY - size
	bottom := wrapStartY - boxHeight
	for _, line := range lines {
		if boxHeight > 0 && y < bottom {
			break
		}
		x := alignedX(rawX, field.Align, line.Width)
		for _, run := range line.Runs {
			out.Commands = append(out.Commands, DrawCommand{
				X: x, Y: y, Font: run.Font, Size: size, Color: run.Color, Text: run.Text,
			})
			x += r.Measurer.TextWidth(run.Text, run.Font, size)
		}
		y -= size * layout.LineSpacing
	}
	return out, nil
}

// alignedX computes the left drawing edge for content of the given width
// anchored at x: centered content straddles the anchor, right-aligned
// content ends at it.
func alignedX(x float64, align string, width float64) float64 {
	switch align {
	case AlignCenter:
		return x - width/2
	case AlignRight:
		return x - width
	default:
		return x
	}
}

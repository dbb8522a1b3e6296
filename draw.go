package certstudio

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/Enonich/CertStudio/fonts"
)

// canvas adapts an fpdf document to the bottom-left coordinate space the
// renderer works in, registers custom fonts lazily, and measures text with
// the backend's own metrics.
type canvas struct {
	pdf   *fpdf.Fpdf
	reg   *fonts.Registry
	tr    func(string) string // UTF-8 to cp1252 for the base fonts
	pageH float64
	added map[fonts.ID]bool
}

func newCanvas(pdf *fpdf.Fpdf, reg *fonts.Registry) *canvas {
	return &canvas{
		pdf:   pdf,
		reg:   reg,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		added: make(map[fonts.ID]bool),
	}
}

// setFont activates the font on the backend, registering custom font data on
// first use.
func (c *canvas) setFont(id fonts.ID, size float64) {
	if data, ok := c.reg.Data(string(id)); ok && !c.added[id] {
		c.pdf.AddUTF8FontFromBytes(string(id), "", data)
		c.added[id] = true
	}
	family, style := fonts.DrawName(id)
	c.pdf.SetFont(family, style, size)
}

// encode maps text into the active font's encoding. The base fonts are
// cp1252; registered fonts take UTF-8 directly.
func (c *canvas) encode(id fonts.ID, text string) string {
	if c.reg.Has(string(id)) {
		return text
	}
	return c.tr(text)
}

// TextWidth implements layout.Measurer with the backend's glyph metrics.
func (c *canvas) TextWidth(text string, font fonts.ID, size float64) float64 {
	c.setFont(font, size)
	return c.pdf.GetStringWidth(c.encode(font, text))
}

// paint draws a rendered field, converting bottom-left render coordinates to
// the backend's top-left space and applying the clip box when present.
func (c *canvas) paint(out *FieldOutput) {
	if out == nil || len(out.Commands) == 0 {
		return
	}
	if out.Clip != nil {
		c.pdf.ClipRect(out.Clip.X, c.pageH-(out.Clip.Y+out.Clip.H), out.Clip.W, out.Clip.H, false)
	}
	for _, cmd := range out.Commands {
		c.setFont(cmd.Font, cmd.Size)
		c.pdf.SetTextColor(channel(cmd.Color.R), channel(cmd.Color.G), channel(cmd.Color.B))
		c.pdf.Text(cmd.X, c.pageH-cmd.Y, c.encode(cmd.Font, cmd.Text))
	}
	if out.Clip != nil {
		c.pdf.ClipEnd()
	}
}

// channel converts a [0, 1] color channel to the backend's 0-255 range.
func channel(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int(v*255 + 0.5)
}

// drawGrid paints a labeled coordinate grid for position debugging. Labels
// show bottom-left page coordinates.
func (c *canvas) drawGrid(pageW float64, step float64) {
	if step <= 0 {
		step = 50
	}
	c.pdf.SetDrawColor(200, 200, 200)
	c.pdf.SetLineWidth(0.3)
	c.pdf.SetFont("Helvetica", "", 6)
	c.pdf.SetTextColor(120, 120, 120)

	for x := 0.0; x <= pageW; x += step {
		c.pdf.Line(x, 0, x, c.pageH)
		c.pdf.Text(x+1, c.pageH-2, fmt.Sprintf("%.0f", x))
	}
	for y := 0.0; y <= c.pageH; y += step {
		c.pdf.Line(0, c.pageH-y, pageW, c.pageH-y)
		c.pdf.Text(1, c.pageH-y-1, fmt.Sprintf("%.0f", y))
	}
}

// drawFieldMarkers paints a crosshair and label at each configured field
// anchor.
func (c *canvas) drawFieldMarkers(cfg *Config, dx, dy float64) {
	c.pdf.SetDrawColor(220, 60, 60)
	c.pdf.SetLineWidth(0.5)
	c.pdf.SetFont("Helvetica", "", 7)
	c.pdf.SetTextColor(220, 60, 60)

	const arm = 6
	for name, field := range cfg.Fields {
		x := field.X + dx
		y := c.pageH - (field.Y + dy)
		c.pdf.Line(x-arm, y, x+arm, y)
		c.pdf.Line(x, y-arm, x, y+arm)
		c.pdf.Text(x+arm+1, y-1, name)
	}
}

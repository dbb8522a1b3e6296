package certstudio

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/Enonich/CertStudio/fonts"
	"github.com/Enonich/CertStudio/reader"
)

// SpanReport is one extracted template text span with positions in both
// coordinate systems, ready to paste into a field configuration.
type SpanReport struct {
	Text string  `json:"text"`
	Font string  `json:"font,omitempty"`
	Size float64 `json:"size"`

	// Bottom-left origin, matching field configuration coordinates.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Top-left origin bounding box.
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExtractOptions filters span extraction.
type ExtractOptions struct {
	Page     int    // 0-based template page
	Contains string // keep only spans containing this substring, case-insensitive
	MinLen   int    // drop spans shorter than this many runes
	MaxItems int    // cap the result count; 0 means no cap
}

// ExtractCoords reads the template page's text spans and reports each span's
// position in field-configuration coordinates, for locating where fields
// should go.
func ExtractCoords(reg *fonts.Registry, templatePath string, opts ExtractOptions) ([]SpanReport, error) {
	doc, err := reader.Open(templatePath)
	if err != nil {
		return nil, err
	}
	if opts.Page < 0 || opts.Page >= doc.NumPages() {
		return nil, fmt.Errorf("certstudio: page %d of %d-page template: %w",
			opts.Page, doc.NumPages(), ErrPageOutOfRange)
	}
	page, err := doc.Page(opts.Page + 1)
	if err != nil {
		return nil, err
	}
	pageH := page.MediaBox.Height()

	var widths reader.WidthFunc
	if reg != nil {
		c := newCanvas(fpdf.New("P", "pt", "A4", ""), reg)
		widths = func(text, font string, size float64) float64 {
			return c.TextWidth(text, reg.Resolve(font, fonts.DefaultFont), size)
		}
	}

	spans, err := page.TextSpans(widths)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(opts.Contains)
	var out []SpanReport
	for _, span := range spans {
		text := strings.TrimSpace(span.Text)
		if text == "" || utf8.RuneCountInString(text) < opts.MinLen {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(text), needle) {
			continue
		}
		// Report the baseline position, which is what a field's y expects.
		x, y := BottomLeftPoint(span.X, span.Y+reader.SpanAscent*span.Size, pageH)
		out = append(out, SpanReport{
			Text:   text,
			Font:   span.Font,
			Size:   span.Size,
			X:      x,
			Y:      y,
			Top:    span.Y,
			Left:   span.X,
			Width:  span.Width,
			Height: span.Height,
		})
		if opts.MaxItems > 0 && len(out) >= opts.MaxItems {
			break
		}
	}
	return out, nil
}

// WriteCoordsJSON writes span reports as indented JSON.
func WriteCoordsJSON(path string, reports []SpanReport) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("certstudio: encoding coords: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("certstudio: writing %s: %w", path, err)
	}
	return nil
}

// AnnotateCoords writes a copy of the template page with each reported span
// outlined and labeled with its bottom-left coordinates.
func AnnotateCoords(templatePath, outPath string, page int, reports []SpanReport) error {
	doc, err := reader.Open(templatePath)
	if err != nil {
		return err
	}
	if page < 0 || page >= doc.NumPages() {
		return fmt.Errorf("certstudio: page %d of %d-page template: %w",
			page, doc.NumPages(), ErrPageOutOfRange)
	}
	p, err := doc.Page(page + 1)
	if err != nil {
		return err
	}
	w, h := p.MediaBox.Width(), p.MediaBox.Height()

	pdf := fpdf.New("P", "pt", "A4", "")
	imp := gofpdi.NewImporter()
	tpl := imp.ImportPage(pdf, templatePath, page+1, "/MediaBox")
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)

	pdf.SetDrawColor(220, 60, 60)
	pdf.SetLineWidth(0.5)
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(220, 60, 60)
	for i, rep := range reports {
		pdf.Rect(rep.Left, rep.Top, rep.Width, rep.Height, "D")
		pdf.Text(rep.Left, rep.Top-1, fmt.Sprintf("#%d x=%.0f y=%.0f", i+1, rep.X, rep.Y))
	}

	data, err := output(pdf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("certstudio: writing %s: %w", outPath, err)
	}
	return nil
}

// ExtractFonts lists the distinct base font names used across all template
// pages, in first-seen order.
func ExtractFonts(templatePath string) ([]string, error) {
	doc, err := reader.Open(templatePath)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, page := range doc.Pages() {
		for _, name := range page.FontNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}

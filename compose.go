package certstudio

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/Enonich/CertStudio/fonts"
	"github.com/Enonich/CertStudio/layout"
	"github.com/Enonich/CertStudio/reader"
)

// Overlay renders configured fields onto template pages or blank pages.
// Construct with New; an Overlay is safe to reuse across rows once the font
// registry has been populated.
type Overlay struct {
	cfg   *Config
	fonts *fonts.Registry
	opts  overlayConfig
}

// New creates an Overlay for the given configuration and font registry.
func New(cfg *Config, reg *fonts.Registry, opts ...Option) *Overlay {
	oc := overlayConfig{gridStep: 50, pageSize: PageSizeLetter}
	for _, opt := range opts {
		opt(&oc)
	}
	if oc.logger == nil {
		oc.logger = slog.Default()
	}
	return &Overlay{cfg: cfg, fonts: reg, opts: oc}
}

// pageDims maps named page sizes to width and height in points.
func pageDims(name string) (float64, float64) {
	switch name {
	case PageSizeA4:
		return 595.28, 841.89
	case PageSizeLegal:
		return 612, 1008
	default:
		return 612, 792 // letter
	}
}

// RenderTemplate fills the configured fields with row data over the template
// PDF and returns the merged document. Every template page is carried over;
// fields land on the configured page.
func (o *Overlay) RenderTemplate(templatePath string, row Row) ([]byte, error) {
	doc, err := reader.Open(templatePath)
	if err != nil {
		return nil, err
	}
	if o.cfg.Page < 0 || o.cfg.Page >= doc.NumPages() {
		return nil, fmt.Errorf("certstudio: page %d of %d-page template: %w",
			o.cfg.Page, doc.NumPages(), ErrPageOutOfRange)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	imp := gofpdi.NewImporter()

	for i := 1; i <= doc.NumPages(); i++ {
		tpl := imp.ImportPage(pdf, templatePath, i, "/MediaBox")
		sizes := imp.GetPageSizes()
		w := sizes[i]["/MediaBox"]["w"]
		h := sizes[i]["/MediaBox"]["h"]
		if w <= 0 || h <= 0 {
			page, err := doc.Page(i)
			if err != nil {
				return nil, err
			}
			w, h = page.MediaBox.Width(), page.MediaBox.Height()
		}

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)

		if i-1 == o.cfg.Page {
			if err := o.paintFields(pdf, w, h, row); err != nil {
				return nil, err
			}
		}
	}

	return output(pdf)
}

// RenderBlank fills the configured fields onto a single blank page of the
// configured size, with no template underneath.
func (o *Overlay) RenderBlank(row Row) ([]byte, error) {
	w, h := pageDims(o.opts.pageSize)
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	if err := o.paintFields(pdf, w, h, row); err != nil {
		return nil, err
	}
	return output(pdf)
}

// RenderToFile renders with or without a template and writes the result.
func (o *Overlay) RenderToFile(templatePath, outPath string, row Row) error {
	var (
		data []byte
		err  error
	)
	if templatePath == "" {
		data, err = o.RenderBlank(row)
	} else {
		data, err = o.RenderTemplate(templatePath, row)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("certstudio: writing %s: %w", outPath, err)
	}
	return nil
}

// ResolveAnchors returns a copy of the configuration with template-anchored
// fields repositioned from the text found on the given 0-based template
// page. Fields whose anchor text is absent keep their configured position.
func (o *Overlay) ResolveAnchors(templatePath string, page int) (*Config, error) {
	doc, err := reader.Open(templatePath)
	if err != nil {
		return nil, err
	}
	if page < 0 || page >= doc.NumPages() {
		return nil, fmt.Errorf("certstudio: page %d of %d-page template: %w",
			page, doc.NumPages(), ErrPageOutOfRange)
	}
	p, err := doc.Page(page + 1)
	if err != nil {
		return nil, err
	}

	m := o.measurer(fpdf.New("P", "pt", "A4", ""))
	spans, err := p.TextSpans(func(text, font string, size float64) float64 {
		return m.TextWidth(text, o.fonts.Resolve(font, o.cfg.DefaultFont), size)
	})
	if err != nil {
		return nil, err
	}

	anchors := BuildAnchorMap(spans, p.MediaBox.Height())
	return ApplyAnchors(o.cfg, anchors, o.opts.logger), nil
}

// measurer returns the configured measurer, or one backed by the document's
// own font metrics.
func (o *Overlay) measurer(pdf *fpdf.Fpdf) layout.Measurer {
	if o.opts.measurer != nil {
		return o.opts.measurer
	}
	return newCanvas(pdf, o.fonts)
}

// paintFields renders every configured field onto the current page. Fields
// draw in name order so output is deterministic. Missing row values skip the
// field with a warning.
func (o *Overlay) paintFields(pdf *fpdf.Fpdf, pageW, pageH float64, row Row) error {
	c := newCanvas(pdf, o.fonts)
	c.pageH = pageH

	r := &Renderer{
		Fonts:       o.fonts,
		Measurer:    o.measurer(pdf),
		Config:      o.cfg,
		Logger:      o.opts.logger,
		OffsetX:     o.opts.dx,
		OffsetY:     o.opts.dy,
		Placeholder: o.opts.placeholder,
	}

	names := make([]string, 0, len(o.cfg.Fields))
	for name := range o.cfg.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field := o.cfg.Fields[name]

		if field.Barcode != nil {
			if err := o.paintBarcode(pdf, c, name, field, row); err != nil {
				return err
			}
			continue
		}

		out, err := r.RenderField(name, field, row)
		if err != nil {
			if errors.Is(err, ErrNoContent) {
				o.opts.logger.Warn("no value for field, skipping", "field", name)
				continue
			}
			return err
		}
		c.paint(out)
	}

	if o.opts.debugGuides {
		c.drawGrid(pageW, o.opts.gridStep)
		c.drawFieldMarkers(o.cfg, o.opts.dx, o.opts.dy)
	}

	if pdf.Err() {
		return fmt.Errorf("certstudio: drawing fields: %v", pdf.Error())
	}
	return nil
}

// output finalizes the document into bytes.
func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("certstudio: writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

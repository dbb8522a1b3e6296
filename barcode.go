package certstudio

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"codeberg.org/go-pdf/fpdf"
	"github.com/boombuler/barcode/qr"
	pdf417 "github.com/ruudk/golang-pdf417"
	"golang.org/x/image/draw"
)

// Pixel density for rasterized barcodes, in pixels per point.
const barcodeScale = 4

// paintBarcode renders a field's value as a QR or PDF417 barcode image with
// its lower-left corner at the field position.
func (o *Overlay) paintBarcode(pdf *fpdf.Fpdf, c *canvas, name string, field Field, row Row) error {
	spec := field.Barcode
	if spec.Width <= 0 || spec.Height <= 0 {
		return newFieldError(name, fmt.Errorf("barcode needs a positive width and height"))
	}

	content := ""
	if field.Text != nil {
		content = *field.Text
	} else if v, ok := row[name]; ok {
		content = v.Text
	}
	if content == "" {
		o.opts.logger.Warn("no value for barcode field, skipping", "field", name)
		return nil
	}

	var src image.Image
	switch spec.Type {
	case "pdf417":
		src = pdf417.Encode(content, 4, 2)
	case "qr", "":
		code, err := qr.Encode(content, qr.M, qr.Auto)
		if err != nil {
			return newFieldError(name, fmt.Errorf("encoding qr: %w", err))
		}
		src = code
	default:
		return newFieldError(name, fmt.Errorf("unknown barcode type %q", spec.Type))
	}

	// Rasterize at fixed density so the module grid stays crisp.
	dst := image.NewRGBA(image.Rect(0, 0,
		int(spec.Width*barcodeScale), int(spec.Height*barcodeScale)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return newFieldError(name, fmt.Errorf("encoding barcode image: %w", err))
	}

	imgName := "barcode_" + name
	opts := fpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader(imgName, opts, &buf)

	x := field.X + o.opts.dx
	y := field.Y + o.opts.dy
	pdf.ImageOptions(imgName, x, c.pageH-(y+spec.Height), spec.Width, spec.Height, false, opts, 0, "")
	return nil
}

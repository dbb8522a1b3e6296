package certstudio

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
)

// RenderBatch renders one document per row into outDir, named
// certificate_0001.pdf onward. templatePath may be empty for blank-page
// rendering. It returns the written file paths in row order.
func (o *Overlay) RenderBatch(templatePath, outDir string, rows []Row) ([]string, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("certstudio: creating %s: %w", outDir, err)
	}

	paths := make([]string, 0, len(rows))
	for i, row := range rows {
		name := fmt.Sprintf("certificate_%04d.pdf", i+1)
		path := filepath.Join(outDir, name)
		if err := o.RenderToFile(templatePath, path, row); err != nil {
			return paths, fmt.Errorf("certstudio: row %d: %w", i, err)
		}
		o.opts.logger.Info("rendered", "row", i, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// RenderBatchZip renders one document per row and packs them into a single
// zip archive at zipPath.
func (o *Overlay) RenderBatchZip(templatePath, zipPath string, rows []Row) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("certstudio: creating %s: %w", zipPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for i, row := range rows {
		var data []byte
		if templatePath == "" {
			data, err = o.RenderBlank(row)
		} else {
			data, err = o.RenderTemplate(templatePath, row)
		}
		if err != nil {
			zw.Close()
			return fmt.Errorf("certstudio: row %d: %w", i, err)
		}
		w, err := zw.Create(fmt.Sprintf("certificate_%04d.pdf", i+1))
		if err != nil {
			zw.Close()
			return fmt.Errorf("certstudio: adding archive entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("certstudio: writing archive entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("certstudio: finalizing %s: %w", zipPath, err)
	}
	return nil
}

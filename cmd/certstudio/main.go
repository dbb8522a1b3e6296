// Command certstudio fills fixed-position fields on a PDF template with row
// data and writes the merged result, in single or batch mode.
//
// # Examples
//
// Render one certificate from JSON data:
//
//	certstudio --template cert.pdf --fields fields.json \
//	    --data-json row.json --output out.pdf
//
// Render a batch from CSV into a zip archive:
//
//	certstudio --template cert.pdf --fields fields.json \
//	    --csv people.csv --batch --output certs.zip
//
// Discover field positions on a template:
//
//	certstudio --template cert.pdf --extract-coords --extract-contains Name
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	certstudio "github.com/Enonich/CertStudio"
	"github.com/Enonich/CertStudio/fonts"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "certstudio: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		template      = pflag.String("template", "", "template PDF to overlay onto")
		fieldsPath    = pflag.String("fields", "", "field configuration JSON")
		csvPath       = pflag.String("csv", "", "CSV data file with a header row")
		dataJSON      = pflag.String("data-json", "", "JSON data file (object or array of objects)")
		outPath       = pflag.String("output", "out.pdf", "output file, or directory/zip in batch mode")
		rowIndex      = pflag.Int("row", 0, "row to render in single mode")
		mappings      = pflag.StringToString("field-mappings", nil, "field=column renames applied to row data")
		fixedValues   = pflag.StringToString("fixed-values", nil, "field=text literals overriding row data")
		batch         = pflag.Bool("batch", false, "render every row")
		placeholder   = pflag.Bool("placeholder-mode", false, "render field names instead of data")
		dx            = pflag.Float64("dx", 0, "horizontal offset applied to all fields, points")
		dy            = pflag.Float64("dy", 0, "vertical offset applied to all fields, points")
		debug         = pflag.Bool("debug", false, "draw a coordinate grid and field markers")
		gridStep      = pflag.Float64("grid-step", 50, "debug grid spacing in points")
		fontPaths     = pflag.StringSlice("font-path", nil, "font file or directory to register (repeatable)")
		overlayOnly   = pflag.Bool("overlay-only", false, "render onto a blank page instead of the template")
		pageSize      = pflag.String("page-size", "letter", "blank page size: letter, a4, or legal")
		useAnchors    = pflag.Bool("use-template-anchors", false, "reposition fields from template text anchors")
		anchorPage    = pflag.Int("template-anchor-page", -1, "0-based page for anchor lookup (default: config page)")
		extractCoords = pflag.Bool("extract-coords", false, "list template text positions and exit")
		extractPage   = pflag.Int("extract-page", 0, "0-based page for extraction")
		extractFilter = pflag.String("extract-contains", "", "only report spans containing this text")
		extractMinLen = pflag.Int("extract-min-len", 0, "skip spans shorter than this many characters")
		extractMax    = pflag.Int("extract-max-items", 0, "cap the number of reported spans")
		extractJSON   = pflag.String("extract-output-json", "", "also write extracted coords to this JSON file")
		extractPDF    = pflag.String("extract-annotate", "", "also write an annotated template copy here")
		listFonts     = pflag.Bool("list-fonts", false, "list the template's fonts and exit")
		verbose       = pflag.BoolP("verbose", "v", false, "debug logging")
	)
	pflag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	reg := fonts.NewRegistry(logger)
	reg.RegisterGoFonts()
	for _, path := range *fontPaths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("font path %s: %w", path, err)
		}
		if info.IsDir() {
			reg.RegisterDir(path)
		} else if err := reg.RegisterFile(path, ""); err != nil {
			return err
		}
	}

	if *listFonts {
		if *template == "" {
			return fmt.Errorf("--list-fonts needs --template")
		}
		names, err := certstudio.ExtractFonts(*template)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	if *extractCoords {
		if *template == "" {
			return fmt.Errorf("--extract-coords needs --template")
		}
		reports, err := certstudio.ExtractCoords(reg, *template, certstudio.ExtractOptions{
			Page:     *extractPage,
			Contains: *extractFilter,
			MinLen:   *extractMinLen,
			MaxItems: *extractMax,
		})
		if err != nil {
			return err
		}
		for _, rep := range reports {
			fmt.Printf("x=%-7.1f y=%-7.1f size=%-5.1f %-20s %q\n",
				rep.X, rep.Y, rep.Size, rep.Font, rep.Text)
		}
		if *extractJSON != "" {
			if err := certstudio.WriteCoordsJSON(*extractJSON, reports); err != nil {
				return err
			}
		}
		if *extractPDF != "" {
			if err := certstudio.AnnotateCoords(*template, *extractPDF, *extractPage, reports); err != nil {
				return err
			}
		}
		return nil
	}

	if *fieldsPath == "" {
		return fmt.Errorf("--fields is required")
	}
	cfg, err := certstudio.LoadConfig(*fieldsPath)
	if err != nil {
		return err
	}

	// A fonts/ directory next to the field config is registered automatically.
	if dir := filepath.Join(filepath.Dir(*fieldsPath), "fonts"); dirExists(dir) {
		reg.RegisterDir(dir)
	}

	rows, err := loadRows(*csvPath, *dataJSON, *placeholder)
	if err != nil {
		return err
	}
	for i, row := range rows {
		rows[i] = certstudio.MergeRow(row, *mappings, *fixedValues)
	}

	overlay := certstudio.New(cfg, reg,
		certstudio.WithOffset(*dx, *dy),
		certstudio.WithPlaceholderMode(*placeholder),
		certstudio.WithDebugGuides(*debug),
		certstudio.WithGridStep(*gridStep),
		certstudio.WithPageSize(strings.ToLower(*pageSize)),
		certstudio.WithLogger(logger),
	)

	if *useAnchors {
		if *template == "" {
			return fmt.Errorf("--use-template-anchors needs --template")
		}
		page := *anchorPage
		if page < 0 {
			page = cfg.Page
		}
		resolved, err := overlay.ResolveAnchors(*template, page)
		if err != nil {
			return err
		}
		overlay = certstudio.New(resolved, reg,
			certstudio.WithOffset(*dx, *dy),
			certstudio.WithPlaceholderMode(*placeholder),
			certstudio.WithDebugGuides(*debug),
			certstudio.WithGridStep(*gridStep),
			certstudio.WithPageSize(strings.ToLower(*pageSize)),
			certstudio.WithLogger(logger),
		)
	}

	templatePath := *template
	if *overlayOnly {
		templatePath = ""
	}
	if templatePath == "" && !*overlayOnly {
		return fmt.Errorf("--template is required unless --overlay-only is set")
	}

	if *batch {
		if strings.HasSuffix(strings.ToLower(*outPath), ".zip") {
			if err := overlay.RenderBatchZip(templatePath, *outPath, rows); err != nil {
				return err
			}
			logger.Info("batch written", "archive", *outPath, "rows", len(rows))
			return nil
		}
		paths, err := overlay.RenderBatch(templatePath, *outPath, rows)
		if err != nil {
			return err
		}
		logger.Info("batch written", "dir", *outPath, "files", len(paths))
		return nil
	}

	if *rowIndex < 0 || *rowIndex >= len(rows) {
		return fmt.Errorf("row %d of %d rows: %w", *rowIndex, len(rows), certstudio.ErrRowOutOfRange)
	}
	if err := overlay.RenderToFile(templatePath, *outPath, rows[*rowIndex]); err != nil {
		return err
	}
	logger.Info("written", "path", *outPath)
	return nil
}

// loadRows reads row data from whichever source was given. Placeholder mode
// needs no data and gets a single empty row.
func loadRows(csvPath, jsonPath string, placeholder bool) ([]certstudio.Row, error) {
	switch {
	case csvPath != "":
		return certstudio.LoadRowsCSV(csvPath)
	case jsonPath != "":
		return certstudio.LoadRowsJSON(jsonPath)
	case placeholder:
		return []certstudio.Row{{}}, nil
	default:
		return nil, fmt.Errorf("either --csv or --data-json is required")
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

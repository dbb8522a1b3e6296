// Package fonts provides a font registry and name resolver for overlay
// rendering.
//
// The registry knows the 14 standard base fonts and any custom TTF/OTF fonts
// registered from files or raw bytes. Resolution never fails: an unknown name
// degrades through normalized matching, a caller-supplied fallback, and
// finally Helvetica, emitting warning diagnostics along the way.
//
// A Registry is populated once at startup and is read-only during layout;
// Register and Remove exist for the external font-management layer and must
// not race with concurrent rendering.
package fonts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// ID is a resolved font identifier. Every ID returned by Resolve or
// ApplyEmphasis refers to a font that is guaranteed renderable; layout and
// drawing code never see an unresolved name.
type ID string

// DefaultFont is the terminal fallback of the resolution chain.
const DefaultFont = "Helvetica"

// base14 lists the standard base fonts in fixed iteration order.
var base14 = []string{
	"Courier",
	"Courier-Bold",
	"Courier-Oblique",
	"Courier-BoldOblique",
	"Helvetica",
	"Helvetica-Bold",
	"Helvetica-Oblique",
	"Helvetica-BoldOblique",
	"Times-Roman",
	"Times-Bold",
	"Times-Italic",
	"Times-BoldItalic",
	"Symbol",
	"ZapfDingbats",
}

var base14Set = func() map[string]bool {
	m := make(map[string]bool, len(base14))
	for _, name := range base14 {
		m[name] = true
	}
	return m
}()

// Base14 returns the names of the 14 standard base fonts.
func Base14() []string {
	out := make([]string, len(base14))
	copy(out, base14)
	return out
}

// IsBase14 reports whether name is one of the standard base fonts.
func IsBase14(name string) bool {
	return base14Set[name]
}

// Registry holds the available fonts: the base-14 set plus custom fonts
// registered from TTF/OTF data.
type Registry struct {
	log   *slog.Logger
	names []string          // custom fonts in registration order
	data  map[string][]byte // raw font file bytes by name
}

// NewRegistry returns a registry containing only the base-14 fonts.
// A nil logger falls back to slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		log:  logger,
		data: make(map[string][]byte),
	}
}

// Register adds a custom font under the given name. The data must parse as a
// valid TTF/OTF font. Registering a name twice replaces the data but keeps
// the original registration order.
func (r *Registry) Register(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("fonts: registering font: empty name")
	}
	if _, err := sfnt.Parse(data); err != nil {
		return fmt.Errorf("fonts: registering %s: %w", name, err)
	}
	if _, exists := r.data[name]; !exists {
		r.names = append(r.names, name)
	}
	r.data[name] = data
	return nil
}

// RegisterFile registers a font file under the given name. If name is empty,
// the file name without its extension is used.
func (r *Registry) RegisterFile(path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fonts: reading %s: %w", path, err)
	}
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return r.Register(name, data)
}

// RegisterDir scans dir for *.ttf and *.otf files and registers each under
// its file stem. Files that fail to parse are skipped with a diagnostic.
// It returns the names that were registered, in registration order.
// A missing directory is not an error.
func (r *Registry) RegisterDir(dir string) []string {
	var registered []string
	for _, pattern := range []string{"*.ttf", "*.otf"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		for _, path := range matches {
			base := filepath.Base(path)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			if err := r.RegisterFile(path, name); err != nil {
				r.log.Warn("font registration failed", "file", base, "error", err)
				continue
			}
			r.log.Info("registered font", "name", name)
			registered = append(registered, name)
		}
	}
	return registered
}

// RegisterGoFonts registers the embedded Go font family under the names
// "Go", "Go-Bold", "Go-Italic", and "Go-BoldItalic". Each registers as an
// independent single-style font; synthetic bold/italic does not apply to
// them (see ApplyEmphasis).
func (r *Registry) RegisterGoFonts() {
	for name, data := range map[string][]byte{
		"Go":            goregular.TTF,
		"Go-Bold":       gobold.TTF,
		"Go-Italic":     goitalic.TTF,
		"Go-BoldItalic": gobolditalic.TTF,
	} {
		if err := r.Register(name, data); err != nil {
			r.log.Warn("embedded font registration failed", "name", name, "error", err)
		}
	}
}

// Remove unregisters a custom font. Base fonts cannot be removed.
// It reports whether the name was registered.
func (r *Registry) Remove(name string) bool {
	if _, ok := r.data[name]; !ok {
		return false
	}
	delete(r.data, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the custom font names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether name is available: a base font or a registered font.
func (r *Registry) Has(name string) bool {
	if base14Set[name] {
		return true
	}
	_, ok := r.data[name]
	return ok
}

// Data returns the raw font file bytes for a registered custom font.
func (r *Registry) Data(name string) ([]byte, bool) {
	data, ok := r.data[name]
	return data, ok
}

// normalizeName lower-cases a font name and strips every non-alphanumeric
// character, so that "Helvetica Bold" matches "Helvetica-Bold".
func normalizeName(name string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(name) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// lookup finds an available font by exact name, then by normalized
// comparison against registered fonts (registration order) and base fonts.
func (r *Registry) lookup(name string) (ID, bool) {
	if r.Has(name) {
		return ID(name), true
	}
	normalized := normalizeName(name)
	for _, candidate := range r.names {
		if normalizeName(candidate) == normalized {
			return ID(candidate), true
		}
	}
	for _, candidate := range base14 {
		if normalizeName(candidate) == normalized {
			return ID(candidate), true
		}
	}
	return "", false
}

// Resolve maps a requested font name to an available font. The chain is:
// exact match, normalized match against registered fonts then base fonts,
// the caller's fallback (itself resolved the same way), and finally
// Helvetica. Resolution always succeeds; fallback steps log warnings.
func (r *Registry) Resolve(name, fallback string) ID {
	if id, ok := r.lookup(name); ok {
		return id
	}
	if fallback != "" {
		if id, ok := r.lookup(fallback); ok {
			r.log.Warn("font unavailable, using fallback", "font", name, "fallback", string(id))
			return id
		}
	}
	r.log.Warn("font unavailable, using fallback", "font", name, "fallback", DefaultFont)
	return ID(DefaultFont)
}

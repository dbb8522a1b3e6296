package fonts

import (
	"log/slog"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(slog.Default())
}

func TestResolveExactBaseFont(t *testing.T) {
	r := newTestRegistry(t)
	if got := r.Resolve("Times-Bold", "Helvetica"); got != "Times-Bold" {
		t.Errorf("expected Times-Bold, got %q", got)
	}
}

func TestResolveNormalizedMatch(t *testing.T) {
	r := newTestRegistry(t)
	cases := map[string]ID{
		"helvetica bold":    "Helvetica-Bold",
		"TIMES-ROMAN":       "Times-Roman",
		"courier_oblique":   "Courier-Oblique",
		"Zapf Dingbats":     "ZapfDingbats",
		"times bold italic": "Times-BoldItalic",
	}
	for in, want := range cases {
		if got := r.Resolve(in, "Helvetica"); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveFallsBackToFallback(t *testing.T) {
	r := newTestRegistry(t)
	if got := r.Resolve("Arial Black", "Courier"); got != "Courier" {
		t.Errorf("expected Courier fallback, got %q", got)
	}
}

func TestResolveFallbackIsNormalized(t *testing.T) {
	r := newTestRegistry(t)
	if got := r.Resolve("Arial Black", "times roman"); got != "Times-Roman" {
		t.Errorf("expected normalized fallback Times-Roman, got %q", got)
	}
}

func TestResolveTerminalDefault(t *testing.T) {
	r := newTestRegistry(t)
	// Both the request and the fallback are unavailable: resolution must
	// still succeed, ending at Helvetica.
	if got := r.Resolve("Arial Black", "Comic Sans"); got != "Helvetica" {
		t.Errorf("expected Helvetica, got %q", got)
	}
}

func TestRegisterAndResolveCustomFont(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register("Inter-Regular", goregular.TTF); err != nil {
		t.Fatalf("registering font: %v", err)
	}
	if !r.Has("Inter-Regular") {
		t.Fatal("expected Inter-Regular to be available")
	}
	if got := r.Resolve("inter regular", "Helvetica"); got != "Inter-Regular" {
		t.Errorf("normalized custom lookup = %q, want Inter-Regular", got)
	}
}

func TestRegisterRejectsGarbage(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register("Broken", []byte("not a font")); err == nil {
		t.Fatal("expected error registering invalid font data")
	}
	if r.Has("Broken") {
		t.Error("invalid font must not be registered")
	}
}

func TestRegisteredBeforeBaseInNormalizedSearch(t *testing.T) {
	r := newTestRegistry(t)
	// A registered font whose normalized name collides with a base font
	// wins, because registered names are searched first.
	if err := r.Register("helvetica bold", goregular.TTF); err != nil {
		t.Fatalf("registering font: %v", err)
	}
	if got := r.Resolve("HELVETICA-bold!", ""); got != "helvetica bold" {
		t.Errorf("expected registered font to win, got %q", got)
	}
}

func TestRemove(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register("Temp", goregular.TTF); err != nil {
		t.Fatalf("registering font: %v", err)
	}
	if !r.Remove("Temp") {
		t.Fatal("expected Remove to report success")
	}
	if r.Has("Temp") {
		t.Error("font still available after Remove")
	}
	if r.Remove("Helvetica") {
		t.Error("base fonts must not be removable")
	}
}

func TestRegisterGoFonts(t *testing.T) {
	r := newTestRegistry(t)
	r.RegisterGoFonts()
	for _, name := range []string{"Go", "Go-Bold", "Go-Italic", "Go-BoldItalic"} {
		if !r.Has(name) {
			t.Errorf("expected %s to be registered", name)
		}
	}
}

func TestApplyEmphasisBuiltins(t *testing.T) {
	r := newTestRegistry(t)
	cases := []struct {
		base         ID
		bold, italic bool
		want         ID
	}{
		{"Helvetica", true, false, "Helvetica-Bold"},
		{"Helvetica", false, true, "Helvetica-Oblique"},
		{"Helvetica", true, true, "Helvetica-BoldOblique"},
		{"Helvetica", false, false, "Helvetica"},
		{"Times-Roman", true, true, "Times-BoldItalic"},
		{"Courier", false, true, "Courier-Oblique"},
		// The base style is kept and ORed with the request.
		{"Times-Italic", true, false, "Times-BoldItalic"},
		{"Courier-Bold", false, true, "Courier-BoldOblique"},
	}
	for _, tc := range cases {
		got := r.ApplyEmphasis(tc.base, tc.bold, tc.italic, "Helvetica")
		if got != tc.want {
			t.Errorf("ApplyEmphasis(%s, %v, %v) = %q, want %q",
				tc.base, tc.bold, tc.italic, got, tc.want)
		}
	}
}

func TestApplyEmphasisCustomFontUnchanged(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register("Lobster", goregular.TTF); err != nil {
		t.Fatalf("registering font: %v", err)
	}
	if got := r.ApplyEmphasis("Lobster", true, true, "Helvetica"); got != "Lobster" {
		t.Errorf("custom font must ignore synthetic emphasis, got %q", got)
	}
	if got := r.ApplyEmphasis("Symbol", true, false, "Helvetica"); got != "Symbol" {
		t.Errorf("Symbol has no variants, got %q", got)
	}
}

func TestDecompose(t *testing.T) {
	fam, bold, italic := Decompose("Helvetica-BoldOblique")
	if fam != "Helvetica" || !bold || !italic {
		t.Errorf("Decompose(Helvetica-BoldOblique) = %q,%v,%v", fam, bold, italic)
	}
	fam, bold, italic = Decompose("Times-Roman")
	if fam != "Times-Roman" || bold || italic {
		t.Errorf("Decompose(Times-Roman) = %q,%v,%v", fam, bold, italic)
	}
	fam, bold, italic = Decompose("Wingdings")
	if fam != "Wingdings" || bold || italic {
		t.Errorf("Decompose(Wingdings) = %q,%v,%v", fam, bold, italic)
	}
}

func TestDrawName(t *testing.T) {
	cases := []struct {
		id         ID
		fam, style string
	}{
		{"Helvetica", "Helvetica", ""},
		{"Helvetica-BoldOblique", "Helvetica", "BI"},
		{"Times-Roman", "Times", ""},
		{"Times-Bold", "Times", "B"},
		{"Courier-Oblique", "Courier", "I"},
		{"Symbol", "Symbol", ""},
		{"Lobster", "Lobster", ""},
	}
	for _, tc := range cases {
		fam, style := DrawName(tc.id)
		if fam != tc.fam || style != tc.style {
			t.Errorf("DrawName(%s) = %q,%q want %q,%q", tc.id, fam, style, tc.fam, tc.style)
		}
	}
}

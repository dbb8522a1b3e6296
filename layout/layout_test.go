package layout

import (
	"math"
	"testing"

	"github.com/Enonich/CertStudio/fonts"
)

// charMeasurer charges a fixed fraction of the size per rune, ignoring the
// font. Deterministic widths keep wrap decisions easy to reason about.
type charMeasurer struct{ perRune float64 }

func (m charMeasurer) TextWidth(text string, _ fonts.ID, size float64) float64 {
	return float64(len([]rune(text))) * size * m.perRune
}

func text(s string) Token { return Token{Text: s, Font: fonts.DefaultFont} }

func newline() Token { return Token{Newline: true} }

func lineText(t *testing.T, line Line) string {
	t.Helper()
	out := ""
	for _, run := range line.Runs {
		out += run.Text
	}
	return out
}

func TestLinesNoWrapSingleLine(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	lines := Lines(m, []Token{text("hello world")}, 10, 0)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if got := lineText(t, lines[0]); got != "hello world" {
		t.Fatalf("line text = %q", got)
	}
	if want := 11 * 10 * 0.6; math.Abs(lines[0].Width-want) > 1e-9 {
		t.Fatalf("width = %v, want %v", lines[0].Width, want)
	}
}

func TestLinesExplicitBreaks(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	lines := Lines(m, []Token{text("a"), newline(), newline(), text("b")}, 10, 0)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if got := lineText(t, lines[1]); got != "" {
		t.Fatalf("middle line = %q, want blank", got)
	}
	if got := lineText(t, lines[2]); got != "b" {
		t.Fatalf("last line = %q", got)
	}
}

func TestLinesGreedyWrap(t *testing.T) {
	m := charMeasurer{perRune: 0.6} // 6pt per rune at size 10
	lines := Lines(m, []Token{text("hello world again")}, 10, 70)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got := lineText(t, lines[0]); got != "hello world" {
		t.Fatalf("first line = %q", got)
	}
	if got := lineText(t, lines[1]); got != "again" {
		t.Fatalf("second line = %q", got)
	}
	// Trailing whitespace is trimmed before the width is measured.
	if want := 11 * 10 * 0.6; math.Abs(lines[0].Width-want) > 1e-9 {
		t.Fatalf("first line width = %v, want %v", lines[0].Width, want)
	}
}

func TestLinesOverlongWordKeepsOwnLine(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	lines := Lines(m, []Token{text("superlongword ok")}, 10, 50)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got := lineText(t, lines[0]); got != "superlongword" {
		t.Fatalf("first line = %q", got)
	}
	if got := lineText(t, lines[1]); got != "ok" {
		t.Fatalf("second line = %q", got)
	}
}

func TestLinesWrapDropsLeadingWhitespace(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	lines := Lines(m, []Token{text("  indented")}, 10, 200)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if got := lineText(t, lines[0]); got != "indented" {
		t.Fatalf("line = %q", got)
	}
}

func TestLinesMergesSameStyleRuns(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	red := RGB{R: 1}
	tokens := []Token{
		{Text: "one ", Font: "Helvetica"},
		{Text: "two", Font: "Helvetica"},
		{Text: " three", Font: "Helvetica", Color: red},
	}
	lines := Lines(m, tokens, 10, 0)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	runs := lines[0].Runs
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2: %#v", len(runs), runs)
	}
	if runs[0].Text != "one two" {
		t.Fatalf("merged run = %q", runs[0].Text)
	}
	if runs[1].Color != red || runs[1].Text != " three" {
		t.Fatalf("colored run = %#v", runs[1])
	}
}

func TestLinesEmptyInput(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	lines := Lines(m, nil, 10, 0)
	if len(lines) != 1 || len(lines[0].Runs) != 0 {
		t.Fatalf("got %#v, want one empty line", lines)
	}
}

func TestLinesHeight(t *testing.T) {
	if got := LinesHeight(1, 10); got != 10 {
		t.Fatalf("one line height = %v", got)
	}
	if got := LinesHeight(3, 10); math.Abs(got-34) > 1e-9 {
		t.Fatalf("three line height = %v, want 34", got)
	}
	if got := LinesHeight(0, 10); got != 0 {
		t.Fatalf("zero line height = %v", got)
	}
}

func TestFitBoxShrinksToFit(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	tokens := []Token{text("a"), newline(), text("b"), newline(), text("c")}
	// Three lines need 3.4x the size: 13.5 -> 45.9 fits in 46, 14 -> 47.6 does not.
	size, ok := FitBox(m, tokens, 18, 1000, 46)
	if !ok {
		t.Fatalf("content should fit")
	}
	if math.Abs(size-13.5) > 1e-9 {
		t.Fatalf("fitted size = %v, want 13.5", size)
	}
}

func TestFitBoxAlreadyFits(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	size, ok := FitBox(m, []Token{text("short")}, 12, 1000, 100)
	if !ok || size != 12 {
		t.Fatalf("got (%v, %v), want (12, true)", size, ok)
	}
}

func TestFitBoxStopsAtFloor(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	size, ok := FitBox(m, []Token{text("x")}, 8, 1000, 5)
	if ok {
		t.Fatalf("content cannot fit a 5pt box")
	}
	if size != MinFontSize {
		t.Fatalf("floor size = %v, want %v", size, MinFontSize)
	}
}

func TestFitBoxNeverGrows(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	tokens := []Token{text("some wrapping text here")}
	for _, start := range []float64{8, 12, 24, 48} {
		size, _ := FitBox(m, tokens, start, 60, 30)
		if size > start {
			t.Fatalf("start %v grew to %v", start, size)
		}
	}
}

func TestFitLineWidth(t *testing.T) {
	m := charMeasurer{perRune: 0.6}
	// Widest line is "world!!": 7 runes, 84pt at size 20.
	got := FitLineWidth(m, "hello\nworld!!", fonts.DefaultFont, 20, 30)
	if want := 20 * 30.0 / 84.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("shrunk size = %v, want %v", got, want)
	}
	if got := FitLineWidth(m, "hello\nworld!!", fonts.DefaultFont, 20, 100); got != 20 {
		t.Fatalf("fitting text should keep its size, got %v", got)
	}
	if got := FitLineWidth(m, "hello\nworld!!", fonts.DefaultFont, 20, 5); got != MinFontSize {
		t.Fatalf("floor = %v, want %v", got, MinFontSize)
	}
	if got := FitLineWidth(m, "", fonts.DefaultFont, 20, 5); got != 20 {
		t.Fatalf("empty text should keep its size, got %v", got)
	}
}

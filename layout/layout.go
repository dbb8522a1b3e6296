// Package layout arranges styled text tokens into lines of drawable runs,
// performing greedy word-wrap against a wrap width, and sizes content to fit
// a bounding box.
//
// All width decisions go through a Measurer, so the engine is independent of
// any particular font metrics source. Breaking only occurs at whitespace
// boundaries; a single word wider than the wrap width stays on its own line.
package layout

import (
	"regexp"
	"strings"

	"github.com/Enonich/CertStudio/fonts"
)

// RGB is a color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// Token is a styled unit of input: either text carrying a resolved font and
// color, or a line break.
type Token struct {
	Text    string
	Font    fonts.ID
	Color   RGB
	Newline bool
}

// Run is a maximal span of text sharing one font and color, the atomic
// drawable unit. Adjacent same-style chunks are always merged into one Run.
type Run struct {
	Text  string
	Font  fonts.ID
	Color RGB
}

// Line is one visual text row: trimmed ordered runs and their total measured
// width. A Line may have zero runs, representing a deliberate blank line.
type Line struct {
	Runs  []Run
	Width float64
}

// Measurer supplies glyph-advance widths for a string at a font and size.
type Measurer interface {
	TextWidth(text string, font fonts.ID, size float64) float64
}

// chunkPattern splits text into alternating maximal runs of whitespace and
// non-whitespace.
var chunkPattern = regexp.MustCompile(`\S+|\s+`)

// isSpace reports whether s is non-empty and consists only of whitespace.
func isSpace(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}

// Lines lays out styled tokens into lines. With wrapWidth <= 0 each token
// contributes its full text and only explicit breaks start new lines; with a
// positive wrapWidth, greedy word-wrap applies. The result always contains
// at least one line, possibly empty.
func Lines(m Measurer, tokens []Token, size, wrapWidth float64) []Line {
	var lines []Line
	var runs []Run
	width := 0.0

	push := func(forceEmpty bool) {
		if len(runs) == 0 && !forceEmpty {
			return
		}
		trimmed, w := trimRuns(m, runs, size)
		lines = append(lines, Line{Runs: trimmed, Width: w})
		runs = nil
		width = 0
	}

	wrap := wrapWidth > 0

	for _, tok := range tokens {
		if tok.Newline {
			push(true)
			continue
		}
		if tok.Text == "" {
			continue
		}

		chunks := []string{tok.Text}
		if wrap {
			chunks = chunkPattern.FindAllString(tok.Text, -1)
		}
		for _, chunk := range chunks {
			if chunk == "" {
				continue
			}
			// No leading-whitespace lines from wrapping.
			if wrap && len(runs) == 0 && isSpace(chunk) {
				continue
			}
			chunkW := m.TextWidth(chunk, tok.Font, size)
			if wrap && len(runs) > 0 && width+chunkW > wrapWidth && !isSpace(chunk) {
				push(false)
			}
			if len(runs) > 0 && runs[len(runs)-1].Font == tok.Font && runs[len(runs)-1].Color == tok.Color {
				runs[len(runs)-1].Text += chunk
			} else {
				runs = append(runs, Run{Text: chunk, Font: tok.Font, Color: tok.Color})
			}
			width += chunkW
		}
	}

	push(true)
	if len(lines) == 0 {
		return []Line{{}}
	}
	return lines
}

// trimRuns drops trailing whitespace-only runs, right-trims the last
// remaining run, and measures the trimmed width.
func trimRuns(m Measurer, runs []Run, size float64) ([]Run, float64) {
	trimmed := make([]Run, len(runs))
	copy(trimmed, runs)
	for len(trimmed) > 0 && isSpace(trimmed[len(trimmed)-1].Text) {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if len(trimmed) > 0 {
		last := &trimmed[len(trimmed)-1]
		last.Text = strings.TrimRight(last.Text, " \t\n\r\f\v")
	}
	width := 0.0
	for _, run := range trimmed {
		width += m.TextWidth(run.Text, run.Font, size)
	}
	return trimmed, width
}

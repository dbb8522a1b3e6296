package layout

import (
	"math"

	"github.com/Enonich/CertStudio/fonts"
)

const (
	// MinFontSize is the floor below which fitting never shrinks text.
	MinFontSize = 6.0
	// FitStep is the size decrement applied per fitting iteration.
	FitStep = 0.5
	// MaxFitIterations bounds the shrink loop of FitBox.
	MaxFitIterations = 80
	// LineSpacing is the baseline pitch between consecutive lines as a
	// multiple of the font size.
	LineSpacing = 1.2
)

// LinesHeight returns the vertical extent of n lines at the given size using
// the standard pitch: the first line contributes its full size, each
// subsequent line adds size multiplied by LineSpacing.
func LinesHeight(n int, size float64) float64 {
	if n <= 0 {
		return 0
	}
	return size + float64(n-1)*size*LineSpacing
}

// FitBox shrinks from startSize until the wrapped token layout fits within
// boxWidth x boxHeight, stepping down by FitStep and re-laying-out each
// iteration. A boxHeight of zero or less disables fitting. It returns the
// final size and whether the content fits; a false result carries the floor
// reached when MinFontSize or the iteration bound ran out.
func FitBox(m Measurer, tokens []Token, startSize, boxWidth, boxHeight float64) (float64, bool) {
	if boxHeight <= 0 {
		return startSize, true
	}
	size := math.Max(MinFontSize, startSize)
	for i := 0; i < MaxFitIterations; i++ {
		lines := Lines(m, tokens, size, boxWidth)
		if LinesHeight(len(lines), size) <= boxHeight {
			return size, true
		}
		if size <= MinFontSize {
			return MinFontSize, false
		}
		size = math.Max(MinFontSize, size-FitStep)
	}
	return size, false
}

// FitLineWidth proportionally shrinks startSize so that the widest
// newline-separated line of text fits maxWidth at the given font. Text that
// already fits keeps startSize; the result never drops below MinFontSize.
func FitLineWidth(m Measurer, text string, font fonts.ID, startSize, maxWidth float64) float64 {
	widest := 0.0
	for _, line := range splitLines(text) {
		if w := m.TextWidth(line, font, startSize); w > widest {
			widest = w
		}
	}
	if widest <= maxWidth || widest == 0 {
		return startSize
	}
	size := startSize * maxWidth / widest
	if size < MinFontSize {
		return MinFontSize
	}
	return size
}

func splitLines(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, text[start:i])
			start = i + 1
		}
	}
	return append(out, text[start:])
}

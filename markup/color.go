package markup

import (
	"regexp"
	"strconv"
	"strings"
)

// namedColors are the CSS color keywords the grammar recognizes. Green is
// the CSS value (0, 128, 0), not full green.
var namedColors = map[string][3]float64{
	"black":  {0, 0, 0},
	"white":  {1, 1, 1},
	"red":    {1, 0, 0},
	"green":  {0, 0.5, 0},
	"blue":   {0, 0, 1},
	"yellow": {1, 1, 0},
	"gray":   {0.5, 0.5, 0.5},
	"grey":   {0.5, 0.5, 0.5},
}

var rgbPattern = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)

// ParseColor parses a CSS-like color value: a named color, a 3- or 6-digit
// hex color, or rgb(r,g,b) with each channel clamped to [0,255]. Channels
// are returned in [0,1]. ok is false for anything unparsable; callers then
// inherit the field's base color.
func ParseColor(value string) (r, g, b float64, ok bool) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return 0, 0, 0, false
	}

	if c, found := namedColors[s]; found {
		return c[0], c[1], c[2], true
	}

	if strings.HasPrefix(s, "#") {
		hexv := s[1:]
		if len(hexv) == 3 {
			hexv = string([]byte{hexv[0], hexv[0], hexv[1], hexv[1], hexv[2], hexv[2]})
		}
		if len(hexv) != 6 {
			return 0, 0, 0, false
		}
		n, err := strconv.ParseUint(hexv, 16, 32)
		if err != nil {
			return 0, 0, 0, false
		}
		return float64(n>>16&0xff) / 255, float64(n>>8&0xff) / 255, float64(n&0xff) / 255, true
	}

	if m := rgbPattern.FindStringSubmatch(s); m != nil {
		return clampChannel(m[1]), clampChannel(m[2]), clampChannel(m[3]), true
	}

	return 0, 0, 0, false
}

func clampChannel(s string) float64 {
	n, _ := strconv.Atoi(s)
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return float64(n) / 255
}

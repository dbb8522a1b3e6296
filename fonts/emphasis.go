package fonts

// variants maps each decomposable built-in family to its four styled names,
// indexed by [bold][italic].
var variants = map[string][2][2]string{
	"Helvetica": {
		{"Helvetica", "Helvetica-Oblique"},
		{"Helvetica-Bold", "Helvetica-BoldOblique"},
	},
	"Times-Roman": {
		{"Times-Roman", "Times-Italic"},
		{"Times-Bold", "Times-BoldItalic"},
	},
	"Courier": {
		{"Courier", "Courier-Oblique"},
		{"Courier-Bold", "Courier-BoldOblique"},
	},
}

// Decompose splits a base font name into its family and style flags using
// the fixed table for the three styleable built-in families. Any other name
// is its own single-style family.
func Decompose(name string) (family string, bold, italic bool) {
	for fam, styles := range variants {
		for b := 0; b < 2; b++ {
			for i := 0; i < 2; i++ {
				if styles[b][i] == name {
					return fam, b == 1, i == 1
				}
			}
		}
	}
	return name, false, false
}

// ApplyEmphasis combines a base font with requested bold/italic emphasis.
// The base font's own style is kept and ORed with the request, then the
// composed variant name is re-resolved. Custom fonts have exactly one
// weight/style, so emphasis on them resolves the name unchanged.
func (r *Registry) ApplyEmphasis(base ID, bold, italic bool, fallback string) ID {
	family, baseBold, baseItalic := Decompose(string(base))
	effBold := baseBold || bold
	effItalic := baseItalic || italic

	styles, ok := variants[family]
	if !ok {
		return r.Resolve(string(base), fallback)
	}

	b, i := 0, 0
	if effBold {
		b = 1
	}
	if effItalic {
		i = 1
	}
	return r.Resolve(styles[b][i], fallback)
}

// DrawName splits a resolved font into the family and style strings the
// PDF drawing backend expects: "Helvetica-BoldOblique" becomes
// ("Helvetica", "BI"); custom fonts map to (name, "").
func DrawName(id ID) (family, style string) {
	name := string(id)
	if !base14Set[name] {
		return name, ""
	}
	fam, bold, italic := Decompose(name)
	if fam == "Times-Roman" {
		fam = "Times"
	}
	if bold {
		style += "B"
	}
	if italic {
		style += "I"
	}
	return fam, style
}

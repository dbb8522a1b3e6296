package certstudio

import (
	"github.com/Enonich/CertStudio/fonts"
	"github.com/Enonich/CertStudio/layout"
	"github.com/Enonich/CertStudio/markup"
)

// styledTokens resolves markup tokens into drawable layout tokens. Each text
// token's family override (first comma-separated, quote-stripped name) is
// combined with its bold/italic flags through the registry; absent overrides
// inherit the field's base font and color.
func styledTokens(reg *fonts.Registry, src, baseFont, fallback string, baseColor layout.RGB) []layout.Token {
	var out []layout.Token
	for _, tok := range markup.Tokenize(src) {
		if tok.Newline {
			out = append(out, layout.Token{Newline: true})
			continue
		}
		family := baseFont
		if tok.Style.Family != "" {
			family = markup.PrimaryFamily(tok.Style.Family)
		}
		font := reg.ApplyEmphasis(fonts.ID(family), tok.Style.Bold, tok.Style.Italic, fallback)

		color := baseColor
		if r, g, b, ok := markup.ParseColor(tok.Style.Color); ok {
			color = layout.RGB{R: r, G: g, B: b}
		}

		if tok.Text != "" {
			out = append(out, layout.Token{Text: tok.Text, Font: font, Color: color})
		}
	}
	return out
}

// plainTokens converts plain text into layout tokens, one per newline-split
// segment, all sharing the resolved base font and color.
func plainTokens(reg *fonts.Registry, text, baseFont, fallback string, baseColor layout.RGB) []layout.Token {
	font := reg.Resolve(baseFont, fallback)
	var out []layout.Token
	for _, tok := range markup.PlainTokens(text) {
		if tok.Newline {
			out = append(out, layout.Token{Newline: true})
			continue
		}
		out = append(out, layout.Token{Text: tok.Text, Font: font, Color: baseColor})
	}
	return out
}

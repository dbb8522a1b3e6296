// Package markup parses the constrained inline-HTML grammar used in field
// content into a flat token stream.
//
// Supported elements: b/strong (bold), i/em (italic), br (explicit break),
// font (face/color attributes), span (inline style declarations), and the
// block elements p/div/li, which each end with an implicit line break.
// Unknown elements carry no style and no break but still participate in tag
// nesting. The grammar is deliberately forgiving: unbalanced tags and
// malformed style declarations are tolerated, never errors.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Style is the cumulative markup style in effect at a point in the token
// stream. Family and Color hold raw CSS values; empty means "inherit the
// field's base font/color". Styles are copied when entering a styled scope,
// so a Token owns its style value outright.
type Style struct {
	Bold   bool
	Italic bool
	Family string
	Color  string
}

// Token is a unit of parsed markup: either styled text or a line break.
type Token struct {
	Text    string
	Style   Style
	Newline bool
}

// breakSource records what produced a line break; it drives the collapse
// rules in normalize and is dropped from the public tokens.
type breakSource int

const (
	sourceBlock breakSource = iota // p/div/li boundary
	sourceBR                       // <br>
	sourceText                     // literal newline in character data
)

func (s breakSource) explicit() bool { return s == sourceBR || s == sourceText }

// tagKind is the closed set of recognized element kinds.
type tagKind int

const (
	kindOpaque tagKind = iota
	kindBold
	kindItalic
	kindBreak
	kindFont
	kindSpan
	kindBlock
)

func classify(name string) tagKind {
	switch name {
	case "b", "strong":
		return kindBold
	case "i", "em":
		return kindItalic
	case "br":
		return kindBreak
	case "font":
		return kindFont
	case "span":
		return kindSpan
	case "p", "div", "li":
		return kindBlock
	default:
		return kindOpaque
	}
}

// rawToken is a token before break normalization.
type rawToken struct {
	text    string
	style   Style
	newline bool
	source  breakSource
}

// stackEntry tracks one open element for pop bookkeeping.
type stackEntry struct {
	kind   tagKind
	styled bool
}

// tokenizer walks the HTML token stream maintaining an immutable-per-scope
// style stack: entering a styling element pushes a copy of the current style
// merged with that element's overrides; leaving pops it.
type tokenizer struct {
	tokens []rawToken
	styles []Style
	tags   []stackEntry
}

// delta holds one element's style overrides. Pointer fields distinguish
// "not specified" from "specified as empty", matching attribute presence.
type delta struct {
	bold   bool
	italic bool
	family *string
	color  *string
}

func (t *tokenizer) current() Style { return t.styles[len(t.styles)-1] }

func (t *tokenizer) pushStyle(kind tagKind, d delta) {
	style := t.current()
	if d.bold {
		style.Bold = true
	}
	if d.italic {
		style.Italic = true
	}
	if d.family != nil {
		style.Family = *d.family
	}
	if d.color != nil {
		style.Color = *d.color
	}
	t.styles = append(t.styles, style)
	t.tags = append(t.tags, stackEntry{kind: kind, styled: true})
}

func (t *tokenizer) pushPlain(kind tagKind) {
	t.tags = append(t.tags, stackEntry{kind: kind})
}

func (t *tokenizer) addBreak(source breakSource) {
	t.tokens = append(t.tokens, rawToken{newline: true, source: source})
}

// pop closes the most recently opened element regardless of the end tag's
// name; the forgiving grammar absorbs mismatched tags this way.
func (t *tokenizer) pop() {
	if len(t.tags) == 0 {
		return
	}
	last := t.tags[len(t.tags)-1]
	t.tags = t.tags[:len(t.tags)-1]
	if last.styled && len(t.styles) > 1 {
		t.styles = t.styles[:len(t.styles)-1]
	}
	if last.kind == kindBlock {
		t.addBreak(sourceBlock)
	}
}

func (t *tokenizer) startTag(name string, attrs map[string]string) {
	kind := classify(name)
	switch kind {
	case kindBreak:
		t.addBreak(sourceBR)
		t.pushPlain(kind)
	case kindBold:
		t.pushStyle(kind, delta{bold: true})
	case kindItalic:
		t.pushStyle(kind, delta{italic: true})
	case kindFont:
		d := delta{}
		if v, ok := attrs["face"]; ok {
			d.family = &v
		}
		if v, ok := attrs["color"]; ok {
			d.color = &v
		}
		t.pushStyle(kind, d)
	case kindSpan:
		t.pushStyle(kind, parseStyleAttr(attrs["style"]))
	default:
		t.pushPlain(kind)
	}
}

func (t *tokenizer) text(data string) {
	if data == "" {
		return
	}
	// Editor-introduced indentation between tags: whitespace-only nodes
	// containing a newline or tab never become tokens.
	if strings.TrimSpace(data) == "" && strings.ContainsAny(data, "\n\r\t") {
		return
	}
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.ReplaceAll(data, "\r", "\n")
	parts := strings.Split(data, "\n")
	style := t.current()
	for i, part := range parts {
		if part != "" {
			t.tokens = append(t.tokens, rawToken{text: part, style: style})
		}
		if i < len(parts)-1 {
			t.addBreak(sourceText)
		}
	}
}

// Tokenize parses inline markup into a normalized token stream.
func Tokenize(src string) []Token {
	t := &tokenizer{styles: []Style{{}}}
	z := html.NewTokenizer(strings.NewReader(src))

	for {
		switch z.Next() {
		case html.ErrorToken:
			return normalize(t.tokens)
		case html.TextToken:
			t.text(string(z.Text()))
		case html.StartTagToken:
			tok := z.Token()
			t.startTag(tok.Data, attrMap(tok.Attr))
		case html.SelfClosingTagToken:
			tok := z.Token()
			t.startTag(tok.Data, attrMap(tok.Attr))
			t.pop()
		case html.EndTagToken:
			t.pop()
		}
	}
}

func attrMap(attrs []html.Attribute) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[strings.ToLower(a.Key)] = a.Val
	}
	return m
}

// normalize applies the break collapse rules: leading block-driven breaks
// are dropped, consecutive breaks collapse to one unless both are explicit,
// and trailing block-driven breaks are trimmed.
func normalize(raw []rawToken) []Token {
	var kept []rawToken
	for _, tok := range raw {
		if !tok.newline {
			kept = append(kept, tok)
			continue
		}
		if len(kept) == 0 {
			if tok.source == sourceBlock {
				continue
			}
			// A leading explicit break survives but loses its source, so a
			// second leading break still collapses against it.
			kept = append(kept, rawToken{newline: true, source: sourceBlock})
			continue
		}
		prev := kept[len(kept)-1]
		if prev.newline {
			if prev.source.explicit() && tok.source.explicit() {
				kept = append(kept, tok)
			}
			continue
		}
		kept = append(kept, tok)
	}

	for len(kept) > 0 && kept[len(kept)-1].newline && kept[len(kept)-1].source == sourceBlock {
		kept = kept[:len(kept)-1]
	}

	out := make([]Token, 0, len(kept))
	for _, tok := range kept {
		if tok.newline {
			out = append(out, Token{Newline: true})
		} else {
			out = append(out, Token{Text: tok.text, Style: tok.style})
		}
	}
	return out
}

// PlainTokens tokenizes plain text with no markup: one text token per
// newline-delimited segment with an explicit break between segments.
// Empty segments are kept so blank lines survive; downstream consumers skip
// empty text.
func PlainTokens(text string) []Token {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	out := make([]Token, 0, len(parts)*2-1)
	for i, part := range parts {
		out = append(out, Token{Text: part})
		if i < len(parts)-1 {
			out = append(out, Token{Newline: true})
		}
	}
	return out
}

package jsx

import (
	"strings"

	"github.com/tdewolff/parse/v2/js"
)

// styleObject converts a style={{...}} object literal into an inline CSS
// declaration list. Properties whose value is not a literal are dropped and
// reported.
func styleObject(e *Expr) (string, []Drop) {
	toks, ok := lex(strings.TrimSpace(e.masked))
	toks = unwrapParens(toks)
	if !ok || len(toks) < 2 || toks[0].text != "{" || toks[len(toks)-1].text != "}" {
		return "", []Drop{{Kind: DropAttribute, Source: "style={" + e.Source + "}"}}
	}

	var decls []string
	var drops []Drop
	for _, prop := range splitTopLevel(toks[1:len(toks)-1], ",") {
		if len(prop) == 0 {
			continue
		}
		decl, ok := styleDecl(prop)
		if !ok {
			drops = append(drops, Drop{Kind: DropStyle, Source: joinTokens(prop)})
			continue
		}
		decls = append(decls, decl)
	}
	return strings.Join(decls, "; "), drops
}

func styleDecl(prop []token) (string, bool) {
	if len(prop) < 3 || prop[1].text != ":" {
		return "", false
	}

	var name string
	switch key := prop[0]; {
	case key.tt == js.StringToken:
		name = unquote(key.text)
	case key.word():
		name = cssProperty(key.text)
	default:
		return "", false
	}

	value, ok := styleValue(prop[2:])
	if !ok {
		return "", false
	}
	return name + ": " + value, true
}

func styleValue(toks []token) (string, bool) {
	switch {
	case len(toks) == 1 && toks[0].tt == js.StringToken:
		return unquote(toks[0].text), true
	case len(toks) == 1 && toks[0].tt == js.TemplateToken:
		return unescape(toks[0].text[1 : len(toks[0].text)-1]), true
	case len(toks) == 1 && toks[0].number():
		return toks[0].text, true
	case len(toks) == 2 && toks[0].text == "-" && toks[1].number():
		return "-" + toks[1].text, true
	}
	return "", false
}

// cssProperty maps a camelCase style key to its CSS property name:
// backgroundColor -> background-color, WebkitTransform ->
// -webkit-transform, msFlex -> -ms-flex.
func cssProperty(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c + 'a' - 'A')
			continue
		}
		b.WriteByte(c)
	}

	name := b.String()
	if strings.HasPrefix(name, "ms-") {
		name = "-" + name
	}
	return name
}

func splitTopLevel(toks []token, sep string) [][]token {
	var parts [][]token
	depth, start := 0, 0
	for i, t := range toks {
		if depth == 0 && t.text == sep {
			parts = append(parts, toks[start:i])
			start = i + 1
			continue
		}
		depth += depthDelta(t)
	}
	return append(parts, toks[start:])
}

func joinTokens(toks []token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.text
	}
	return strings.Join(parts, " ")
}

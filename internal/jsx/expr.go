package jsx

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

type token struct {
	tt   js.TokenType
	text string
}

// wordRe matches identifier-like tokens, keywords included.
var wordRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

func (t token) word() bool { return wordRe.MatchString(t.text) }

func (t token) number() bool {
	if t.text == "" || t.text[0] < '0' || t.text[0] > '9' && t.text[0] != '.' {
		return false
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(t.text, "_", ""), 64)
	return err == nil
}

// island returns the index of the markup island a placeholder names.
func (t token) island() (int, bool) {
	if !strings.HasPrefix(t.text, islandPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(t.text[len(islandPrefix):])
	return n, err == nil
}

// lex tokenizes a JavaScript expression, discarding whitespace and
// comments. ok is false when the lexer rejects the input.
func lex(src string) (toks []token, ok bool) {
	l := js.NewLexer(parse.NewInputString(src))
	for {
		tt, data := l.Next()
		switch tt {
		case js.ErrorToken:
			return toks, l.Err() == io.EOF
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		}
		toks = append(toks, token{tt: tt, text: string(data)})
	}
}

type exprKind int

const (
	exprEmpty exprKind = iota
	exprComment
	exprLiteral
	exprMarkup
	exprIdentifier
	exprTernary
	exprList
	exprOther
)

// classification is what an expression contributes to static output.
type classification struct {
	kind  exprKind
	text  string // exprLiteral
	bare  bool   // exprLiteral from `true`, attribute position only
	nodes []Node // exprMarkup
}

func classify(e *Expr) classification {
	src := strings.TrimSpace(e.masked)
	if src == "" {
		return classification{kind: exprEmpty}
	}

	toks, ok := lex(src)
	if !ok {
		return classification{kind: exprOther}
	}
	if len(toks) == 0 {
		return classification{kind: exprComment}
	}

	if c, ok := staticValue(e, toks); ok {
		return c
	}
	if memberChain(toks) {
		return classification{kind: exprIdentifier}
	}
	if topLevel(toks, "?") >= 0 {
		return classification{kind: exprTernary}
	}
	if callsMap(toks) {
		return classification{kind: exprList}
	}
	if i := lastTopLevel(toks, "&&"); i >= 0 {
		if c, ok := staticValue(e, unwrapParens(toks[i+1:])); ok && !c.bare {
			return c
		}
	}
	return classification{kind: exprOther}
}

// staticValue recognises expressions whose output is known without
// evaluation: string, template and numeric literals, and markup.
func staticValue(e *Expr, toks []token) (classification, bool) {
	toks = unwrapParens(toks)
	if len(toks) == 0 {
		return classification{}, false
	}

	if len(toks) == 1 {
		t := toks[0]
		switch {
		case t.tt == js.StringToken:
			return classification{kind: exprLiteral, text: unquote(t.text)}, true
		case t.tt == js.TemplateToken:
			return classification{kind: exprLiteral, text: unescape(t.text[1 : len(t.text)-1])}, true
		case t.number():
			return classification{kind: exprLiteral, text: t.text}, true
		case t.text == "true":
			return classification{kind: exprLiteral, bare: true}, true
		}
		if n, ok := t.island(); ok && n < len(e.islands) {
			return classification{kind: exprMarkup, nodes: e.islands[n]}, true
		}
		return classification{}, false
	}

	if text, ok := templateStatic(toks); ok {
		return classification{kind: exprLiteral, text: text}, true
	}
	return classification{}, false
}

// templateStatic joins the static parts of a single template literal with
// substitutions, dropping each ${...}.
func templateStatic(toks []token) (string, bool) {
	if toks[0].tt != js.TemplateStartToken || toks[len(toks)-1].tt != js.TemplateEndToken {
		return "", false
	}

	var b strings.Builder
	level := 0
	for i, t := range toks {
		switch t.tt {
		case js.TemplateStartToken:
			level++
			if level == 1 {
				b.WriteString(unescape(t.text[1 : len(t.text)-2]))
			}
		case js.TemplateMiddleToken:
			if level == 1 {
				b.WriteString(unescape(t.text[1 : len(t.text)-2]))
			}
		case js.TemplateEndToken:
			level--
			if level == 0 {
				if i != len(toks)-1 {
					return "", false
				}
				b.WriteString(unescape(t.text[1 : len(t.text)-1]))
			}
		}
	}
	return b.String(), true
}

// memberChain reports whether toks is a bare identifier or property path:
// user, user.name, user?.profile.name.
func memberChain(toks []token) bool {
	for i, t := range toks {
		if i%2 == 0 {
			if !t.word() {
				return false
			}
			continue
		}
		if t.text != "." && t.text != "?." {
			return false
		}
	}
	return len(toks)%2 == 1
}

func callsMap(toks []token) bool {
	for i := 0; i+2 < len(toks); i++ {
		if (toks[i].text == "." || toks[i].text == "?.") && toks[i+1].text == "map" && toks[i+2].text == "(" {
			return true
		}
	}
	return false
}

// depthDelta is how a token changes nesting depth.
func depthDelta(t token) int {
	switch t.tt {
	case js.TemplateStartToken:
		return 1
	case js.TemplateEndToken:
		return -1
	}
	switch t.text {
	case "(", "[", "{":
		return 1
	case ")", "]", "}":
		return -1
	}
	return 0
}

func topLevel(toks []token, op string) int {
	depth := 0
	for i, t := range toks {
		if depth == 0 && t.text == op {
			return i
		}
		depth += depthDelta(t)
	}
	return -1
}

func lastTopLevel(toks []token, op string) int {
	found := -1
	depth := 0
	for i, t := range toks {
		if depth == 0 && t.text == op {
			found = i
		}
		depth += depthDelta(t)
	}
	return found
}

// unwrapParens strips parentheses that enclose the whole token run.
func unwrapParens(toks []token) []token {
	for len(toks) >= 2 && toks[0].text == "(" && toks[len(toks)-1].text == ")" {
		depth := 0
		for i, t := range toks {
			depth += depthDelta(t)
			if depth == 0 && i != len(toks)-1 {
				return toks
			}
		}
		toks = toks[1 : len(toks)-1]
	}
	return toks
}

// unquote decodes a quoted JavaScript string literal.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	return unescape(s[1 : len(s)-1])
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\n':
		case 'u':
			if i+4 < len(s) {
				if r, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

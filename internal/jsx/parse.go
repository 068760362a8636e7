package jsx

import (
	"strconv"
	"strings"
)

// islandPrefix names the placeholder identifiers that stand in for markup
// nested inside an expression. "$" keeps them out of ordinary code.
const islandPrefix = "_$jsx"

// parser is a recursive-descent scanner over pseudo-JSX markup. It never
// fails: malformed input degrades to text.
type parser struct {
	src string
	pos int

	// open holds the names of the enclosing elements, innermost last.
	open []string

	// pending is the end tag that terminated the innermost content run.
	// It travels up until the element with that name claims it.
	pending    string
	hasPending bool

	// failed holds the offsets of '{' whose braces never balance. It is
	// shared with island sub-parsers so each offset is scanned once.
	failed map[int]bool
}

func newParser(src string, pos int, failed map[int]bool) *parser {
	if failed == nil {
		failed = make(map[int]bool)
	}
	return &parser{src: src, pos: pos, failed: failed}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek(off int) byte {
	if i := p.pos + off; i < len(p.src) {
		return p.src[i]
	}
	return 0
}

func (p *parser) isOpen(name string) bool {
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i] == name {
			return true
		}
	}
	return false
}

// parseContent reads nodes until EOF, an end tag for an enclosing element,
// or a ')' when stopAtParen is set. hitParen reports the last case; the ')'
// is left unconsumed.
func (p *parser) parseContent(stopAtParen bool) (nodes []Node, hitParen bool) {
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, &Text{Value: text.String()})
			text.Reset()
		}
	}

	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == ')' && stopAtParen:
			flush()
			return nodes, true

		case c == '<' && p.peek(1) == '/':
			start := p.pos
			name, ok := p.readEndTag()
			if !ok {
				p.pos = start + 1
				text.WriteByte('<')
				continue
			}
			if p.isOpen(name) {
				flush()
				p.pending, p.hasPending = name, true
				return nodes, false
			}
			// stray end tag

		case c == '<' && p.peek(1) == '!':
			text.WriteString(p.readDeclaration())

		case c == '<' && (isTagStart(p.peek(1)) || p.peek(1) == '>'):
			flush()
			nodes = appendElement(nodes, p.parseElement())
			if p.hasPending {
				return nodes, false
			}

		case c == '{':
			e, ok := p.parseExpr()
			if !ok {
				text.WriteByte('{')
				p.pos++
				continue
			}
			flush()
			nodes = append(nodes, e)

		default:
			text.WriteByte(c)
			p.pos++
		}
	}

	flush()
	return nodes, false
}

// appendElement adds el to nodes. A component left open by sloppy markup
// becomes self-closing and its would-be children are spliced in after it,
// so substitution never swallows sibling content.
func appendElement(nodes []Node, el *Element) []Node {
	if !IsComponent(el.Name) || el.closed || el.SelfClosing || len(el.Children) == 0 {
		return append(nodes, el)
	}
	children := el.Children
	el.Children = nil
	el.SelfClosing = true
	nodes = append(nodes, el)
	return append(nodes, children...)
}

// parseElement parses from '<' through the matching end tag, or as far as
// the markup allows.
func (p *parser) parseElement() *Element {
	p.pos++ // <
	el := &Element{}

	if p.peek(0) == '>' {
		p.pos++
	} else {
		el.Name = p.readName()
		if !p.parseAttrs(el) {
			return el
		}
	}

	if voidElements[strings.ToLower(el.Name)] {
		el.SelfClosing = true
		return el
	}

	if rawTextElements[strings.ToLower(el.Name)] && !p.exprContent() {
		p.readRawText(el)
		return el
	}

	p.open = append(p.open, el.Name)
	el.Children, _ = p.parseContent(false)
	p.open = p.open[:len(p.open)-1]

	if p.hasPending && p.pending == el.Name {
		el.closed = true
		p.pending, p.hasPending = "", false
	}
	return el
}

// parseAttrs reads attributes up to the end of the start tag. It returns
// true when the tag opened a content run, false for a self-closing tag or
// input that ran out.
func (p *parser) parseAttrs(el *Element) bool {
	for {
		p.skipSpace()
		if p.eof() {
			return false
		}

		switch c := p.src[p.pos]; {
		case c == '/' && p.peek(1) == '>':
			p.pos += 2
			el.SelfClosing = true
			return false

		case c == '>':
			p.pos++
			return true

		case c == '{':
			e, ok := p.parseExpr()
			if !ok {
				p.pos++
				continue
			}
			el.Attrs = append(el.Attrs, Attr{Kind: AttrSpread, Expr: e})

		default:
			name := p.readAttrName()
			if name == "" {
				p.pos++
				continue
			}
			el.Attrs = append(el.Attrs, p.readAttrValue(name))
		}
	}
}

func (p *parser) readAttrValue(name string) Attr {
	attr := Attr{Name: name, Kind: AttrBare}

	save := p.pos
	p.skipSpace()
	if p.peek(0) != '=' {
		p.pos = save
		return attr
	}
	p.pos++
	p.skipSpace()

	switch q := p.peek(0); q {
	case '"', '\'':
		rest := p.src[p.pos+1:]
		end := strings.IndexByte(rest, q)
		if end < 0 {
			attr.Value = rest
			p.pos = len(p.src)
		} else {
			attr.Value = rest[:end]
			p.pos += end + 2
		}
		attr.Kind, attr.Quote = AttrString, q

	case '{':
		if e, ok := p.parseExpr(); ok {
			attr.Kind, attr.Expr = AttrExpr, e
		} else {
			p.pos++
		}

	default:
		start := p.pos
		for !p.eof() && !isSpace(p.src[p.pos]) && p.src[p.pos] != '>' {
			if p.src[p.pos] == '/' && p.peek(1) == '>' {
				break
			}
			p.pos++
		}
		attr.Kind, attr.Value = AttrString, p.src[start:p.pos]
	}
	return attr
}

// readEndTag consumes "</name>" or "</>". ok is false when the text at
// pos is not a well-formed end tag.
func (p *parser) readEndTag() (name string, ok bool) {
	p.pos += 2
	name = p.readName()
	p.skipSpace()
	if p.peek(0) != '>' {
		return "", false
	}
	p.pos++
	return name, true
}

// readDeclaration consumes a comment or doctype and returns it verbatim.
func (p *parser) readDeclaration() string {
	start := p.pos
	rest := p.src[p.pos:]

	end := -1
	if strings.HasPrefix(rest, "<!--") {
		if i := strings.Index(rest[4:], "-->"); i >= 0 {
			end = 4 + i + 3
		}
	} else if i := strings.IndexByte(rest, '>'); i >= 0 {
		end = i + 1
	}
	if end < 0 {
		end = len(rest)
	}
	p.pos += end
	return p.src[start:p.pos]
}

// exprContent reports whether a script or style body is written as a JSX
// expression (<style>{`...`}</style>) instead of raw text.
func (p *parser) exprContent() bool {
	i := p.pos
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	return i < len(p.src) && p.src[i] == '{'
}

// readRawText consumes a script or style body up to its end tag.
func (p *parser) readRawText(el *Element) {
	closing := "</" + strings.ToLower(el.Name)
	rest := p.src[p.pos:]

	i := strings.Index(strings.ToLower(rest), closing)
	if i < 0 {
		el.Children = []Node{&Text{Value: rest}}
		p.pos = len(p.src)
		return
	}
	if i > 0 {
		el.Children = []Node{&Text{Value: rest[:i]}}
	}
	p.pos += i
	if end := strings.IndexByte(p.src[p.pos:], '>'); end >= 0 {
		p.pos += end + 1
	} else {
		p.pos = len(p.src)
	}
	el.closed = true
}

// parseExpr parses a brace-delimited expression starting at '{'. Nested
// markup is parsed into islands. ok is false when the braces never
// balance, in which case pos is unchanged.
func (p *parser) parseExpr() (*Expr, bool) {
	if p.failed[p.pos] {
		return nil, false
	}
	src := p.src
	start := p.pos + 1

	var masked strings.Builder
	var islands [][]Node
	last := start
	prev := byte('{')
	depth := 0

	for i := start; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			i = skipString(src, i)
			prev = c
			continue

		case c == '`':
			i = skipTemplate(src, i)
			prev = c
			continue

		case c == '/' && at(src, i+1) == '*':
			if end := strings.Index(src[i+2:], "*/"); end >= 0 {
				i += end + 4
			} else {
				i = len(src)
			}
			continue

		case c == '/' && at(src, i+1) == '/':
			if end := strings.IndexByte(src[i:], '\n'); end >= 0 {
				i += end
			} else {
				i = len(src)
			}
			continue

		case c == '{' || c == '(' || c == '[':
			depth++

		case c == '}' || c == ')' || c == ']':
			if c == '}' && depth == 0 {
				masked.WriteString(src[last:i])
				p.pos = i + 1
				return &Expr{
					Source:  src[start:i],
					masked:  masked.String(),
					islands: islands,
					start:   start - 1,
					end:     i + 1,
				}, true
			}
			if depth > 0 {
				depth--
			}

		case c == '<' && markupCanStart(prev) && (isTagStart(at(src, i+1)) || at(src, i+1) == '>'):
			sub := newParser(src, i, p.failed)
			el := sub.parseElement()
			masked.WriteString(src[last:i])
			masked.WriteString(islandPrefix + strconv.Itoa(len(islands)))
			islands = append(islands, appendElement(nil, el))
			i = sub.pos
			last = i
			prev = 'x'
			continue
		}

		if !isSpace(c) {
			prev = c
		}
		i++
	}
	p.failed[start-1] = true
	return nil, false
}

// markupCanStart reports whether a '<' following prev begins markup rather
// than a less-than comparison.
func markupCanStart(prev byte) bool {
	return strings.IndexByte("{(,=?:&|[!>;", prev) >= 0
}

func skipString(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}

func skipTemplate(src string, i int) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '`':
			return j + 1
		case '$':
			if at(src, j+1) == '{' {
				j = skipBalanced(src, j+2) - 1
			}
		}
	}
	return len(src)
}

// skipBalanced returns the index just past the '}' closing a substitution
// whose body starts at i.
func skipBalanced(src string, i int) int {
	depth := 0
	for i < len(src) {
		switch c := src[i]; c {
		case '"', '\'':
			i = skipString(src, i)
			continue
		case '`':
			i = skipTemplate(src, i)
			continue
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i + 1
			}
			depth--
		}
		i++
	}
	return len(src)
}

func (p *parser) readName() string {
	start := p.pos
	for !p.eof() && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) readAttrName() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if isSpace(c) || strings.IndexByte(`=>/{"'<`, c) >= 0 {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func at(s string, i int) byte {
	if i >= 0 && i < len(s) {
		return s[i]
	}
	return 0
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameByte(c byte) bool {
	return isTagStart(c) || c >= '0' && c <= '9' || c == '-' || c == '_' || c == '.' || c == ':'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

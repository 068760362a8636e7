package jsx

import (
	"regexp"
	"strings"
)

// DropKind names a construct removed because it cannot be rendered
// statically.
type DropKind string

const (
	DropComment    DropKind = "comment"
	DropIdentifier DropKind = "identifier"
	DropTernary    DropKind = "ternary"
	DropList       DropKind = "list"
	DropExpression DropKind = "expression"
	DropHandler    DropKind = "handler"
	DropRef        DropKind = "ref"
	DropKey        DropKind = "key"
	DropSpread     DropKind = "spread"
	DropAttribute  DropKind = "attribute"
	DropStyle      DropKind = "style-property"
	DropComponent  DropKind = "component"
)

// Drop records one removed construct, for diagnostics.
type Drop struct {
	Kind   DropKind `json:"kind" msgpack:"kind"`
	Source string   `json:"source" msgpack:"source"`
}

// Resolver returns the rendered HTML of a named component. ok is false when
// the name is unknown or must not be expanded here.
type Resolver func(name string) (html string, ok bool)

// blankRunRe matches three or more consecutive line breaks, allowing
// horizontal whitespace on the blank lines.
var blankRunRe = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

// Render produces the static HTML fragment for c. Component references are
// looked up through resolve, which may be nil.
func (c *Component) Render(resolve Resolver) (string, []Drop) {
	r := &renderer{resolve: resolve}
	r.nodes(c.Nodes)
	out := blankRunRe.ReplaceAllString(r.buf.String(), "\n\n")
	return strings.TrimSpace(out), r.drops
}

type renderer struct {
	buf     strings.Builder
	resolve Resolver
	drops   []Drop
}

func (r *renderer) drop(kind DropKind, source string) {
	r.drops = append(r.drops, Drop{Kind: kind, Source: source})
}

func (r *renderer) nodes(ns []Node) {
	for _, n := range ns {
		switch n := n.(type) {
		case *Text:
			r.buf.WriteString(n.Value)
		case *Expr:
			r.expr(n)
		case *Element:
			r.element(n)
		}
	}
}

func (r *renderer) expr(e *Expr) {
	c := classify(e)
	switch c.kind {
	case exprEmpty:
	case exprLiteral:
		if !c.bare {
			r.buf.WriteString(c.text)
		}
	case exprMarkup:
		r.nodes(c.nodes)
	case exprComment:
		r.drop(DropComment, "{"+e.Source+"}")
	case exprIdentifier:
		r.drop(DropIdentifier, "{"+e.Source+"}")
	case exprTernary:
		r.drop(DropTernary, "{"+e.Source+"}")
	case exprList:
		r.drop(DropList, "{"+e.Source+"}")
	default:
		r.drop(DropExpression, "{"+e.Source+"}")
	}
}

func (r *renderer) element(el *Element) {
	if el.Name == "" {
		r.nodes(el.Children)
		return
	}

	if IsComponent(el.Name) {
		if r.resolve != nil {
			if html, ok := r.resolve(el.Name); ok {
				r.buf.WriteString(html)
				return
			}
		}
		if len(el.Children) == 0 {
			r.drop(DropComponent, "<"+el.Name+" />")
			return
		}
		// Unknown wrappers keep their content.
		r.drop(DropComponent, "<"+el.Name+">")
		r.nodes(el.Children)
		return
	}

	tag := htmlTag(el.Name)
	r.buf.WriteString("<" + tag)
	for _, a := range el.Attrs {
		r.attr(a)
	}

	if voidElements[strings.ToLower(tag)] {
		r.buf.WriteString(" />")
		return
	}
	r.buf.WriteString(">")
	r.nodes(el.Children)
	r.buf.WriteString("</" + tag + ">")
}

// htmlTag strips a namespace object from animated elements:
// motion.div -> div.
func htmlTag(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

var attrNames = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

func isHandler(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on") && name[2] >= 'A' && name[2] <= 'Z'
}

func (r *renderer) attr(a Attr) {
	if a.Kind == AttrSpread {
		r.drop(DropSpread, "{"+a.Expr.Source+"}")
		return
	}

	switch {
	case a.Name == "key":
		r.drop(DropKey, a.Name)
		return
	case a.Name == "ref":
		r.drop(DropRef, a.Name)
		return
	case isHandler(a.Name):
		r.drop(DropHandler, a.Name)
		return
	}

	name := a.Name
	if mapped, ok := attrNames[name]; ok {
		name = mapped
	}

	switch a.Kind {
	case AttrBare:
		r.buf.WriteString(" " + name)

	case AttrString:
		r.writeAttr(name, a.Value, a.Quote)

	case AttrExpr:
		if a.Name == "style" {
			css, drops := styleObject(a.Expr)
			r.drops = append(r.drops, drops...)
			if css != "" {
				r.writeAttr(name, css, 0)
			}
			return
		}

		c := classify(a.Expr)
		switch {
		case c.kind == exprLiteral && c.bare:
			r.buf.WriteString(" " + name)
		case c.kind == exprLiteral:
			value := c.text
			if name == "class" {
				value = strings.Join(strings.Fields(value), " ")
			}
			r.writeAttr(name, value, 0)
		default:
			r.drop(DropAttribute, a.Name+"={"+a.Expr.Source+"}")
		}
	}
}

// writeAttr emits name="value", switching to single quotes when the value
// itself holds a double quote.
func (r *renderer) writeAttr(name, value string, quote byte) {
	if quote == 0 {
		quote = '"'
		if strings.IndexByte(value, '"') >= 0 && strings.IndexByte(value, '\'') < 0 {
			quote = '\''
		}
	}
	r.buf.WriteString(" " + name + "=")
	r.buf.WriteByte(quote)
	r.buf.WriteString(value)
	r.buf.WriteByte(quote)
}

// Package jsx converts pseudo-JSX component source into static HTML.
//
// Source is scanned into a small tree of elements, text and expression
// islands. Rendering keeps what is known without running any code
// (literal text, literal attribute values, style objects with literal
// values, markup guarded by &&) and drops the rest: identifiers,
// ternaries, list rendering, event handlers, refs and spreads.
package jsx

// Component is a parsed component body.
type Component struct {
	Nodes []Node
	// Returned is set when the markup was found in a complete return or
	// arrow body rather than taken from a truncated return or the whole
	// file.
	Returned bool
}

// Parse extracts the markup of a component source file. Module
// boilerplate is removed first; if no returned markup can be located the
// remaining text is parsed as a whole. Parse never fails.
func Parse(src string) *Component {
	body := stripBoilerplate(src)

	p := newParser(body, 0, nil)
	whole, _ := p.parseContent(false)

	if nodes, complete, ok := returnedMarkup(body, whole, p.failed); ok {
		return &Component{Nodes: nodes, Returned: complete}
	}
	return &Component{Nodes: whole}
}

// Rewrite is Parse followed by Render with no component resolution.
// Component references are dropped.
func Rewrite(src string) string {
	html, _ := Parse(src).Render(nil)
	return html
}

// References lists the distinct component names c refers to, in first-use
// order. References inside expression islands are included.
func (c *Component) References() []string {
	var names []string
	seen := make(map[string]bool)

	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			switch n := n.(type) {
			case *Element:
				if IsComponent(n.Name) && !seen[n.Name] {
					seen[n.Name] = true
					names = append(names, n.Name)
				}
				walk(n.Children)
			case *Expr:
				for _, island := range n.islands {
					walk(island)
				}
			}
		}
	}
	walk(c.Nodes)

	return names
}

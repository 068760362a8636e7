package jsx

import (
	"regexp"
	"strings"
)

var (
	// importRe matches the first line of an import statement.
	importRe = regexp.MustCompile(`^\s*import\b`)

	// exportOnlyRe matches export lines that carry no markup:
	// "export default App;", "export { A, B } from './x';", "export * from ...".
	exportOnlyRe = regexp.MustCompile(`^\s*export\s+(?:default\s+[A-Za-z_$][\w$]*\s*;?\s*$|\{[^}]*\}[^;]*;?\s*$|\*)`)

	// exportKeywordRe matches a leading export or export default keyword.
	exportKeywordRe = regexp.MustCompile(`^(\s*)export\s+(?:default\s+)?`)

	// wrapperRe matches a component header that opens a function body on
	// its own line: "function App() {", "const Hero = ({ title }: Props) => {".
	wrapperRe = regexp.MustCompile(`^\s*(?:(?:async\s+)?function\s*[A-Za-z_$]?[\w$]*\s*(?:<[^>]*>)?\s*\(.*\)\s*(?::[^{]+)?\{\s*$|(?:const|let|var)\s+[A-Za-z_$][\w$]*\s*(?::[^=]+)?=\s*(?:async\s+)?(?:\(.*\)|[A-Za-z_$][\w$]*)\s*(?::[^=]+)?=>\s*\{\s*$)`)

	// closingRe matches the line that closes a wrapper body.
	closingRe = regexp.MustCompile(`^\s*\}\)?;?\s*$`)

	// returnRe locates markup returned from a function or arrow body.
	returnRe = regexp.MustCompile(`(?:\breturn|=>)\s*(\()?\s*<[A-Za-z>]`)
)

// stripBoilerplate removes module-level lines that never render: imports,
// bare exports and function wrapper headers with their closing braces.
// Export keywords in front of declarations are removed, the declaration
// kept.
func stripBoilerplate(src string) string {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	wrappers := 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if importRe.MatchString(line) {
			// Multi-line import lists end at the closing brace.
			if strings.Contains(line, "{") && !strings.Contains(line, "}") {
				for i+1 < len(lines) && !strings.Contains(lines[i], "}") {
					i++
				}
			}
			continue
		}
		if exportOnlyRe.MatchString(line) {
			continue
		}

		line = exportKeywordRe.ReplaceAllString(line, "$1")
		if wrapperRe.MatchString(line) {
			wrappers++
			continue
		}
		out = append(out, line)
	}

	for j := len(out) - 1; j >= 0 && wrappers > 0; j-- {
		if strings.TrimSpace(out[j]) == "" {
			continue
		}
		if !closingRe.MatchString(out[j]) {
			break
		}
		out = append(out[:j], out[j+1:]...)
		wrappers--
	}

	return strings.Join(out, "\n")
}

// returnedMarkup finds the markup a component returns. Every
// "return (" / "=> (" followed by markup is parsed up to its closing
// parenthesis and the longest well-formed candidate wins, so nested
// callbacks inside the main return never shadow it. Arrow bodies written
// inside a markup expression ({items.map(i => (...))}) are never
// candidates.
//
// A "return (" that never closes is the truncated main body: its markup
// runs to the end of src and wins outright, with complete set to false.
// whole is the parse of all of src, used to locate markup expressions.
func returnedMarkup(src string, whole []Node, failed map[int]bool) (nodes []Node, complete, ok bool) {
	var best []Node
	bestLen := -1
	var spans [][2]int
	spansReady := false

	for _, m := range returnRe.FindAllStringSubmatchIndex(src, -1) {
		arrow := strings.HasPrefix(src[m[0]:], "=>")
		if arrow {
			if !spansReady {
				spans, spansReady = islandSpans(whole, false, nil), true
			}
			if insideSpan(spans, m[0]) {
				continue
			}
		}

		var cand []Node
		var start, end int

		if m[2] >= 0 {
			start = m[3]
			p := newParser(src, start, failed)
			var closed bool
			cand, closed = p.parseContent(true)
			if !closed {
				if !arrow {
					return cand, false, true
				}
				continue
			}
			end = p.pos
		} else {
			start = m[1] - 2
			p := newParser(src, start, failed)
			el := p.parseElement()
			if !el.closed && !el.SelfClosing {
				continue
			}
			cand = appendElement(nil, el)
			end = p.pos
		}

		if end-start > bestLen {
			best, bestLen = cand, end-start
		}
	}

	return best, true, bestLen >= 0
}

// islandSpans collects the source ranges of expressions written inside
// markup: element children and attribute values. Expressions at the top
// level are plain code and are skipped.
func islandSpans(nodes []Node, inMarkup bool, spans [][2]int) [][2]int {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Expr:
			if inMarkup {
				spans = append(spans, [2]int{n.start, n.end})
			}
		case *Element:
			for _, a := range n.Attrs {
				if a.Expr != nil {
					spans = append(spans, [2]int{a.Expr.start, a.Expr.end})
				}
			}
			spans = islandSpans(n.Children, true, spans)
		}
	}
	return spans
}

func insideSpan(spans [][2]int, pos int) bool {
	for _, s := range spans {
		if pos > s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// dangerousTags are elements that never survive sanitisation.
var dangerousTags = []string{"script", "iframe", "object", "embed"}

// eventHandlerRe matches on* event handler attributes.
var eventHandlerRe = regexp.MustCompile(`(?i)<[^>]*\s+on\w+\s*=`)

// Policies are built once; bluemonday policies are safe for concurrent use
// after construction.
var (
	policy         = newPolicy()
	documentPolicy = newDocumentPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// page structure generated components lean on
	p.AllowElements("section", "header", "footer", "nav", "main", "article", "aside", "figure", "figcaption")

	// forms render but cannot submit anywhere
	p.AllowElements("form", "input", "button", "label", "select", "option", "textarea")
	p.AllowAttrs("type", "name", "placeholder", "value", "for", "disabled", "checked", "rows", "cols", "min", "max", "step", "required").
		OnElements("input", "button", "label", "select", "option", "textarea")

	// inline SVG icons; attribute names arrive lowercased from the parser
	p.AllowElements("svg", "path", "circle", "rect", "line", "polyline", "polygon", "g", "defs", "lineargradient", "stop")
	p.AllowAttrs("viewbox", "xmlns", "fill", "stroke", "stroke-width", "stroke-linecap", "stroke-linejoin",
		"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2", "width", "height", "points", "offset", "stop-color").
		OnElements("svg", "path", "circle", "rect", "line", "polyline", "polygon", "g", "lineargradient", "stop")

	p.AllowAttrs("style").Globally()
	p.AllowAttrs("dir", "lang").Globally()
	// Tailwind classes carry ':' '/' '[' and '.'; any class string is fine.
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("id").Globally()

	return p
}

// newDocumentPolicy keeps what rendered markdown needs on the inspect page:
// chroma classes, heading anchors, code block data attributes and mermaid
// sources.
func newDocumentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "id").Globally()
	p.AllowDataAttributes()
	return p
}

// Document sanitises rendered markdown served on the service's own origin.
func Document(html []byte) []byte {
	return documentPolicy.SanitizeBytes(html)
}

// Body sanitises a preview body fragment. The document shell is never
// passed through here: its runtime script must survive.
func Body(html string) string {
	return policy.Sanitize(html)
}

// ContainsDangerousContent reports whether html carries an element or
// inline handler that Body would remove. Callers use it to flag fragments
// when sanitising is off.
func ContainsDangerousContent(html string) bool {
	lower := strings.ToLower(html)
	for _, tag := range dangerousTags {
		if strings.Contains(lower, "<"+tag) {
			return true
		}
	}
	return eventHandlerRe.MatchString(html)
}

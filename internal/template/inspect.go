package template

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
)

// InspectData holds everything the inspect page shows about one build.
type InspectData struct {
	Version string
	// Root is the root component name, or "" when the fallback order was
	// used.
	Root        string
	Order       []string
	Empty       bool
	Duplicates  []string
	Components  []ComponentView
	Stylesheets []SourceView
	Documents   []DocumentView
	// MermaidSrc is loaded when a document contains a diagram.
	MermaidSrc     string
	ChromaLightCSS string
	ChromaDarkCSS  string
	DefaultTheme   string
}

// ComponentView is one component section.
type ComponentView struct {
	Name     string
	File     string
	Role     string
	Source   htmltemplate.HTML
	Fragment htmltemplate.HTML
	Drops    []DropView
	// Scripted is set when the fragment carries scripts or inline
	// handlers that reach the document unsanitised.
	Scripted bool
}

// DropView is one dropped construct.
type DropView struct {
	Kind   string
	Source string
	Note   string
}

// SourceView is a highlighted file.
type SourceView struct {
	Name   string
	Source htmltemplate.HTML
}

// DocumentView is a rendered markdown document.
type DocumentView struct {
	Name       string
	Title      string
	Content    htmltemplate.HTML
	HasMermaid bool
	Headings   []HeadingView
	CodeBlocks int
	Languages  []string
}

// HeadingView is one entry of a document's table of contents.
type HeadingView struct {
	Level int
	Text  string
	ID    string
}

// ErrorData holds data for error pages.
type ErrorData struct {
	Version      string
	StatusCode   int
	Message      string
	DefaultTheme string
}

// Renderer renders the service's own pages.
type Renderer struct{}

// NewRenderer creates a template renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderInspect produces the diagnostics page for a build.
func (r *Renderer) RenderInspect(data InspectData) []byte {
	var buf bytes.Buffer

	theme := data.DefaultTheme
	if theme == "" {
		theme = "auto"
	}
	mode := "fallback"
	if data.Root != "" {
		mode = "root"
	}

	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html lang="en"
      data-theme="%s"
      data-jsxpreview-version="%s"
      data-mode="%s"
      data-component-count="%d"
      data-empty="%v">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Inspect — jsxpreview</title>
  <link rel="icon" type="image/svg+xml" href="data:image/svg+xml,%s">
  <style>
`,
		html.EscapeString(theme),
		html.EscapeString(data.Version),
		mode,
		len(data.Components),
		data.Empty,
		faviconSVG,
	)

	writeThemeCSS(&buf, data.ChromaLightCSS, data.ChromaDarkCSS)
	writeLayoutCSS(&buf)

	fmt.Fprintf(&buf, `
  </style>
</head>
<body>
`)

	writeInspectHeader(&buf, data, mode)

	fmt.Fprintf(&buf, "  <main id=\"jp-content\">\n")
	if data.Empty {
		fmt.Fprintf(&buf, "    <p class=\"jp-warning\" id=\"jp-empty\">No component files: the preview document is empty.</p>\n")
	}
	if len(data.Duplicates) > 0 {
		fmt.Fprintf(&buf, "    <p class=\"jp-warning\" id=\"jp-duplicates\">Duplicate component names, first file kept: %s</p>\n",
			html.EscapeString(strings.Join(data.Duplicates, ", ")))
	}
	if len(data.Order) > 0 {
		fmt.Fprintf(&buf, "    <p id=\"jp-order\">Document order: %s</p>\n", html.EscapeString(strings.Join(data.Order, " → ")))
	}

	for _, c := range data.Components {
		writeComponent(&buf, c)
	}
	for _, s := range data.Stylesheets {
		fmt.Fprintf(&buf, `    <details class="jp-section" data-kind="stylesheet">
      <summary>%s</summary>
      <div>%s</div>
    </details>
`, html.EscapeString(s.Name), s.Source)
	}

	hasMermaid := false
	for _, d := range data.Documents {
		hasMermaid = hasMermaid || d.HasMermaid
		title := d.Title
		if title == "" {
			title = d.Name
		}
		fmt.Fprintf(&buf, `    <details class="jp-section" data-kind="document" data-has-mermaid="%v" open>
      <summary>%s <span class="jp-role">%s</span></summary>
      <div>
`, d.HasMermaid, html.EscapeString(title), html.EscapeString(d.Name))
		writeDocumentOutline(&buf, d)
		fmt.Fprintf(&buf, `        <div class="jp-document">%s</div>
      </div>
    </details>
`, d.Content)
	}
	fmt.Fprintf(&buf, "  </main>\n")

	writeScripts(&buf)

	if hasMermaid && data.MermaidSrc != "" {
		fmt.Fprintf(&buf, "  <script src=\"%s\"></script>\n", html.EscapeString(data.MermaidSrc))
		fmt.Fprintf(&buf, "  <script>mermaid.initialize({startOnLoad: true, theme: 'default'});</script>\n")
	}

	fmt.Fprintf(&buf, "</body>\n</html>\n")

	return buf.Bytes()
}

func writeInspectHeader(buf *bytes.Buffer, data InspectData, mode string) {
	root := data.Root
	if root == "" {
		root = "none"
	}
	fmt.Fprintf(buf, `  <header id="jp-header">
    <div class="jp-meta">
      <span id="jp-mode">%s</span>
      <span id="jp-root">root: %s</span>
      <span id="jp-components">%s</span>
      <span id="jp-stylesheets">%s</span>
    </div>
    <div class="jp-controls">
      <button id="jp-expand-toggle" title="Expand or collapse all" data-state="collapsed">&#x2195;</button>
      <button id="jp-theme-toggle" title="Toggle theme">&#x25D1;</button>
    </div>
  </header>
`,
		mode,
		html.EscapeString(root),
		plural(len(data.Components), "component"),
		plural(len(data.Stylesheets), "stylesheet"),
	)
}

func writeComponent(buf *bytes.Buffer, c ComponentView) {
	open := ""
	if c.Role != "unused" {
		open = " open"
	}
	fmt.Fprintf(buf, `    <details class="jp-section" data-kind="component" data-component="%s" data-drop-count="%d"%s>
      <summary>%s <span class="jp-role" data-role="%s">%s</span></summary>
      <div>
        <p>%s</p>
`,
		html.EscapeString(c.Name), len(c.Drops), open,
		html.EscapeString(c.Name), html.EscapeString(c.Role), html.EscapeString(c.Role),
		html.EscapeString(c.File),
	)

	if c.Scripted {
		fmt.Fprintf(buf, "        <p class=\"jp-warning\" data-scripted>Fragment carries scripts or inline handlers; run with --sanitize to strip them.</p>\n")
	}

	if len(c.Drops) > 0 {
		fmt.Fprintf(buf, "        <ul class=\"jp-drops\">\n")
		for _, d := range c.Drops {
			note := ""
			if d.Note != "" {
				note = " <em>" + html.EscapeString(d.Note) + "</em>"
			}
			fmt.Fprintf(buf, "          <li data-kind=\"%s\">%s: <code>%s</code>%s</li>\n",
				html.EscapeString(d.Kind), html.EscapeString(d.Kind), html.EscapeString(d.Source), note)
		}
		fmt.Fprintf(buf, "        </ul>\n")
	}

	fmt.Fprintf(buf, `        %s
        <div class="jp-fragment">%s</div>
      </div>
    </details>
`, c.Source, c.Fragment)
}

// writeDocumentOutline writes a document's counts and, when it has
// headings, a table of contents linking to their anchors.
func writeDocumentOutline(buf *bytes.Buffer, d DocumentView) {
	stats := plural(len(d.Headings), "heading") + ", " + plural(d.CodeBlocks, "code block")
	if len(d.Languages) > 0 {
		stats += " (" + strings.Join(d.Languages, ", ") + ")"
	}
	fmt.Fprintf(buf, "        <p class=\"jp-doc-stats\">%s</p>\n", html.EscapeString(stats))

	if len(d.Headings) == 0 {
		return
	}
	fmt.Fprintf(buf, "        <nav class=\"jp-toc\"><ul>\n")
	for _, h := range d.Headings {
		if h.ID == "" {
			fmt.Fprintf(buf, "          <li data-level=\"%d\">%s</li>\n", h.Level, html.EscapeString(h.Text))
			continue
		}
		fmt.Fprintf(buf, "          <li data-level=\"%d\"><a href=\"#%s\">%s</a></li>\n",
			h.Level, html.EscapeString(h.ID), html.EscapeString(h.Text))
	}
	fmt.Fprintf(buf, "        </ul></nav>\n")
}

// RenderError produces an error page.
func (r *Renderer) RenderError(data ErrorData) []byte {
	var buf bytes.Buffer

	theme := data.DefaultTheme
	if theme == "" {
		theme = "auto"
	}

	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html lang="en" data-theme="%s" data-jsxpreview-version="%s">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Error — jsxpreview</title>
  <link rel="icon" type="image/svg+xml" href="data:image/svg+xml,%s">
  <style>
`,
		html.EscapeString(theme),
		html.EscapeString(data.Version),
		faviconSVG,
	)

	writeLayoutCSS(&buf)

	fmt.Fprintf(&buf, `
  </style>
</head>
<body>
  <main>
    <div id="jp-error" data-status-code="%d">
      <h1>%d %s</h1>
      <p>%s</p>
      <p><a href="/">Back to the editor</a></p>
    </div>
  </main>
</body>
</html>
`,
		data.StatusCode,
		data.StatusCode, html.EscapeString(statusText(data.StatusCode)),
		html.EscapeString(data.Message),
	)

	return buf.Bytes()
}

func statusText(code int) string {
	switch code {
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 413:
		return "Payload Too Large"
	case 415:
		return "Unsupported Media Type"
	default:
		return "Error"
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

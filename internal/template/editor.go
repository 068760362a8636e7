package template

import (
	"bytes"
	"fmt"
	"html"
)

// starterProject seeds the editor so the first load shows a document.
const starterProject = `[
  {
    "name": "src/App.tsx",
    "content": "export default function App() {\n  return (\n    <main className=\"min-h-screen p-8\">\n      <Header />\n    </main>\n  );\n}\n"
  },
  {
    "name": "src/components/Header.tsx",
    "content": "export default function Header() {\n  return <h1 className=\"text-3xl font-bold\">مرحبا</h1>;\n}\n"
  }
]`

// RenderEditor produces the live editor page for GET /. The textarea holds
// the file set as JSON; live.js streams it over the live channel and loads
// each document into the sandboxed frame.
func (r *Renderer) RenderEditor(version string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html lang="en" data-theme="auto" data-jsxpreview-version="%s">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>jsxpreview</title>
  <link rel="icon" type="image/svg+xml" href="data:image/svg+xml,%s">
  <link rel="stylesheet" href="/_preview/editor.css">
</head>
<body>
  <header id="jp-header">
    <div class="jp-meta">
      <strong>jsxpreview</strong>
      <span id="jp-status" data-state="connecting">connecting</span>
    </div>
    <div class="jp-controls">
      <button id="jp-inspect" title="Open diagnostics">Inspect</button>
    </div>
  </header>
  <div class="jp-editor">
    <textarea id="jp-files" spellcheck="false" aria-label="Project files (JSON)">%s</textarea>
    <iframe id="jp-frame" title="Preview" sandbox="allow-scripts"></iframe>
  </div>
  <form id="jp-inspect-form" method="post" action="/inspect" target="_blank" hidden>
    <input type="hidden" name="files">
  </form>
  <script src="/_preview/live.js"></script>
</body>
</html>
`,
		html.EscapeString(version),
		faviconSVG,
		html.EscapeString(starterProject),
	)

	return buf.Bytes()
}

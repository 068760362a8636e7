package embed

import "embed"

// Assets contains the editor's static assets (live.js, editor.css).
// Copy mermaid.min.js in beside them before building to render diagrams
// on the inspect page; without it the diagrams stay as source.
//
//go:embed *.js *.css
var Assets embed.FS

package render

import (
	"bytes"
	gohtml "html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// ChromaHighlighting is a goldmark extension that syntax-highlights fenced
// code blocks with the same chroma classes and wrapper as CodeRenderer.
type ChromaHighlighting struct{}

func (e *ChromaHighlighting) Extend(md goldmark.Markdown) {
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&chromaRenderer{
				formatter: chromahtml.New(chromahtml.WithClasses(true)),
			}, 500),
		),
	)
}

type chromaRenderer struct {
	formatter *chromahtml.Formatter
}

func (r *chromaRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *chromaRenderer) renderFencedCodeBlock(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)

	lang := ""
	if n.Info != nil {
		lang = string(n.Language(source))
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	highlighted, err := highlight(r.formatter, code.String(), lang)
	if err != nil {
		return ast.WalkStop, err
	}

	_, _ = w.WriteString(`<div class="jp-code-block" data-language="`)
	_, _ = w.WriteString(gohtml.EscapeString(lang))
	_, _ = w.WriteString("\">\n")
	if lang != "" {
		_, _ = w.WriteString(`<div class="jp-code-header"><span class="jp-code-language">`)
		_, _ = w.WriteString(gohtml.EscapeString(lang))
		_, _ = w.WriteString("</span></div>\n")
	}
	_, _ = w.Write(highlighted)
	_, _ = w.WriteString("\n</div>")

	return ast.WalkContinue, nil
}

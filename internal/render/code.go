package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Chroma styles the inspect page ships CSS for.
const (
	StyleLight = "github"
	StyleDark  = "github-dark"
)

// CodeRenderer renders component sources and fragments with syntax
// highlighting.
type CodeRenderer struct {
	formatter *chromahtml.Formatter
	plain     *chromahtml.Formatter
}

// NewCodeRenderer creates a code renderer using chroma CSS classes.
func NewCodeRenderer() *CodeRenderer {
	return &CodeRenderer{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithLineNumbers(true),
		),
		plain: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Render highlights a source file and wraps it in a labelled block.
func (r *CodeRenderer) Render(source []byte, language string) ([]byte, error) {
	code := string(source)
	lineCount := strings.Count(code, "\n")
	if len(code) > 0 && code[len(code)-1] != '\n' {
		lineCount++
	}

	highlighted, err := highlight(r.formatter, code, language)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<div class="jp-code-block" data-language="%s" data-line-count="%d">`, html.EscapeString(language), lineCount)
	fmt.Fprintf(&buf, "\n  <div class=\"jp-code-header\">")
	fmt.Fprintf(&buf, `<span class="jp-code-language">%s</span>`, html.EscapeString(language))
	fmt.Fprintf(&buf, "</div>\n")
	buf.Write(highlighted)
	fmt.Fprintf(&buf, "\n</div>")

	return buf.Bytes(), nil
}

// Fragment highlights generated HTML without line numbers or a header.
func (r *CodeRenderer) Fragment(fragment string) ([]byte, error) {
	return highlight(r.plain, fragment, "html")
}

// CSS returns the stylesheet for the chroma classes Render emits, in the
// named chroma style.
func (r *CodeRenderer) CSS(style string) (string, error) {
	var buf bytes.Buffer
	if err := r.formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("write chroma css: %w", err)
	}
	return buf.String(), nil
}

func highlight(f *chromahtml.Formatter, code, language string) ([]byte, error) {
	iterator, err := lexerFor(language).Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("tokenize code: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Format(&buf, styles.Get(StyleLight), iterator); err != nil {
		return nil, fmt.Errorf("format code: %w", err)
	}
	return buf.Bytes(), nil
}

func lexerFor(language string) chroma.Lexer {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// RenderPlaintext renders plain text content as monospace pre-formatted text.
func RenderPlaintext(source []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<pre><code>")
	buf.WriteString(html.EscapeString(string(source)))
	buf.WriteString("</code></pre>")
	return buf.Bytes()
}

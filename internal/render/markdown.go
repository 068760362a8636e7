package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	gmermaid "go.abhg.dev/goldmark/mermaid"
)

// MarkdownMeta holds metadata extracted during rendering.
type MarkdownMeta struct {
	HasMermaid     bool
	CodeBlockCount int
	Languages      []string // info-string languages in document order
	Headings       []Heading
	Title          string // from first H1 or frontmatter
}

// Heading is one heading of a rendered document.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// MarkdownRenderer renders the markdown documents shipped alongside a
// project (README, notes) for the inspect page.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a markdown renderer with GFM, chroma
// highlighting and mermaid diagrams.
func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			&ChromaHighlighting{},
			&gmermaid.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &MarkdownRenderer{md: md}
}

// Render converts markdown source to HTML and extracts metadata.
func (r *MarkdownRenderer) Render(source []byte) ([]byte, *MarkdownMeta, error) {
	content, title := stripFrontmatter(source)

	var buf bytes.Buffer
	reader := text.NewReader(content)
	doc := r.md.Parser().Parse(reader)

	meta := &MarkdownMeta{Title: title}
	extractMeta(doc, content, meta)

	if err := r.md.Renderer().Render(&buf, content, doc); err != nil {
		return nil, nil, fmt.Errorf("render markdown: %w", err)
	}

	return buf.Bytes(), meta, nil
}

// extractMeta walks the AST to collect headings and code block languages,
// and to detect mermaid.
func extractMeta(doc ast.Node, source []byte, meta *MarkdownMeta) {
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			var text strings.Builder
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					text.Write(t.Segment.Value(source))
				}
			}
			id := ""
			if idAttr, ok := node.AttributeString("id"); ok {
				if idBytes, ok := idAttr.([]byte); ok {
					id = string(idBytes)
				}
			}
			meta.Headings = append(meta.Headings, Heading{
				Level: node.Level,
				Text:  text.String(),
				ID:    id,
			})
			if meta.Title == "" && node.Level == 1 {
				meta.Title = text.String()
			}

		case *ast.FencedCodeBlock:
			meta.CodeBlockCount++
			lang := ""
			if node.Info != nil {
				lang = string(node.Language(source))
			}
			meta.Languages = append(meta.Languages, lang)

		default:
			// mermaid transforms fenced blocks into its own node kind
			if n.Kind() == gmermaid.Kind {
				meta.HasMermaid = true
			}
		}

		return ast.WalkContinue, nil
	})
}

var frontmatterRe = regexp.MustCompile(`(?s)\A---\n(.+?)\n---\n`)

// stripFrontmatter removes YAML frontmatter and extracts the title field.
func stripFrontmatter(source []byte) ([]byte, string) {
	match := frontmatterRe.FindSubmatch(source)
	if match == nil {
		return source, ""
	}

	title := ""
	for _, line := range strings.Split(string(match[1]), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "title:") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "title:"))
			title = strings.Trim(title, "\"'")
			break
		}
	}

	return source[len(match[0]):], title
}

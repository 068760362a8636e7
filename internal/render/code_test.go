package render

import (
	"strings"
	"testing"
)

func TestCodeRenderer_TSX(t *testing.T) {
	r := NewCodeRenderer()
	source := []byte("export default function App() {\n  return <main className=\"p-4\" />;\n}\n")
	html, err := r.Render(source, "tsx")
	if err != nil {
		t.Fatal(err)
	}

	s := string(html)
	if !strings.Contains(s, `class="jp-code-block"`) {
		t.Error("missing jp-code-block class")
	}
	if !strings.Contains(s, `data-language="tsx"`) {
		t.Error("missing data-language attribute")
	}
	if !strings.Contains(s, `data-line-count="3"`) {
		t.Error("missing or wrong data-line-count")
	}
	if !strings.Contains(s, `class="jp-code-language"`) {
		t.Error("missing language label")
	}
	if !strings.Contains(s, "chroma") {
		t.Error("expected chroma class-based highlighting")
	}
}

func TestCodeRenderer_UnknownLanguage(t *testing.T) {
	r := NewCodeRenderer()
	html, err := r.Render([]byte("some unknown content\n"), "")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(html), "jp-code-block") {
		t.Error("should still wrap in code block")
	}
}

func TestCodeRenderer_LineCount(t *testing.T) {
	r := NewCodeRenderer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single line no newline", "hello", `data-line-count="1"`},
		{"single line with newline", "hello\n", `data-line-count="1"`},
		{"two lines with newline", "a\nb\n", `data-line-count="2"`},
		{"two lines no trailing newline", "a\nb", `data-line-count="2"`},
		{"empty", "", `data-line-count="0"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			html, err := r.Render([]byte(tc.input), "text")
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(html), tc.want) {
				t.Errorf("got %s, want %s in output", string(html), tc.want)
			}
		})
	}
}

func TestCodeRenderer_Fragment(t *testing.T) {
	r := NewCodeRenderer()
	html, err := r.Fragment(`<div class="a">x</div>`)
	if err != nil {
		t.Fatal(err)
	}

	s := string(html)
	if strings.Contains(s, "jp-code-block") {
		t.Error("fragments are not wrapped")
	}
	if !strings.Contains(s, "&lt;") {
		t.Error("fragment markup should be escaped")
	}
}

func TestCodeRenderer_CSS(t *testing.T) {
	for _, style := range []string{StyleLight, StyleDark} {
		css, err := NewCodeRenderer().CSS(style)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(css, ".chroma") {
			t.Errorf("%s: expected .chroma rules in stylesheet", style)
		}
	}
}

func TestRenderPlaintext(t *testing.T) {
	source := []byte("Hello <world> & \"stuff\"")
	html := RenderPlaintext(source)

	s := string(html)
	if !strings.Contains(s, "<pre><code>") {
		t.Error("missing pre/code wrapper")
	}
	if !strings.Contains(s, "&lt;world&gt;") {
		t.Error("expected HTML escaping of angle brackets")
	}
	if !strings.Contains(s, "&amp;") {
		t.Error("expected HTML escaping of ampersand")
	}
}

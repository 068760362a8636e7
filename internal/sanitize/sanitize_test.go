package sanitize

import (
	"strings"
	"testing"
)

func TestBody_StripsDangerousElements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tag   string
	}{
		{"script", `<p>Hello</p><script>alert('xss')</script><p>World</p>`, "<script"},
		{"iframe", `<p>Before</p><iframe src="evil.com"></iframe><p>After</p>`, "<iframe"},
		{"object", `<object data="evil.swf"></object>`, "<object"},
		{"embed", `<embed src="evil.swf">`, "<embed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Body(tc.input)
			if strings.Contains(strings.ToLower(got), tc.tag) {
				t.Errorf("%s not stripped: %s", tc.tag, got)
			}
		})
	}
}

func TestBody_StripsScriptContent(t *testing.T) {
	got := Body(`<p>Hello</p><script>alert('xss')</script>`)
	if strings.Contains(got, "alert") {
		t.Errorf("script body leaked: %s", got)
	}
	if !strings.Contains(got, "<p>Hello</p>") {
		t.Error("safe content was removed")
	}
}

func TestBody_StripsEventHandlers(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"onclick", `<div onclick="alert('xss')">Click</div>`},
		{"onerror", `<img onerror="alert('xss')" src="x">`},
		{"mixed case", `<div ONCLICK="evil()">test</div>`},
		{"single quotes", `<div onclick='evil()'>test</div>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Body(tc.input)
			if ContainsDangerousContent(got) {
				t.Errorf("event handler not stripped: %s", got)
			}
		})
	}
}

func TestBody_KeepsLayoutMarkup(t *testing.T) {
	input := `<section class="md:flex w-1/2 bg-[#fff]" style="color: red"><header><nav><a href="https://example.com">link</a></nav></header></section>`
	got := Body(input)

	for _, want := range []string{
		`<section`,
		`class="md:flex w-1/2 bg-[#fff]"`,
		`style="color: red"`,
		`<header>`,
		`<nav>`,
		`href="https://example.com"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %s", want, got)
		}
	}
}

func TestBody_KeepsFormsAndIcons(t *testing.T) {
	input := `<form><label for="q">Q</label><input type="text" name="q" placeholder="بحث"><button type="submit">Go</button></form>` +
		`<svg viewBox="0 0 24 24" fill="none"><path d="M4 6h16"></path></svg>`
	got := Body(input)

	for _, want := range []string{"<form>", `type="text"`, `placeholder="بحث"`, "<button", "<svg", `d="M4 6h16"`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %s", want, got)
		}
	}
}

func TestContainsDangerousContent(t *testing.T) {
	if !ContainsDangerousContent(`<script>x</script>`) {
		t.Error("script not detected")
	}
	if !ContainsDangerousContent(`<div onclick="x()">a</div>`) {
		t.Error("handler not detected")
	}
	if ContainsDangerousContent(`<p>onclick is just a word</p>`) {
		t.Error("text mentioning a handler flagged")
	}
}

func TestDocument_StripsScripts(t *testing.T) {
	got := string(Document([]byte(`<p>Notes</p><script>alert(document.domain)</script><img src="x" onerror="alert(1)">`)))

	for _, unwanted := range []string{"<script", "alert", "onerror"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("%q survived: %s", unwanted, got)
		}
	}
	if !strings.Contains(got, "<p>Notes</p>") {
		t.Errorf("safe content removed: %s", got)
	}
}

func TestDocument_KeepsRenderedMarkdown(t *testing.T) {
	input := `<h2 id="usage">Usage</h2>` +
		`<div class="jp-code-block" data-language="go" data-line-count="1"><pre class="chroma"><code><span class="kd">func</span></code></pre></div>` +
		`<pre class="mermaid">graph TD; A--&gt;B</pre>`
	got := string(Document([]byte(input)))

	for _, want := range []string{
		`id="usage"`,
		`class="jp-code-block"`,
		`data-language="go"`,
		`<span class="kd">func</span>`,
		`<pre class="mermaid">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %s", want, got)
		}
	}
}

func FuzzBody(f *testing.F) {
	seeds := []string{
		`<script>alert('xss')</script>`,
		`<img onerror="alert(1)" src=x>`,
		`<iframe src="javascript:alert(1)"></iframe>`,
		`<SCRIPT>alert(1)</SCRIPT>`,
		`<script`,
		`<div><script><script>double</script></script></div>`,
		`<h1>Title</h1><p>Hello <strong>world</strong></p>`,
		`<div class="p-4 md:p-8">x</div>`,
		"",
		"<>",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		got := Body(input)
		if got != Body(input) {
			t.Errorf("non-deterministic output for input %q", input)
		}
		if strings.Contains(strings.ToLower(got), "<script") {
			t.Errorf("output contains script: %s", got)
		}
	})
}

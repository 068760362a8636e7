package rewrite

import (
	"strings"
	"testing"
)

func TestAssetURLs(t *testing.T) {
	const base = "https://assets.example.com/project"

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"root relative",
			`<img src="/logo.png" alt="">`,
			`<img src="https://assets.example.com/logo.png" alt="">`,
		},
		{
			"dot relative",
			`<img src="./img/a.jpg">`,
			`<img src="https://assets.example.com/project/img/a.jpg">`,
		},
		{
			"bare relative",
			`<img src="hero.webp">`,
			`<img src="https://assets.example.com/project/hero.webp">`,
		},
		{
			"single quotes",
			`<img src='hero.webp'>`,
			`<img src='https://assets.example.com/project/hero.webp'>`,
		},
		{
			"query kept",
			`<img src="a.png?v=2">`,
			`<img src="https://assets.example.com/project/a.png?v=2">`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AssetURLs(tc.input, base); got != tc.want {
				t.Errorf("got  %s\nwant %s", got, tc.want)
			}
		})
	}
}

func TestAssetURLs_Untouched(t *testing.T) {
	inputs := []string{
		`<img src="https://cdn.example.com/a.png">`,
		`<img src="//cdn.example.com/a.png">`,
		`<img src="data:image/png;base64,AAAA">`,
		`<img src="blob:https://x/1">`,
		`<a href="/about">About</a>`,
		`<img src="">`,
	}
	for _, in := range inputs {
		if got := AssetURLs(in, "https://assets.example.com/"); got != in {
			t.Errorf("modified %s -> %s", in, got)
		}
	}
}

func TestAssetURLs_NoBase(t *testing.T) {
	in := `<img src="/logo.png">`
	for _, base := range []string{"", "not a url", "/relative/only"} {
		if got := AssetURLs(in, base); got != in {
			t.Errorf("base %q modified input: %s", base, got)
		}
	}
}

func TestAssetURLs_DataSrcAttributeIgnored(t *testing.T) {
	in := `<img data-src="/lazy.png">`
	got := AssetURLs(in, "https://assets.example.com/")
	if strings.Contains(got, "assets.example.com") {
		t.Errorf("data-src rewritten: %s", got)
	}
}

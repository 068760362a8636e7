package rewrite

import (
	"net/url"
	"regexp"
	"strings"
)

// srcRe matches src="..." and src='...' attributes in HTML.
var srcRe = regexp.MustCompile(`(?i)(\ssrc\s*=\s*)("([^"]*)"|'([^']*)')`)

// AssetURLs resolves relative src attributes in a body fragment against
// base, so that images load inside a srcdoc iframe that has no base URL of
// its own. Absolute, protocol-relative, data:, blob: and fragment URLs are
// left untouched, as is everything when base is empty or unparseable.
func AssetURLs(html, base string) string {
	if base == "" {
		return html
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" || b.Host == "" {
		return html
	}
	// A base without a trailing slash names a directory, not a file.
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}

	return srcRe.ReplaceAllStringFunc(html, func(match string) string {
		parts := srcRe.FindStringSubmatch(match)
		if len(parts) < 5 {
			return match
		}

		prefix := parts[1] // ` src=`
		quote := `"`
		ref := parts[3]
		if strings.HasPrefix(parts[2], "'") {
			quote = "'"
			ref = parts[4]
		}

		if !isRelative(ref) {
			return match
		}

		u, err := url.Parse(ref)
		if err != nil {
			return match
		}
		return prefix + quote + b.ResolveReference(u).String() + quote
	})
}

func isRelative(ref string) bool {
	if ref == "" {
		return false
	}
	lower := strings.ToLower(ref)
	for _, p := range []string{"http://", "https://", "//", "data:", "blob:", "#", "mailto:", "javascript:"} {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	return true
}

package template

import (
	"bytes"
	"fmt"
	"html"
	"strings"
)

// Shell holds the fixed parts of a preview document.
type Shell struct {
	Lang       string
	Dir        string
	Title      string
	FontHref   string // web font stylesheet
	FontFamily string
	RuntimeSrc string // utility-CSS runtime script
}

// DefaultShell is the Arabic, right-to-left document the generator targets:
// Cairo from Google Fonts and the Tailwind CDN runtime.
var DefaultShell = Shell{
	Lang:       "ar",
	Dir:        "rtl",
	Title:      "Preview",
	FontHref:   "https://fonts.googleapis.com/css2?family=Cairo:wght@300;400;500;600;700;800;900&display=swap",
	FontFamily: "Cairo",
	RuntimeSrc: "https://cdn.tailwindcss.com",
}

func (s Shell) withDefaults() Shell {
	d := DefaultShell
	if s.Lang != "" {
		d.Lang = s.Lang
	}
	if s.Dir != "" {
		d.Dir = s.Dir
	}
	if s.Title != "" {
		d.Title = s.Title
	}
	if s.FontHref != "" {
		d.FontHref = s.FontHref
	}
	if s.FontFamily != "" {
		d.FontFamily = s.FontFamily
	}
	if s.RuntimeSrc != "" {
		d.RuntimeSrc = s.RuntimeSrc
	}
	return d
}

// Document wraps body in the shell. Stylesheets are appended verbatim, in
// order, to the single <style> block after the reset rules. Neither the
// stylesheets nor the body are escaped.
func (s Shell) Document(stylesheets []string, body string) string {
	s = s.withDefaults()
	var buf bytes.Buffer

	family := strings.ReplaceAll(s.FontFamily, "'", `\'`)

	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html lang="%s" dir="%s">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <link rel="preconnect" href="https://fonts.googleapis.com">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link href="%s" rel="stylesheet">
  <script src="%s"></script>
  <script>
    tailwind.config = {
      theme: {
        extend: {
          fontFamily: {
            %s: ['%s', 'sans-serif'],
          },
        },
      },
    }
  </script>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: '%s', sans-serif; direction: %s; overflow-x: hidden; }
`,
		html.EscapeString(s.Lang),
		html.EscapeString(s.Dir),
		html.EscapeString(s.Title),
		html.EscapeString(s.FontHref),
		html.EscapeString(s.RuntimeSrc),
		fontKey(s.FontFamily),
		family,
		family,
		s.Dir,
	)

	for _, css := range stylesheets {
		buf.WriteString(css)
		buf.WriteByte('\n')
	}

	fmt.Fprintf(&buf, "  </style>\n</head>\n<body>\n%s\n</body>\n</html>\n", body)

	return buf.String()
}

// fontKey is the theme key for a font family: "Cairo" -> cairo,
// "Noto Kufi Arabic" -> notoKufiArabic.
func fontKey(family string) string {
	words := strings.Fields(family)
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	key := strings.Join(words, "")
	if key == "" {
		return "sans"
	}
	return key
}

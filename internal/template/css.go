package template

import (
	"bytes"
	"fmt"
	"strings"
)

// faviconSVG is an inline SVG favicon.
const faviconSVG = `%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'%3E%3Ctext y='.9em' font-size='90'%3E%F0%9F%A7%A9%3C/text%3E%3C/svg%3E`

// writeThemeCSS scopes the light and dark chroma stylesheets to the
// data-theme attribute, with "auto" following the system preference.
func writeThemeCSS(buf *bytes.Buffer, chromaLightCSS, chromaDarkCSS string) {
	fmt.Fprintf(buf, "    /* Theme: light */\n")
	fmt.Fprintf(buf, "    [data-theme=\"light\"] { color-scheme: light; }\n")
	buf.WriteString(prefixThemeCSS(chromaLightCSS, `[data-theme="light"]`))

	fmt.Fprintf(buf, "    /* Theme: dark */\n")
	fmt.Fprintf(buf, "    [data-theme=\"dark\"] { color-scheme: dark; }\n")
	buf.WriteString(prefixThemeCSS(chromaDarkCSS, `[data-theme="dark"]`))

	fmt.Fprintf(buf, "    /* Theme: auto (system preference) */\n")
	fmt.Fprintf(buf, "    [data-theme=\"auto\"] { color-scheme: light dark; }\n")
	buf.WriteString(prefixThemeCSS(chromaLightCSS, `[data-theme="auto"]`))
	fmt.Fprintf(buf, "    @media (prefers-color-scheme: dark) {\n")
	buf.WriteString(prefixThemeCSS(chromaDarkCSS, `[data-theme="auto"]`))
	fmt.Fprintf(buf, "    }\n")
}

func writeLayoutCSS(buf *bytes.Buffer) {
	buf.WriteString(layoutCSS)
}

// prefixThemeCSS prepends a theme selector before each .chroma selector so
// the light and dark rules only apply under the active theme. Rules are
// rewritten one selector at a time to avoid nesting the whole sheet in a
// block, which would produce selectors that never match.
func prefixThemeCSS(css, themeSelector string) string {
	return strings.ReplaceAll(css, ".chroma", themeSelector+" .chroma")
}

const layoutCSS = `
    /* jsxpreview layout */
    * { box-sizing: border-box; }
    body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Helvetica, Arial, sans-serif; }
    [data-theme="dark"] body { background: #0d1117; color: #e6edf3; }
    @media (prefers-color-scheme: dark) {
      [data-theme="auto"] body { background: #0d1117; color: #e6edf3; }
    }

    #jp-header {
      position: sticky; top: 0; z-index: 100;
      display: flex; align-items: center; justify-content: space-between;
      padding: 4px 16px; font-size: 12px;
      border-bottom: 1px solid rgba(128,128,128,0.2);
      background: rgba(246,248,250,0.95); color: #656d76;
    }
    [data-theme="dark"] #jp-header { background: rgba(22,27,34,0.95); color: #8b949e; }
    @media (prefers-color-scheme: dark) {
      [data-theme="auto"] #jp-header { background: rgba(22,27,34,0.95); color: #8b949e; }
    }
    .jp-meta { display: flex; align-items: center; gap: 12px; overflow: hidden; flex: 1; }
    .jp-meta span { white-space: nowrap; }
    .jp-controls { display: flex; gap: 4px; }
    .jp-controls button {
      background: none; border: 1px solid rgba(128,128,128,0.3); border-radius: 4px;
      cursor: pointer; padding: 2px 6px; font-size: 14px; color: inherit;
    }
    .jp-controls button:hover { background: rgba(128,128,128,0.1); }

    main { max-width: 1200px; margin: 0 auto; padding: 24px 16px; }
    .jp-section { margin: 0 0 24px; border: 1px solid #d0d7de; border-radius: 6px; }
    .jp-section > summary { cursor: pointer; padding: 8px 12px; font-weight: 600; }
    .jp-section > div { padding: 0 12px 12px; }
    .jp-role {
      display: inline-block; margin-left: 8px; padding: 0 6px; border-radius: 10px;
      font-size: 11px; font-weight: normal; background: rgba(128,128,128,0.15);
    }
    .jp-role[data-role="unused"] { opacity: 0.6; }
    .jp-drops { font-size: 13px; margin: 8px 0; padding-left: 20px; }
    .jp-drops code { font-size: 12px; }
    .jp-doc-stats { font-size: 13px; color: #656d76; margin: 8px 0; }
    .jp-toc ul { font-size: 13px; margin: 0 0 12px; padding-left: 20px; }
    .jp-toc li[data-level="3"] { margin-left: 16px; }
    .jp-toc li[data-level="4"], .jp-toc li[data-level="5"], .jp-toc li[data-level="6"] { margin-left: 32px; }
    .jp-warning { padding: 8px 12px; margin: 0 0 16px; border-radius: 6px; background: #fff8c5; color: #7d4e00; }
    [data-theme="dark"] .jp-section { border-color: #30363d; }
    [data-theme="dark"] .jp-warning { background: #3b2300; color: #f0c674; }
    @media (prefers-color-scheme: dark) {
      [data-theme="auto"] .jp-section { border-color: #30363d; }
      [data-theme="auto"] .jp-warning { background: #3b2300; color: #f0c674; }
    }

    .jp-code-block {
      position: relative; margin: 12px 0;
      border: 1px solid #d0d7de; border-radius: 6px; overflow: hidden;
    }
    .jp-code-block pre, .jp-fragment pre { margin: 0; padding: 12px; overflow-x: auto; font-size: 12px; }
    .jp-code-header {
      display: flex; justify-content: flex-end; align-items: center; gap: 8px;
      padding: 4px 12px; font-size: 12px; color: #656d76;
      background: #f6f8fa; border-bottom: 1px solid #d0d7de;
    }
    [data-theme="dark"] .jp-code-block { border-color: #30363d; }
    [data-theme="dark"] .jp-code-header { background: #161b22; border-color: #30363d; color: #8b949e; }
    @media (prefers-color-scheme: dark) {
      [data-theme="auto"] .jp-code-block { border-color: #30363d; }
      [data-theme="auto"] .jp-code-header { background: #161b22; border-color: #30363d; color: #8b949e; }
    }

    #jp-error { text-align: center; padding: 80px 16px; }
    #jp-error h1 { font-size: 48px; margin: 0 0 16px; color: #656d76; }
    #jp-error p { color: #656d76; font-size: 16px; }

    @media print {
      #jp-header { display: none !important; }
      main { max-width: 100%; padding: 0; }
      .jp-code-block { break-inside: avoid; }
    }
`

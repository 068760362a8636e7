package template

import (
	"bytes"
)

func writeScripts(buf *bytes.Buffer) {
	buf.WriteString(`  <script>
    // Theme toggle: auto → light → dark → auto
    (function() {
      var toggle = document.getElementById('jp-theme-toggle');
      if (!toggle) return;

      function getTheme() {
        var cookie = document.cookie.match(/_jsxpreview_theme=(\w+)/);
        if (cookie) return cookie[1];
        return document.documentElement.getAttribute('data-theme') || 'auto';
      }

      function setTheme(theme) {
        document.documentElement.setAttribute('data-theme', theme);
        document.cookie = '_jsxpreview_theme=' + theme + ';path=/;max-age=31536000;SameSite=Lax';
      }

      var saved = getTheme();
      if (saved !== document.documentElement.getAttribute('data-theme')) {
        setTheme(saved);
      }

      var icons = { auto: '◑', light: '☀', dark: '☾' };
      var labels = { auto: 'Auto', light: 'Light', dark: 'Dark' };

      function updateButton() {
        var theme = document.documentElement.getAttribute('data-theme') || 'auto';
        toggle.textContent = icons[theme] || icons.auto;
        toggle.title = 'Theme: ' + (labels[theme] || 'Auto');
      }
      updateButton();

      toggle.addEventListener('click', function() {
        var current = document.documentElement.getAttribute('data-theme');
        var next = current === 'auto' ? 'light' : current === 'light' ? 'dark' : 'auto';
        setTheme(next);
        updateButton();
      });
    })();

    // Expand or collapse every section at once
    (function() {
      var toggle = document.getElementById('jp-expand-toggle');
      if (!toggle) return;

      toggle.addEventListener('click', function() {
        var sections = document.querySelectorAll('details.jp-section');
        var open = Array.prototype.some.call(sections, function(d) { return !d.open; });
        sections.forEach(function(d) { d.open = open; });
        toggle.setAttribute('data-state', open ? 'expanded' : 'collapsed');
      });
    })();
  </script>
`)
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/air-gapped/jsxpreview/internal/cache"
	"github.com/air-gapped/jsxpreview/internal/config"
	"github.com/air-gapped/jsxpreview/internal/jsx"
	"github.com/air-gapped/jsxpreview/internal/live"
	"github.com/air-gapped/jsxpreview/internal/logging"
	"github.com/air-gapped/jsxpreview/internal/preview"
	"github.com/air-gapped/jsxpreview/internal/render"
	"github.com/air-gapped/jsxpreview/internal/sanitize"
	jptemplate "github.com/air-gapped/jsxpreview/internal/template"
	"github.com/air-gapped/jsxpreview/internal/vfs"
)

// inspectCSP confines the inspect page, which is served on the service's
// own origin: only same-origin and inline scripts run, nothing is fetched
// or submitted elsewhere.
const inspectCSP = "default-src 'none'; script-src 'self' 'unsafe-inline'; style-src 'unsafe-inline'; " +
	"img-src * data:; base-uri 'none'; form-action 'none'; frame-ancestors 'none'"

// Server is the jsxpreview HTTP server.
type Server struct {
	cfg        *config.Config
	version    string
	opts       preview.Options
	cache      *cache.Cache
	mdRender   *render.MarkdownRenderer
	codeRender *render.CodeRenderer
	tmpl       *jptemplate.Renderer
	assets     fs.FS
	origins    *Allowlist
	live       *live.Handler
	mux        *http.ServeMux
}

// New creates a server. order replaces the default no-root ordering table
// when it names any component.
func New(cfg *config.Config, version string, assets fs.FS, order preview.Order) *Server {
	s := &Server{
		cfg:     cfg,
		version: version,
		opts: preview.Options{
			Order:        order,
			Recursive:    cfg.Recursive,
			Sanitize:     cfg.Sanitize,
			AssetBaseURL: cfg.AssetBaseURL,
		},
		cache:      cache.New(cfg.CacheTTL, cfg.CacheMaxSize),
		mdRender:   render.NewMarkdownRenderer(),
		codeRender: render.NewCodeRenderer(),
		tmpl:       jptemplate.NewRenderer(),
		assets:     assets,
		origins:    ParseAllowlist(cfg.AllowedOrigins),
		mux:        http.NewServeMux(),
	}
	s.live = &live.Handler{
		Render:      s.renderDocument,
		AllowOrigin: s.origins.AllowsOrigin,
		ReadLimit:   cfg.MaxRequestSize,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /_preview/{path...}", s.handleAsset)
	s.mux.HandleFunc("GET /{$}", s.handleEditor)
	s.mux.HandleFunc("POST /preview", s.handlePreview)
	s.mux.HandleFunc("POST /inspect", s.handleInspect)
	s.mux.Handle("GET /live", s.live)
}

// Handler returns the server's HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.loggingMiddleware(h)
	return h
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(200)
	w.Write([]byte("OK"))
}

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	s.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.tmpl.RenderEditor(s.version))
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	assetPath := r.PathValue("path")
	data, err := fs.ReadFile(s.assets, assetPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch {
	case strings.HasSuffix(assetPath, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(assetPath, ".css"):
		w.Header().Set("Content-Type", "text/css")
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

type previewRequest struct {
	Files []vfs.File `json:"files"`
}

// handlePreview renders a posted file set. The document is served under a
// sandbox CSP so it cannot reach the service's origin.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	files, status, err := s.readFiles(w, r)
	if err != nil {
		s.setSecurityHeaders(w)
		http.Error(w, err.Error(), status)
		return
	}

	entry, cacheStatus, renderMs := s.build(r, files)

	s.setSecurityHeaders(w)
	w.Header().Set("X-Preview-Cache", string(cacheStatus))
	w.Header().Set("X-Preview-Render-Ms", strconv.FormatInt(renderMs, 10))
	w.Header().Set("X-Preview-Files", strconv.Itoa(len(files)))

	if entry.Empty {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("X-Preview-Root", entry.Root)
	w.Header().Set("X-Preview-Components", strconv.Itoa(entry.Components))
	w.Header().Set("Content-Security-Policy", "sandbox allow-scripts")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(entry.Document)
}

// handleInspect renders the diagnostics page. It accepts the same JSON body
// as /preview, or a form with the JSON file list in its "files" field.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	files, status, err := s.readFiles(w, r)
	if err != nil {
		s.renderError(w, status, err.Error())
		return
	}

	logger := logging.FromContext(r.Context())
	start := time.Now()
	res := preview.Build(files, s.opts)

	data := jptemplate.InspectData{
		Version:    s.version,
		Empty:      res == nil,
		MermaidSrc: "/_preview/mermaid.min.js",
	}
	data.ChromaLightCSS, err = s.codeRender.CSS(render.StyleLight)
	if err != nil {
		logger.Error("chroma css failed", "error", err)
	}
	data.ChromaDarkCSS, err = s.codeRender.CSS(render.StyleDark)
	if err != nil {
		logger.Error("chroma css failed", "error", err)
	}

	if res != nil {
		data.Root = res.Root
		data.Order = res.Order
		data.Duplicates = res.Duplicates
		for _, c := range res.Components {
			data.Components = append(data.Components, s.componentView(logger, res, c, files))
		}
	}

	for _, f := range files {
		f = vfs.WithLanguage(f)
		switch {
		case vfs.IsStylesheet(f):
			data.Stylesheets = append(data.Stylesheets, jptemplate.SourceView{
				Name:   f.Name,
				Source: s.highlight(logger, f.Content, "css"),
			})
		case isMarkdown(f):
			html, meta, err := s.mdRender.Render([]byte(f.Content))
			if err != nil {
				logger.Warn("render markdown failed", "file", f.Name, "error", err)
				html = render.RenderPlaintext([]byte(f.Content))
				meta = &render.MarkdownMeta{}
			}
			data.Documents = append(data.Documents, documentView(f.Name, sanitize.Document(html), meta))
		}
	}

	s.setSecurityHeaders(w)
	w.Header().Set("Content-Security-Policy", inspectCSP)
	w.Header().Set("X-Preview-Render-Ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
	w.Header().Set("X-Preview-Files", strconv.Itoa(len(files)))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.tmpl.RenderInspect(data))
}

func (s *Server) componentView(logger *slog.Logger, res *preview.Result, c preview.Component, files []vfs.File) jptemplate.ComponentView {
	view := jptemplate.ComponentView{
		Name: c.Name,
		File: c.File,
		Role: s.role(res, c),
	}
	for _, f := range files {
		if f.Name == c.File {
			view.Source = s.highlight(logger, f.Content, vfs.WithLanguage(f).Language)
			break
		}
	}

	frag, err := s.codeRender.Fragment(c.Fragment)
	if err != nil {
		logger.Warn("highlight fragment failed", "component", c.Name, "error", err)
		frag = render.RenderPlaintext([]byte(c.Fragment))
	}
	view.Fragment = template.HTML(frag)
	view.Scripted = !s.opts.Sanitize && sanitize.ContainsDangerousContent(c.Fragment)

	for _, d := range c.Drops {
		view.Drops = append(view.Drops, jptemplate.DropView{
			Kind:   string(d.Kind),
			Source: d.Source,
			Note:   dropNote(d),
		})
	}
	return view
}

// dropNote explains drops whose effect is not obvious from the source.
func dropNote(d jsx.Drop) string {
	if d.Kind == jsx.DropComponent && !strings.HasSuffix(d.Source, "/>") {
		return "unknown wrapper: tag removed, children kept"
	}
	return ""
}

func documentView(name string, html []byte, meta *render.MarkdownMeta) jptemplate.DocumentView {
	view := jptemplate.DocumentView{
		Name:       name,
		Title:      meta.Title,
		Content:    template.HTML(html),
		HasMermaid: meta.HasMermaid,
		CodeBlocks: meta.CodeBlockCount,
	}
	for _, h := range meta.Headings {
		view.Headings = append(view.Headings, jptemplate.HeadingView{Level: h.Level, Text: h.Text, ID: h.ID})
	}
	seen := make(map[string]bool)
	for _, lang := range meta.Languages {
		if lang != "" && !seen[lang] {
			seen[lang] = true
			view.Languages = append(view.Languages, lang)
		}
	}
	return view
}

// role names where a component landed in the document.
func (s *Server) role(res *preview.Result, c preview.Component) string {
	switch {
	case !c.Used:
		return "unused"
	case res.Root != "" && c.Name == res.Root:
		return "root"
	case res.Root != "":
		return "nested"
	}

	order := s.opts.Order
	if len(order.Leading) == 0 && len(order.Trailing) == 0 {
		order = preview.DefaultOrder
	}
	for _, name := range order.Leading {
		if strings.EqualFold(name, c.Name) {
			return "leading"
		}
	}
	for _, name := range order.Trailing {
		if strings.EqualFold(name, c.Name) {
			return "trailing"
		}
	}
	return "body"
}

func (s *Server) highlight(logger *slog.Logger, source, language string) template.HTML {
	out, err := s.codeRender.Render([]byte(source), language)
	if err != nil {
		logger.Warn("highlight failed", "language", language, "error", err)
		out = render.RenderPlaintext([]byte(source))
	}
	return template.HTML(out)
}

func isMarkdown(f vfs.File) bool {
	switch strings.ToLower(f.Language) {
	case "md", "markdown":
		return true
	}
	return false
}

// readFiles decodes the posted file set, enforcing MaxRequestSize.
func (s *Server) readFiles(w http.ResponseWriter, r *http.Request) ([]vfs.File, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestSize)

	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, requestStatus(err), fmt.Errorf("parse form: %w", err)
		}
		var files []vfs.File
		if err := json.Unmarshal([]byte(r.PostForm.Get("files")), &files); err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("decode files field: %w", err)
		}
		return files, 0, nil
	}

	var req previewRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, requestStatus(err), fmt.Errorf("decode request: %w", err)
	}
	return req.Files, 0, nil
}

func requestStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// build renders files through the cache. Identical concurrent requests
// share one render.
func (s *Server) build(r *http.Request, files []vfs.File) (cache.Entry, cache.Status, int64) {
	logger := logging.FromContext(r.Context())
	start := time.Now()

	entry, status := s.cache.GetOrBuild(vfs.Fingerprint(files), func() cache.Entry {
		return s.assemble(logger, files)
	})
	return entry, status, time.Since(start).Milliseconds()
}

func (s *Server) assemble(logger *slog.Logger, files []vfs.File) cache.Entry {
	res := preview.Build(files, s.opts)
	if res == nil {
		return cache.Entry{Empty: true}
	}

	if len(res.Duplicates) > 0 {
		logger.Warn("duplicate component names", "names", res.Duplicates)
	}
	for _, d := range res.Drops {
		logger.Debug("dropped", "kind", d.Kind, "source", d.Source)
	}
	if !s.opts.Sanitize {
		for _, c := range res.Components {
			if c.Used && sanitize.ContainsDangerousContent(c.Fragment) {
				logger.Warn("component carries scripts or inline handlers", "component", c.Name, "file", c.File)
			}
		}
	}

	return cache.Entry{
		Document:   []byte(res.HTML),
		Root:       res.Root,
		Components: len(res.Order),
	}
}

// renderDocument serves live sessions, sharing the request cache.
func (s *Server) renderDocument(files []vfs.File) (string, bool) {
	entry, _ := s.cache.GetOrBuild(vfs.Fingerprint(files), func() cache.Entry {
		return s.assemble(slog.Default(), files)
	})
	if entry.Empty {
		return "", false
	}
	return string(entry.Document), true
}

func (s *Server) renderError(w http.ResponseWriter, statusCode int, message string) {
	page := s.tmpl.RenderError(jptemplate.ErrorData{
		Version:    s.version,
		StatusCode: statusCode,
		Message:    message,
	})

	s.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(page)
}

func (s *Server) setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("X-Preview-Version", s.version)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.NewString()
		logger := slog.Default().With("request_id", requestID)
		r = r.WithContext(logging.WithLogger(r.Context(), logger))
		w.Header().Set("X-Request-Id", requestID)

		wrapped := &logging.ByteCountingWriter{ResponseWriter: w}
		next.ServeHTTP(wrapped, r)

		if wrapped.StatusCode == 0 {
			wrapped.StatusCode = 200
		}

		logging.LogRequest(logger, logging.RequestFields{
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     wrapped.StatusCode,
			Cache:      wrapped.Header().Get("X-Preview-Cache"),
			Root:       wrapped.Header().Get("X-Preview-Root"),
			Components: int(parseHeaderInt64(wrapped.Header().Get("X-Preview-Components"))),
			Files:      int(parseHeaderInt64(wrapped.Header().Get("X-Preview-Files"))),
			RenderMs:   parseHeaderInt64(wrapped.Header().Get("X-Preview-Render-Ms")),
			TotalMs:    time.Since(start).Milliseconds(),
			Bytes:      wrapped.Bytes,
		})
	})
}

func parseHeaderInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

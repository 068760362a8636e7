// Package preview assembles component fragments into a complete preview
// document.
package preview

import (
	"strings"

	"github.com/air-gapped/jsxpreview/internal/jsx"
	"github.com/air-gapped/jsxpreview/internal/rewrite"
	"github.com/air-gapped/jsxpreview/internal/sanitize"
	"github.com/air-gapped/jsxpreview/internal/template"
	"github.com/air-gapped/jsxpreview/internal/vfs"
)

// RootName is the component that, when present, becomes the document body.
const RootName = "App"

// Options control assembly. The zero value uses DefaultOrder and the
// default shell.
type Options struct {
	// Order replaces DefaultOrder when either list is non-empty.
	Order Order
	// Recursive expands component references inside substituted
	// fragments too. A component already being expanded is never expanded
	// again, so reference cycles terminate.
	Recursive bool
	// Sanitize passes the body through the HTML sanitiser.
	Sanitize bool
	// AssetBaseURL resolves relative src attributes in the body.
	AssetBaseURL string
	Shell        template.Shell
}

// Result is an assembled document and what went into it.
type Result struct {
	HTML string
	// Root is the root component name, or "" on the fallback path.
	Root string
	// Order lists the components that contributed markup, in document
	// order.
	Order       []string
	Stylesheets []string
	// Drops holds what the components in Order lost during rewriting.
	Drops      []jsx.Drop
	Duplicates []string
	// Components describes every classified component in input order,
	// including those that did not reach the document.
	Components []Component
}

// Component is the per-component view of a build.
type Component struct {
	Name string
	File string
	// Fragment is the component's own markup. Components that were not
	// used are rendered standalone, without reference resolution.
	Fragment string
	Drops    []jsx.Drop
	Used     bool
}

// Render returns the preview document for files. ok is false when files
// contain no component.
func Render(files []vfs.File, opts Options) (html string, ok bool) {
	r := Build(files, opts)
	if r == nil {
		return "", false
	}
	return r.HTML, true
}

// Build assembles files into a document. It returns nil when there is no
// component to render. Build is pure: the same files always produce the
// same Result.
func Build(files []vfs.File, opts Options) *Result {
	c := vfs.Classify(files)
	if len(c.Components) == 0 {
		return nil
	}

	a := newAssembler(c, opts)
	res := &Result{Duplicates: c.Duplicates}

	var body string
	if c.Root != nil {
		res.Root = RootName
		body = a.rootBody()
	} else {
		body = a.orderedBody(opts.orderTable())
	}
	res.Order = a.used
	res.Drops = a.drops
	res.Components = a.report()

	if opts.AssetBaseURL != "" {
		body = rewrite.AssetURLs(body, opts.AssetBaseURL)
	}
	if opts.Sanitize {
		body = sanitize.Body(body)
	}

	styles := make([]string, len(c.Stylesheets))
	for i, f := range c.Stylesheets {
		styles[i] = f.Content
		res.Stylesheets = append(res.Stylesheets, f.Name)
	}

	res.HTML = opts.Shell.Document(styles, body)
	return res
}

func (o Options) orderTable() Order {
	if len(o.Order.Leading) == 0 && len(o.Order.Trailing) == 0 {
		return DefaultOrder
	}
	return o.Order
}

type assembler struct {
	names      []string
	files      map[string]string
	components map[string]*jsx.Component
	recursive  bool

	fragments map[string]string
	expanding map[string]bool
	used      []string
	seen      map[string]bool
	drops     []jsx.Drop
	own       map[string][]jsx.Drop
}

func newAssembler(c vfs.Classified, opts Options) *assembler {
	a := &assembler{
		files:      make(map[string]string, len(c.Components)),
		components: make(map[string]*jsx.Component, len(c.Components)),
		recursive:  opts.Recursive,
		fragments:  make(map[string]string),
		expanding:  make(map[string]bool),
		seen:       make(map[string]bool),
		own:        make(map[string][]jsx.Drop),
	}
	for _, f := range c.Components {
		name := vfs.ComponentName(f.Name)
		a.names = append(a.names, name)
		a.files[name] = f.Name
		a.components[name] = jsx.Parse(f.Content)
	}
	return a
}

func (a *assembler) markUsed(name string) {
	if !a.seen[name] {
		a.seen[name] = true
		a.used = append(a.used, name)
	}
}

// render produces a component's fragment once and memoises it. Only the
// root resolves references unless expansion is recursive.
func (a *assembler) render(name string, resolve jsx.Resolver) string {
	if html, ok := a.fragments[name]; ok {
		return html
	}
	a.expanding[name] = true
	html, drops := a.components[name].Render(resolve)
	delete(a.expanding, name)

	a.drops = append(a.drops, drops...)
	a.own[name] = drops
	a.fragments[name] = html
	return html
}

// report lists every component. It runs after the body is assembled so
// standalone renders of unused components never reach Result.Drops.
func (a *assembler) report() []Component {
	out := make([]Component, 0, len(a.names))
	for _, name := range a.names {
		used := a.seen[name]
		if _, ok := a.fragments[name]; !ok {
			a.render(name, nil)
		}
		out = append(out, Component{
			Name:     name,
			File:     a.files[name],
			Fragment: a.fragments[name],
			Drops:    a.own[name],
			Used:     used,
		})
	}
	return out
}

// resolve maps a component reference to its fragment.
func (a *assembler) resolve(name string) (string, bool) {
	if name == RootName || a.expanding[name] {
		return "", false
	}
	if _, ok := a.components[name]; !ok {
		return "", false
	}
	a.markUsed(name)

	var nested jsx.Resolver
	if a.recursive {
		nested = a.resolve
	}
	return a.render(name, nested), true
}

func (a *assembler) rootBody() string {
	a.markUsed(RootName)
	return a.render(RootName, a.resolve)
}

// orderedBody concatenates every component when there is no root:
// leading names first, trailing names last, the rest in between.
func (a *assembler) orderedBody(order Order) string {
	taken := make([]bool, len(a.names))
	var lead, middle, trail []int

	for _, want := range order.Leading {
		for i, name := range a.names {
			if !taken[i] && strings.EqualFold(name, want) {
				taken[i] = true
				lead = append(lead, i)
				break
			}
		}
	}
	for _, want := range order.Trailing {
		for i, name := range a.names {
			if !taken[i] && strings.EqualFold(name, want) {
				taken[i] = true
				trail = append(trail, i)
				break
			}
		}
	}
	// Further trailing matches (Contact.tsx beside contact.jsx) stay
	// withheld and follow the table-ordered ones.
	for i, name := range a.names {
		if !taken[i] && order.trailing(name) {
			taken[i] = true
			trail = append(trail, i)
		}
	}
	for i := range a.names {
		if !taken[i] {
			middle = append(middle, i)
		}
	}

	var resolve jsx.Resolver
	if a.recursive {
		resolve = a.resolve
	}

	var parts []string
	for _, group := range [][]int{lead, middle, trail} {
		for _, i := range group {
			name := a.names[i]
			a.markUsed(name)
			parts = append(parts, a.render(name, resolve))
		}
	}
	return strings.Join(parts, "\n")
}

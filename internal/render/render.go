// Package render produces the static HTML documents served for error pages.
//
// Every page is rendered from a single embedded template that receives the
// context {Title, Header, Message, Redirect}. Per-status wording comes from
// the httperr definition table (or deployment overrides); this package only
// owns the document structure.
//
// Rendering failures are returned to the caller, never swallowed: a missing
// or broken template is a deployment defect that must surface on the
// framework's own error path.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplate is the name of the embedded error page template.
const pageTemplate = "error.html"

// Context carries the values the error page template consumes.
//
// The field set is a stable contract: deployments that replace the template
// may rely on exactly these four values being available.
type Context struct {
	// Title is the <title> of the document (e.g. "Not Found").
	Title string
	// Header is the page heading (e.g. "404 Error").
	Header string
	// Message is the human-readable explanation.
	Message string
	// Redirect is the closing guidance line (e.g. "Please return to the homepage.").
	Redirect string
}

// Renderer renders error pages from the embedded template set.
// It is immutable after construction and safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates and returns a ready Renderer.
func New() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: parse embedded templates: %w", err)
	}
	if t.Lookup(pageTemplate) == nil {
		return nil, fmt.Errorf("render: embedded template %q missing", pageTemplate)
	}
	return &Renderer{tmpl: t}, nil
}

// Must is New for wiring paths where a parse failure is a programming error.
func Must() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Page writes the rendered error document for ctx to w.
func (r *Renderer) Page(w io.Writer, ctx Context) error {
	if err := r.tmpl.ExecuteTemplate(w, pageTemplate, ctx); err != nil {
		return fmt.Errorf("render: execute %q: %w", pageTemplate, err)
	}
	return nil
}

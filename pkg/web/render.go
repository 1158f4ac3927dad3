package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/layout.html
var templatesFS embed.FS

// renderer converts markdown to HTML and wraps it in the page layout.
// Templates are parsed once at construction and reused for each request.
type renderer struct {
	layout *template.Template
	md     goldmark.Markdown
}

// newRenderer parses the embedded layout template.
func newRenderer() (*renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout template: %w", err)
	}
	return &renderer{
		layout: tmpl,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// pageData feeds the layout template.
type pageData struct {
	Title     string
	SkillName string
	Content   template.HTML
}

// renderMarkdown converts markdown to HTML inside the layout. Raw HTML in
// the source is not passed through, which keeps corpus documents from
// injecting script into the preview.
func (r *renderer) renderMarkdown(title, skillName string, src []byte) ([]byte, error) {
	var body bytes.Buffer
	if err := r.md.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return r.renderPage(title, skillName, template.HTML(body.String())) //nolint:gosec // goldmark escapes raw HTML by default
}

// renderPage wraps pre-rendered HTML content in the layout.
func (r *renderer) renderPage(title, skillName string, content template.HTML) ([]byte, error) {
	var out bytes.Buffer
	err := r.layout.Execute(&out, pageData{Title: title, SkillName: skillName, Content: content})
	if err != nil {
		return nil, fmt.Errorf("execute layout: %w", err)
	}
	return out.Bytes(), nil
}

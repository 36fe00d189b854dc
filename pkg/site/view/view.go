// Package view renders named html/template views.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/tendant/simple-site/pkg/site"
)

// ExecuteTemplateFunc executes the named template into wr.
type ExecuteTemplateFunc func(wr io.Writer, name string, data any) error

// Renderer implements site.Renderer
type Renderer struct {
	execute ExecuteTemplateFunc
}

// Funcs are available to every view.
var Funcs = template.FuncMap{
	// safeHTML marks already-sanitized markup as trusted.
	"safeHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
}

// New parses every template in fsys matching patterns.
func New(fsys fs.FS, patterns ...string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(Funcs).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return NewWithFunc(tmpl.ExecuteTemplate), nil
}

// NewWithFunc wraps an existing template executor.
func NewWithFunc(execute ExecuteTemplateFunc) *Renderer {
	return &Renderer{execute: execute}
}

// Render executes view with model and returns the markup.
func (r *Renderer) Render(view string, model any) (string, error) {
	var buf bytes.Buffer
	if err := r.execute(&buf, view, model); err != nil {
		return "", &site.RenderError{View: view, Err: err}
	}
	return buf.String(), nil
}

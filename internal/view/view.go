// Package view renders the embedded html templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

//go:embed templates
var files embed.FS

const (
	tmplRoot         = "templates"
	baseTemplate     = "base.html"
	partialsTemplate = "partials.html"
)

// TextRenderer turns post content into safe HTML.
type TextRenderer interface {
	Render(text string) template.HTML
}

// Renderer holds one parsed template set per page, keyed by view name ("board/list").
type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page together with the base layout. It fails on the first broken template.
func New(text TextRenderer) (*Renderer, error) {
	funcs := template.FuncMap{
		"markdown":   text.Render,
		"formatTime": formatTime,
		"humanSize":  humanSize,
		"join":       strings.Join,
	}

	templates := make(map[string]*template.Template)
	err := fs.WalkDir(files, tmplRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || p == path.Join(tmplRoot, baseTemplate) || p == path.Join(tmplRoot, partialsTemplate) {
			return nil
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, tmplRoot+"/"), ".html")
		tmpl, err := template.New(baseTemplate).Funcs(funcs).ParseFS(files,
			path.Join(tmplRoot, baseTemplate),
			p,
			path.Join(tmplRoot, partialsTemplate),
		)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: templates}, nil
}

func MustNew(text TextRenderer) *Renderer {
	r, err := New(text)
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named view into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.Execute(w, data)
}

// Views lists the loaded view names.
func (r *Renderer) Views() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

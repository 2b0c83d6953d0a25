// Package web renders the server-side pages of the site.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/robots.txt
var RobotsTxt []byte

//go:embed static/sitemap.xml
var SitemapXML []byte

const layoutFile = "layout.html"

// Pages rendered without the site layout
var standalone = map[string]bool{
	"ip_not_allowed.html": true,
	"you_are_banned.html": true,
}

// Page is the data every layout page receives
type Page struct {
	Title string
	User  *models.User // nil when anonymous
	Data  interface{}
}

// Theme is the colour scheme of the page
func (p Page) Theme() string {
	if p.User != nil && p.User.Theme != "" {
		return p.User.Theme
	}
	return models.DefaultTheme
}

// SearchResults is the data of the search page
type SearchResults struct {
	Query string
	Page  *services.FeedPage
}

// Renderer implements echo.Renderer over the embedded templates
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every embedded page once
func NewRenderer(mediaURL func(key string) string) (*Renderer, error) {
	funcs := Funcs(mediaURL)
	layout, err := template.New(layoutFile).Funcs(funcs).ParseFS(templatesFS, "templates/"+layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		var t *template.Template
		if standalone[name] {
			t, err = template.New(name).Funcs(funcs).ParseFS(templatesFS, file)
		} else {
			t, err = template.Must(layout.Clone()).ParseFS(templatesFS, file)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render implements echo.Renderer
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	entry := "layout"
	if standalone[name] {
		entry = name
	}
	if err := t.ExecuteTemplate(w, entry, data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return nil
}

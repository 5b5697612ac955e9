// Package web provides the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/authentiq/portal/internal/models"
)

//go:embed templates static
var assets embed.FS

// PageData is everything a page template can render.
type PageData struct {
	Route   Route
	Nav     []Route
	VisitID string

	Preloader        bool
	PreloaderDelayMs int64

	AcceptFilter  string
	MaxFileSizeMB int
	DocumentTypes []models.DocumentType
	DocumentType  models.DocumentType

	Dashboard *models.Dashboard
	Blacklist []models.BlacklistEntry
	Approvals []models.PendingInstitution

	Year int
}

var funcs = template.FuncMap{
	"button": NewButton,
	"tone": func(label models.StatusLabel) string {
		return label.Tone()
	},
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// Renderer renders route templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template once.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, route := range append([]Route{NotFound}, Routes...) {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(assets, "templates/pages/"+route.Name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", route.Name, err)
		}
		r.pages[route.Name] = t
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// StaticFS returns the embedded static assets with static/ as root.
func StaticFS() (fs.FS, error) {
	return fs.Sub(assets, "static")
}

// RegisterStaticRoutes serves the embedded assets under /static/.
func RegisterStaticRoutes(e *echo.Echo) error {
	staticFS, err := StaticFS()
	if err != nil {
		return err
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	e.GET("/static/*", echo.WrapHandler(fileServer))
	return nil
}

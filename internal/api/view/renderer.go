// Package view renders the HTML pages of the browser UI.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// Page names accepted by Renderer.Render.
const (
	EngineersIndex = "engineers/index.html"
	EngineersShow  = "engineers/show.html"
	EngineersNew   = "engineers/new.html"
	EngineersEdit  = "engineers/edit.html"
	Login          = "login.html"
	Error          = "error.html"
)

//go:embed templates
var templatesFS embed.FS

// Page is the data every template receives.
type Page struct {
	Token     string
	User      *domain.User
	Engineers []*domain.Engineer
	Engineer  *domain.Engineer
	Nonce     string
	Email     string
	Error     string
	Status    int
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout into its own template set.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"url": URL,
	}

	pagesFS, err := fs.Sub(templatesFS, "templates/pages")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(pagesFS, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(name, ".html") {
			return err
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html", "templates/pages/"+name)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// URL builds a UI link carrying the method override and the token as query
// parameters. Empty values are left out.
func URL(path, method, token string) string {
	q := url.Values{}
	if method != "" {
		q.Set("_method", method)
	}
	if token != "" {
		q.Set("token", token)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

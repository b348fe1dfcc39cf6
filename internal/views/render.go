// Package views renders the server-side pages and HTMX fragments.
package views

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"floodwatch/internal/risk"
)

var (
	// pages maps a page name ("alerts") to the layout plus that page's
	// content block.
	pages map[string]*template.Template
	// fragments holds the layout and the partials, for HTMX responses.
	fragments *template.Template
)

var errNotLoaded = errors.New("templates not loaded: call views.LoadTemplates during startup")

// Page is the view model every page executes with.
type Page struct {
	Title  string
	Active string
	Data   any
}

var funcs = template.FuncMap{
	"levelClass": LevelClass,
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"round": func(places int, v float64) string {
		return fmt.Sprintf("%.*f", places, v)
	},
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"upper": strings.ToUpper,
}

// LevelClass is the CSS class for a risk level.
func LevelClass(l risk.Level) string {
	if l == "" {
		return "risk-unknown"
	}
	return "risk-" + strings.ToLower(string(l))
}

// loadTemplatesFromFS parses layout.html and partials/*.html once, then
// clones that set for each pages/*.html. Tests call it with a MapFS.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	base, err := template.New("").Funcs(funcs).ParseFS(sub, "layout.html", "partials/*.html")
	if err != nil {
		return err
	}
	names, err := fs.Glob(sub, "pages/*.html")
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no page templates under %s/pages", dir)
	}

	loaded := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := base.Clone()
		if err != nil {
			return err
		}
		if t, err = t.ParseFS(sub, name); err != nil {
			return err
		}
		loaded[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	pages, fragments = loaded, base
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// RenderPage executes the named page inside the layout.
func RenderPage(w io.Writer, name string, p Page) error {
	if pages == nil {
		return errNotLoaded
	}
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", p)
}

// RenderPartial executes a single fragment, e.g. "alert-list".
func RenderPartial(w io.Writer, name string, data any) error {
	if fragments == nil {
		return errNotLoaded
	}
	return fragments.ExecuteTemplate(w, name, data)
}

// WriteHTML renders into a buffer first so a template error can still turn
// into an error response. The returned error is the render error; nothing
// has been written to w in that case.
func WriteHTML(w http.ResponseWriter, status int, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("write html response failed", "error", err)
	}
	return nil
}

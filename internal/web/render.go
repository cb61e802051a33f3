package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/services/eventapps"
)

//go:embed templates
var templateFS embed.FS

// templates maps a page name to its parsed template set (layout + page).
var templates = mustParseTemplates()

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string { return t.Format("2006-01-02") },
	"dateValue":  func(t time.Time) string { return t.Format("2006-01-02") },
	"statusOK":   eventapps.IsStatusOK,
	"selected": func(values []string, v string) bool {
		for _, value := range values {
			if value == v {
				return true
			}
		}
		return false
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

func mustParseTemplates() map[string]*template.Template {
	pages, err := fs.Glob(templateFS, "templates/pages/*.tmpl")
	if err != nil {
		panic(err)
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".tmpl")
		tmpl, err := template.New("layout.tmpl").
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.tmpl", page)
		if err != nil {
			panic(fmt.Sprintf("parse template %s: %v", page, err))
		}
		parsed[name] = tmpl
	}
	return parsed
}

// page is the data envelope every template receives.
type page struct {
	CurrentUser *models.User
	Notice      string
	Errors      FieldErrors
	Data        interface{}
}

// render executes the named page template inside the layout. Field
// errors travel via renderWithErrors; plain renders have none.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, status int, data interface{}) {
	s.renderWithErrors(w, r, name, status, data, nil)
}

func (s *Server) renderWithErrors(w http.ResponseWriter, r *http.Request, name string, status int, data interface{}, errs FieldErrors) {
	tmpl, ok := templates[name]
	if !ok {
		log.Printf("render: unknown template %q", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := page{
		CurrentUser: CurrentUser(r.Context()),
		Notice:      s.sessions.PopFlash(w, r),
		Errors:      errs,
		Data:        data,
	}

	// Buffer so a template failure can still become a clean 500.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.tmpl", view); err != nil {
		log.Printf("render: execute template %q: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// serverError logs the error and renders a 500.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
)

const (
	layoutGlob = "templates/layouts/*.html"
	pageGlob   = "templates/pages/*.html"
)

// View holds one template set per page, each built on the shared layouts.
type View struct {
	pages map[string]*template.Template
}

// Viewer is the identity shown in the navigation bar.
type Viewer interface {
	IsAnonymous() bool
}

// Layout is what the base layout shows around every page.
type Layout struct {
	User  Viewer
	Flash string
}

// Page is the data a page template executes with.
type Page map[string]interface{}

// New parses the layouts once and clones them for every page in templateFS.
func New(templateFS fs.FS) (*View, error) {
	base, err := template.New("layouts").ParseFS(templateFS, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layouts: %w", err)
	}

	files, err := fs.Glob(templateFS, pageGlob)
	if err != nil {
		return nil, err
	}

	v := &View{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := path.Base(file)
		ts, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := ts.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.pages[name] = ts
	}
	return v, nil
}

// Render writes page name with status. A page without a State is Ready.
// Nothing is written when the template fails, so callers can still send an error page.
func (v *View) Render(w http.ResponseWriter, r *http.Request, status int, name string, layout Layout, page Page) error {
	ts, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data := make(map[string]interface{}, len(page)+4)
	for k, val := range page {
		data[k] = val
	}
	if _, ok := data["State"]; !ok {
		data["State"] = Ready()
	}
	data["UserInfo"] = layout.User
	data["Flash"] = layout.Flash
	data["IsBasicMode"] = IsBasicMode(r.Context())

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

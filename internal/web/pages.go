package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	pageSplit   = "index.html"
	pageFilter  = "excel-data-extractor.html"
	pageExtract = "excel-column-puller.html"
)

// page is one form page together with its static data.
type page struct {
	tmpl   *template.Template
	title  string
	active string
}

type pageData struct {
	Title       string
	Active      string
	MaxUploadMB int64
}

// loadPages parses every form page with the shared layout. The templates are
// embedded, so a parse failure is a build defect and panics.
func loadPages() map[string]*page {
	defs := []struct{ file, title, active string }{
		{pageSplit, "Split a workbook", "split"},
		{pageFilter, "Filter a workbook", "filter"},
		{pageExtract, "Pull a column", "extract"},
	}

	pages := make(map[string]*page, len(defs))
	for _, d := range defs {
		tmpl := template.Must(template.ParseFS(templateFiles, "templates/layout.html", "templates/"+d.file))
		pages[d.file] = &page{tmpl: tmpl, title: d.title, active: d.active}
	}
	return pages
}

// handlePage renders the upload form named by file.
func (s *Server) handlePage(file string) http.HandlerFunc {
	p := s.pages[file]
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Title:       p.title,
			Active:      p.active,
			MaxUploadMB: s.cfg.Upload.MaxFileSize >> 20,
		}

		var buf bytes.Buffer
		if err := p.tmpl.ExecuteTemplate(&buf, file, data); err != nil {
			respondError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		buf.WriteTo(w)
	}
}

package site

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"

	"github.com/esiddiqui/agriwell/bootstrap"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	templatePage    = "page.html"
	templateLoading = "loading.html"
)

// pageView is what the page templates render
type pageView struct {
	Content   Content
	State     bootstrap.State
	CsrfField template.HTML
}

// parseTemplates loads the embedded page templates. Content strings marked as
// markdown go through goldmark, raw html in them is not rendered.
func parseTemplates() (*template.Template, error) {
	md := goldmark.New()
	funcs := template.FuncMap{
		"markdown": func(src string) (template.HTML, error) {
			var buf bytes.Buffer
			if err := md.Convert([]byte(src), &buf); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	}
	return template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// render executes the named template into a buffer so a failure never
// leaves a half written page behind
func render(t *template.Template, name string, view pageView) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func staticFiles() fs.FS {
	return staticFS
}

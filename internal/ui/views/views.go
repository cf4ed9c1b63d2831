// Package views holds the embedded HTML templates for the web UI. The page
// template server-renders the full document; the named fragments are
// re-rendered for SSE patches.
package views

import (
	"embed"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

// Render executes the named template into w.
func Render(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}

// RenderString executes the named template and returns the markup.
// SSE patches use this to hand complete fragments to datastar.
func RenderString(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

// IsDev reports whether this binary was built with the dev tag.
const IsDev = false

//go:embed static/*
var staticFS embed.FS

// Handler serves the embedded static files. They cannot change for the
// lifetime of the binary, so they are cached hard.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}

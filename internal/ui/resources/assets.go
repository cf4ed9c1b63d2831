// Package resources serves the web UI's static assets. Production builds
// embed them; the dev build tag serves them from disk so stylesheet edits
// show up on reload.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}

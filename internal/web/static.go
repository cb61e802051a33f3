package web

import (
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// staticHandler serves the embedded stylesheet and any future assets.
func staticHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}

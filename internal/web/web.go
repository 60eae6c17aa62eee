// Package web embeds the map widget served at the site root.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// Handler serves the embedded static assets.
func Handler() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err) // the embed path is fixed at compile time
	}
	return http.FileServer(http.FS(sub))
}

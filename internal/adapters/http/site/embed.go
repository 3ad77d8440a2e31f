package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed static/* templates/*
var siteFS embed.FS

var boardTemplate = template.Must(template.ParseFS(siteFS, "templates/board.html"))

// StaticFS returns an http.FileSystem for the embedded assets.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(siteFS, "static")
	if err != nil {
		return http.FS(siteFS)
	}
	return http.FS(sub)
}

// Package web holds the embedded HTML for the conversion form
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.html")
}

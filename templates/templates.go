// Package templates embeds the console's HTML and parses it for gin.
package templates

import (
	"embed"
	"html/template"

	"product-admin/views"
)

//go:embed *.html
var files embed.FS

// BrokenImage is shown when an image value cannot be rendered.
const BrokenImage = "https://via.placeholder.com/300x250/667eea/ffffff?text=Image+Not+Available"

// Funcs are the helpers available inside every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// imageURL trusts data:image and http(s) values; anything else is
		// swapped for the broken-image graphic.
		"imageURL": func(v string) template.URL {
			if views.IsPreviewableImage(v) {
				return template.URL(v)
			}
			return template.URL(BrokenImage)
		},
	}
}

// Parse loads every embedded template.
func Parse() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "*.html")
}

package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// IndexTemplate is the name of the prediction page.
const IndexTemplate = "index.tmpl"

var funcs = template.FuncMap{
	"km": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.0f km", *v)
	},
	"fixed": func(prec int, v float64) string {
		return fmt.Sprintf("%.*f", prec, v)
	},
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.tmpl")
}

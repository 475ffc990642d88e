package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/spigell/resume-insight/internal/projection"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"has": func(v *projection.View, s string) bool {
		return v != nil && v.Has(projection.Section(s))
	},
	"contactLabel": ContactLabel,
	"title": func(s string) string {
		return SectionTitles[projection.Section(s)]
	},
}).ParseFS(templateFS, "templates/*.html"))

// Page is everything the upload page shows. Notice is a validation problem,
// Error a failed submission; both may be empty.
type Page struct {
	Accept   string
	MaxSize  string
	Filename string
	Notice   string
	Error    string
	View     *projection.View
}

// HTML writes the upload page, including the results when View is set.
func HTML(w io.Writer, p Page) error {
	return pageTemplate.ExecuteTemplate(w, "page.html", p)
}

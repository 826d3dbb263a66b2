package export

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/report.html
var templatesFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templatesFS, "templates/report.html"))

type printRenderer struct{}

func (printRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (printRenderer) Attachment() bool    { return false }
func (printRenderer) Extension() string   { return "html" }

// Render writes a printable HTML page. Descriptions are escaped.
func (printRenderer) Render(w io.Writer, r Report) error {
	return reportTemplate.Execute(w, r)
}

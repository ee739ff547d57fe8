package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/report.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

type pageData struct {
	Doc    Document
	Logo   template.URL
	Widths []template.CSS
}

// HTML lays out doc as a single landscape letter page. logo is an optional
// data URI produced by LoadLogo.
func HTML(doc Document, logo string) ([]byte, error) {
	data := pageData{
		Doc:    doc,
		Logo:   template.URL(logo),
		Widths: make([]template.CSS, len(columnWidths)),
	}
	for i, w := range columnWidths {
		data.Widths[i] = template.CSS(fmt.Sprintf("width: %gin", w))
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

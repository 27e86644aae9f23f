package report

import (
	"html/template"
	"io"

	"github.com/nao1215/linkscan/internal/model"
)

// HTMLWriter outputs a standalone HTML page containing the link table.
//
// All cell values pass through html/template's contextual escaping, so
// anchor text and URLs harvested from arbitrary pages cannot inject markup
// into the report.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

var htmlPage = template.Must(template.New("links").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Scraping Results</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; font-size: 0.85em; }
th { background: #f0f0f0; }
tr:nth-child(even) { background: #fafafa; }
</style>
</head>
<body>
<h1>Scraping Results</h1>
<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`))

// htmlData feeds the page template.
type htmlData struct {
	Header []string
	Rows   [][]string
}

// WriteResult renders the result's link table as an HTML page.
func (w *HTMLWriter) WriteResult(result *model.CrawlResult) (int, error) {
	return w.WriteLinks(result.Links)
}

// WriteLinks renders the links as an HTML page.
func (w *HTMLWriter) WriteLinks(links []model.Link) (int, error) {
	validated := anyValidated(links)
	data := htmlData{Header: linkHeader(links)}
	data.Rows = make([][]string, 0, len(links))
	for i := range links {
		data.Rows = append(data.Rows, linkRow(&links[i], validated))
	}

	cw := &countingWriter{w: w.output}
	if err := htmlPage.Execute(cw, data); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

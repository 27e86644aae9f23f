package report

import (
	"encoding/csv"
	"io"

	"github.com/nao1215/linkscan/internal/model"
)

// CSVWriter outputs the link table in CSV format with one row per link.
// The column set matches the JSON field names, so spreadsheet users and
// API consumers see the same schema.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// WriteResult outputs the result's link table in CSV format. Pages and
// crawl counters have no tabular shape here; the JSON format carries them.
func (w *CSVWriter) WriteResult(result *model.CrawlResult) (int, error) {
	return w.WriteLinks(result.Links)
}

// WriteLinks outputs the links as CSV, header row included.
func (w *CSVWriter) WriteLinks(links []model.Link) (int, error) {
	cw := &countingWriter{w: w.output}
	enc := csv.NewWriter(cw)

	if err := enc.Write(linkHeader(links)); err != nil {
		return cw.n, err
	}
	validated := anyValidated(links)
	for i := range links {
		if err := enc.Write(linkRow(&links[i], validated)); err != nil {
			return cw.n, err
		}
	}
	enc.Flush()
	return cw.n, enc.Error()
}

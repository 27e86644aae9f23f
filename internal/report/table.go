package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/linkscan/internal/model"
)

const (
	// tableMaxRows is how many links the table preview shows before
	// collapsing the rest into an ellipsis row.
	tableMaxRows = 10

	// tableCellLimit is the longest cell the table renders before
	// truncating with an ellipsis.
	tableCellLimit = 50
)

// TableWriter renders an aligned text preview of the link table for
// terminal display: at most ten rows, long cells truncated, an ellipsis
// row marking elided links. Complete data belongs to the file formats.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TableWriter struct {
	baseWriter
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer) *TableWriter {
	return &TableWriter{baseWriter: newBaseWriter(output)}
}

// WriteResult renders the result's link table.
func (w *TableWriter) WriteResult(result *model.CrawlResult) (int, error) {
	return w.WriteLinks(result.Links)
}

// WriteLinks renders the link preview table.
func (w *TableWriter) WriteLinks(links []model.Link) (int, error) {
	cw := &countingWriter{w: w.output}
	header := linkHeader(links)
	validated := anyValidated(links)

	if _, err := fmt.Fprintf(cw, "Scraping Results\n\n"); err != nil {
		return cw.n, err
	}

	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return cw.n, err
	}
	for i := range links {
		if i == tableMaxRows {
			ellipsis := make([]string, len(header))
			for j := range ellipsis {
				ellipsis[j] = "..."
			}
			if _, err := fmt.Fprintln(tw, strings.Join(ellipsis, "\t")); err != nil {
				return cw.n, err
			}
			break
		}

		row := linkRow(&links[i], validated)
		for j, cell := range row {
			row[j] = truncateString(cell, tableCellLimit)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return cw.n, err
		}
	}
	if err := tw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

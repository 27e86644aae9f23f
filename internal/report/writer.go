package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/linkscan/internal/model"
)

// Format identifies a report output format.
type Format string

// Supported output formats.
const (
	// FormatTable renders an aligned text preview for terminals.
	FormatTable Format = "table"
	// FormatJSON renders the full result as indented JSON.
	FormatJSON Format = "json"
	// FormatCSV renders the link table as CSV.
	FormatCSV Format = "csv"
	// FormatHTML renders a standalone HTML page with the link table.
	FormatHTML Format = "html"
	// FormatMarkdown renders a Markdown report with summary tables.
	FormatMarkdown Format = "markdown"
	// FormatXLSX renders an Excel workbook with links, pages and summary
	// sheets.
	FormatXLSX Format = "xlsx"
)

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if this is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatCSV, FormatHTML, FormatMarkdown, FormatXLSX:
		return true
	default:
		return false
	}
}

// ParseFormat normalizes a CLI format token. "md" is accepted as an alias
// for markdown.
func ParseFormat(s string) (Format, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	if token == "md" {
		token = string(FormatMarkdown)
	}
	f := Format(token)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown output format %q", s)
	}
	return f, nil
}

// Writer renders crawl output in one format.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// WriteResult renders a complete crawl result.
	// Returns the number of bytes written and any error encountered.
	WriteResult(result *model.CrawlResult) (int, error)

	// WriteLinks renders a bare link list, as produced by the links
	// command and by links-only crawls.
	WriteLinks(links []model.Link) (int, error)
}

// NewWriter creates the writer for the given format, sending output to w.
func NewWriter(format Format, w io.Writer) (Writer, error) {
	switch format {
	case FormatTable:
		return NewTableWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, WithPrettyPrint()), nil
	case FormatCSV:
		return NewCSVWriter(w), nil
	case FormatHTML:
		return NewHTMLWriter(w), nil
	case FormatMarkdown:
		return NewMarkdownWriter(w), nil
	case FormatXLSX:
		return NewXLSXWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write crawl results, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteResult renders the result through all configured Writers.
// Returns the total bytes written across all writers.
// Stops on the first error encountered.
func (m *MultiWriter) WriteResult(result *model.CrawlResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteResult(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteLinks renders the link list through all configured Writers.
func (m *MultiWriter) WriteLinks(links []model.Link) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteLinks(links)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter tracks how many bytes passed through, so writers built on
// encoders that do not report totals can still return them.
type countingWriter struct {
	w io.Writer
	n int
}

// Write forwards to the wrapped writer and accumulates the byte count.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// linkColumns is the column order for tabular link output. Validation
// columns are appended only when at least one link carries probe results.
var linkColumns = []string{
	"url", "text", "domain", "path", "query", "fragment",
	"is_internal", "is_subdomain", "link_type", "source",
	"original_href", "found_on_page",
}

// probeColumns extend linkColumns for validated link lists.
var probeColumns = []string{"status_code", "is_accessible", "error"}

// anyValidated reports whether any link carries probe results.
func anyValidated(links []model.Link) bool {
	for i := range links {
		if links[i].Validated() {
			return true
		}
	}
	return false
}

// linkHeader returns the column names for the given link list.
func linkHeader(links []model.Link) []string {
	if !anyValidated(links) {
		return linkColumns
	}
	header := make([]string, 0, len(linkColumns)+len(probeColumns))
	header = append(header, linkColumns...)
	return append(header, probeColumns...)
}

// linkRow flattens one link into values matching linkHeader's order.
func linkRow(l *model.Link, validated bool) []string {
	row := []string{
		l.URL, l.Text, l.Domain, l.Path, l.Query, l.Fragment,
		strconv.FormatBool(l.IsInternal), strconv.FormatBool(l.IsSubdomain),
		l.LinkType.String(), l.Source.String(),
		l.OriginalHref, l.FoundOnPage,
	}
	if !validated {
		return row
	}

	status, accessible := "", ""
	if l.StatusCode != nil {
		status = strconv.Itoa(*l.StatusCode)
	}
	if l.IsAccessible != nil {
		accessible = strconv.FormatBool(*l.IsAccessible)
	}
	return append(row, status, accessible, l.Error)
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

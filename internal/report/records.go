package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/markdown"
	"github.com/xuri/excelize/v2"
)

// RecordSet is loosely structured extraction output: ordered column names
// plus one value map per row. The link writers cover crawl results; record
// sets cover rules, selector and content extraction, whose columns depend
// on user input.
type RecordSet struct {
	// Columns fixes the column order for tabular formats.
	Columns []string

	// Rows holds one value map per record. Missing keys render as empty
	// cells.
	Rows []map[string]any
}

// WriteRecords renders the record set to w in the given format.
//
// JSON output marshals the raw rows with sorted keys; callers holding a
// typed value should marshal it directly so field order survives.
func WriteRecords(format Format, w io.Writer, set RecordSet) (int, error) {
	switch format {
	case FormatJSON:
		return writeRecordsJSON(w, set)
	case FormatCSV:
		return writeRecordsCSV(w, set)
	case FormatTable:
		return writeRecordsTable(w, set)
	case FormatHTML:
		return writeRecordsHTML(w, set)
	case FormatMarkdown:
		return writeRecordsMarkdown(w, set)
	case FormatXLSX:
		return writeRecordsXLSX(w, set)
	default:
		return 0, fmt.Errorf("unknown output format %q", format)
	}
}

// cells flattens one row into the column order.
func (s RecordSet) cells(row map[string]any) []string {
	out := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		out[i] = cellString(row[col])
	}
	return out
}

// cellString renders one loosely typed value as a cell. Structured values
// render as JSON so they stay parseable.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

func writeRecordsJSON(w io.Writer, set RecordSet) (int, error) {
	rows := set.Rows
	if rows == nil {
		rows = []map[string]any{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.Write(data)
}

func writeRecordsCSV(w io.Writer, set RecordSet) (int, error) {
	cw := &countingWriter{w: w}
	enc := csv.NewWriter(cw)
	if err := enc.Write(set.Columns); err != nil {
		return cw.n, err
	}
	for _, row := range set.Rows {
		if err := enc.Write(set.cells(row)); err != nil {
			return cw.n, err
		}
	}
	enc.Flush()
	return cw.n, enc.Error()
}

func writeRecordsTable(w io.Writer, set RecordSet) (int, error) {
	cw := &countingWriter{w: w}
	if _, err := fmt.Fprintf(cw, "Scraping Results\n\n"); err != nil {
		return cw.n, err
	}

	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(set.Columns, "\t")); err != nil {
		return cw.n, err
	}
	for i, row := range set.Rows {
		if i == tableMaxRows {
			ellipsis := make([]string, len(set.Columns))
			for j := range ellipsis {
				ellipsis[j] = "..."
			}
			if _, err := fmt.Fprintln(tw, strings.Join(ellipsis, "\t")); err != nil {
				return cw.n, err
			}
			break
		}

		cells := set.cells(row)
		for j, cell := range cells {
			cells[j] = truncateString(cell, tableCellLimit)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return cw.n, err
		}
	}
	if err := tw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func writeRecordsHTML(w io.Writer, set RecordSet) (int, error) {
	data := htmlData{Header: set.Columns}
	data.Rows = make([][]string, 0, len(set.Rows))
	for _, row := range set.Rows {
		data.Rows = append(data.Rows, set.cells(row))
	}

	cw := &countingWriter{w: w}
	if err := htmlPage.Execute(cw, data); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func writeRecordsMarkdown(w io.Writer, set RecordSet) (int, error) {
	md := markdown.NewMarkdown(w)
	md.H1("Extraction Results")
	md.PlainText("")

	rows := make([][]string, 0, len(set.Rows))
	for _, row := range set.Rows {
		cells := set.cells(row)
		for j, cell := range cells {
			cells[j] = truncateString(cell, tableCellLimit)
		}
		rows = append(rows, cells)
	}
	md.Table(markdown.TableSet{Header: set.Columns, Rows: rows})

	return len(md.String()), md.Build()
}

func writeRecordsXLSX(w io.Writer, set RecordSet) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return 0, fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, sheet, 1, set.Columns); err != nil {
		return 0, err
	}
	for i, row := range set.Rows {
		if err := setRow(f, sheet, i+2, set.cells(row)); err != nil {
			return 0, err
		}
	}

	n, err := f.WriteTo(w)
	if err != nil {
		return int(n), fmt.Errorf("write workbook: %w", err)
	}
	return int(n), nil
}

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/linkscan/internal/model"
)

// Workbook sheet names.
const (
	sheetLinks   = "Links"
	sheetPages   = "Pages"
	sheetSummary = "Summary"
)

// XLSXWriter outputs results as an Excel workbook.
//
// Design decision: We build the workbook with excelize because:
// 1. Spreadsheet users can filter and sort links without extra tooling
// 2. Separate sheets keep links, pages and the crawl summary together
// 3. The workbook streams to any io.Writer like the other formats
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// WriteResult renders the full crawl result as a workbook with Links,
// Pages and Summary sheets.
func (w *XLSXWriter) WriteResult(result *model.CrawlResult) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeLinkSheet(f, result.Links); err != nil {
		return 0, err
	}
	if err := writePageSheet(f, result.Pages); err != nil {
		return 0, err
	}
	if err := writeSummarySheet(f, result.CrawlInfo); err != nil {
		return 0, err
	}

	return w.flush(f)
}

// WriteLinks renders a bare link list as a workbook holding only the
// link sheet.
func (w *XLSXWriter) WriteLinks(links []model.Link) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeLinkSheet(f, links); err != nil {
		return 0, err
	}
	return w.flush(f)
}

// flush streams the workbook to the output writer.
func (w *XLSXWriter) flush(f *excelize.File) (int, error) {
	n, err := f.WriteTo(w.output)
	if err != nil {
		return int(n), fmt.Errorf("write workbook: %w", err)
	}
	return int(n), nil
}

// writeLinkSheet turns the default sheet into the link table.
func writeLinkSheet(f *excelize.File, links []model.Link) error {
	if err := f.SetSheetName(f.GetSheetName(0), sheetLinks); err != nil {
		return fmt.Errorf("rename link sheet: %w", err)
	}

	if err := setRow(f, sheetLinks, 1, linkHeader(links)); err != nil {
		return err
	}
	validated := anyValidated(links)
	for i := range links {
		if err := setRow(f, sheetLinks, i+2, linkRow(&links[i], validated)); err != nil {
			return err
		}
	}

	// Keep URLs readable without manual resizing.
	if err := f.SetColWidth(sheetLinks, "A", "A", 60); err != nil {
		return fmt.Errorf("size url column: %w", err)
	}
	return nil
}

// writePageSheet adds the per-page summary sheet.
func writePageSheet(f *excelize.File, pages []model.PageRecord) error {
	if _, err := f.NewSheet(sheetPages); err != nil {
		return fmt.Errorf("create page sheet: %w", err)
	}

	header := []string{
		"url", "depth", "title", "links_on_page",
		"internal_links", "external_links", "subdomain_links",
		"files_found", "comments_count",
	}
	if err := setRow(f, sheetPages, 1, header); err != nil {
		return err
	}
	for i, p := range pages {
		row := []string{
			p.URL, strconv.Itoa(p.Depth), p.Title,
			strconv.Itoa(p.LinksOnPage), strconv.Itoa(p.InternalLinks),
			strconv.Itoa(p.ExternalLinks), strconv.Itoa(p.SubdomainLinks),
			strconv.Itoa(p.FilesFound), strconv.Itoa(p.CommentsCount),
		}
		if err := setRow(f, sheetPages, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetPages, "A", "A", 60); err != nil {
		return fmt.Errorf("size url column: %w", err)
	}
	return nil
}

// writeSummarySheet adds the crawl metadata sheet.
func writeSummarySheet(f *excelize.File, info model.CrawlInfo) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][]string{
		{"property", "value"},
		{"start_url", info.StartURL},
		{"base_domain", info.BaseDomain},
		{"pages_crawled", strconv.Itoa(info.PagesCrawled)},
		{"max_depth", strconv.Itoa(info.MaxDepth)},
		{"total_links", strconv.Itoa(info.TotalLinks)},
		{"files_found", strconv.Itoa(info.FilesFound)},
		{"duration_seconds", strconv.FormatFloat(info.DurationSeconds, 'f', 2, 64)},
		{"interrupted", strconv.FormatBool(info.Interrupted)},
	}
	for i, row := range rows {
		if err := setRow(f, sheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

// setRow writes one row of string cells starting at column A.
func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

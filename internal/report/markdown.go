package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/linkscan/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteResult outputs the full crawl result in Markdown format.
func (w *MarkdownWriter) WriteResult(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result.CrawlInfo)
	w.writeTypeChart(md, result.Links)
	w.writeValidationAlert(md, result)
	w.writeLinksTable(md, result.Links)
	w.writePages(md, result.Pages)
	w.writeFiles(md, result.Files)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteLinks outputs just the link table in Markdown format.
func (w *MarkdownWriter) WriteLinks(links []model.Link) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Links")
	md.PlainText("")
	w.writeLinksTable(md, links)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, info model.CrawlInfo) {
	md.H1("Link Scan Report")
	md.PlainText("")

	rows := [][]string{
		{"Start URL", "`" + info.StartURL + "`"},
		{"Base Domain", "`" + info.BaseDomain + "`"},
		{"Pages Crawled", strconv.Itoa(info.PagesCrawled)},
		{"Max Depth", strconv.Itoa(info.MaxDepth)},
		{"Total Links", strconv.Itoa(info.TotalLinks)},
	}
	if info.FilesFound > 0 {
		rows = append(rows, []string{"Files Found", strconv.Itoa(info.FilesFound)})
	}
	rows = append(rows,
		[]string{"Duration", fmt.Sprintf("%.2fs", info.DurationSeconds)},
		[]string{"Status", statusText(info)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// statusText returns the status text based on crawl state.
func statusText(info model.CrawlInfo) string {
	if info.Interrupted {
		return "⚠️ Interrupted (partial results)"
	}
	return "✅ Complete"
}

// writeTypeChart writes a mermaid pie chart for the link type distribution.
func (w *MarkdownWriter) writeTypeChart(md *markdown.Markdown, links []model.Link) {
	if len(links) == 0 {
		return
	}

	counts := make(map[model.LinkType]int)
	for i := range links {
		counts[links[i].LinkType]++
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Link Type Distribution"),
		piechart.WithShowData(true),
	)
	for _, t := range []model.LinkType{
		model.LinkTypePage, model.LinkTypeImage, model.LinkTypeDocument,
		model.LinkTypeVideo, model.LinkTypeAudio, model.LinkTypeArchive,
		model.LinkTypeCode, model.LinkTypeAPI, model.LinkTypeOther,
	} {
		if n := counts[t]; n > 0 {
			chart.LabelAndIntValue(typeLabel(t), uint64(n))
		}
	}

	md.H2("Link Types")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeValidationAlert summarizes probe outcomes when validation ran.
func (w *MarkdownWriter) writeValidationAlert(md *markdown.Markdown, result *model.CrawlResult) {
	if !anyValidated(result.Links) {
		return
	}

	validated := 0
	for i := range result.Links {
		if result.Links[i].Validated() {
			validated++
		}
	}
	accessible := result.AccessibleLinks()

	if broken := validated - accessible; broken > 0 {
		md.Warningf("%d of %d validated links are not accessible.", broken, validated)
	} else {
		md.Tip("All validated links are accessible.")
	}
	md.PlainText("")
}

// writeLinksTable writes the link table.
func (w *MarkdownWriter) writeLinksTable(md *markdown.Markdown, links []model.Link) {
	md.H2("Links")
	md.PlainText("")

	if len(links) == 0 {
		md.PlainText("No links found.")
		md.PlainText("")
		return
	}

	validated := anyValidated(links)
	header := []string{"URL", "Text", "Type", "Source", "Scope"}
	if validated {
		header = append(header, "Status")
	}

	rows := make([][]string, 0, len(links))
	for i := range links {
		l := &links[i]
		row := []string{
			truncateString(l.URL, 60),
			truncateString(orDash(l.Text), 40),
			l.LinkType.String(),
			l.Source.String(),
			scopeText(l),
		}
		if validated {
			row = append(row, probeText(l))
		}
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

// typeLabel returns the chart label for a link type.
// The table columns keep the raw type tokens so they match the
// CSV and JSON output; only the chart uses display casing.
func typeLabel(t model.LinkType) string {
	if t == model.LinkTypeAPI {
		return "API"
	}
	return cases.Title(language.English).String(t.String())
}

// scopeText renders the most specific scope label for a link.
func scopeText(l *model.Link) string {
	switch {
	case l.IsSubdomain:
		return "subdomain"
	case l.IsInternal:
		return "internal"
	default:
		return "external"
	}
}

// probeText renders a probe outcome as a short status cell.
func probeText(l *model.Link) string {
	if !l.Validated() {
		return "-"
	}
	if l.Error != "" {
		return "failed"
	}
	return strconv.Itoa(*l.StatusCode)
}

// orDash substitutes a dash for empty cell values.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// writePages writes the per-page summary table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, pages []model.PageRecord) {
	if len(pages) == 0 {
		return
	}

	md.H2("Pages")
	md.PlainText("")

	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, []string{
			truncateString(p.URL, 60),
			strconv.Itoa(p.Depth),
			truncateString(orDash(p.Title), 40),
			strconv.Itoa(p.LinksOnPage),
			strconv.Itoa(p.InternalLinks),
			strconv.Itoa(p.ExternalLinks),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Depth", "Title", "Links", "Internal", "External"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFiles lists the links matched by the extension filter.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, files []model.Link) {
	if len(files) == 0 {
		return
	}

	md.H2("Files")
	md.PlainText("")
	items := make([]string, 0, len(files))
	for i := range files {
		items = append(items, files[i].URL)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by linkscan*")
}

// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - TableWriter: Aligned text preview for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - CSVWriter: Flat link table for spreadsheets and scripting
//   - HTMLWriter: Standalone HTML page with the link table
//   - MarkdownWriter: Markdown report with summary tables and charts
//   - XLSXWriter: Excel workbook with links, pages and summary sheets
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report

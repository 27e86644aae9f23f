// Package main provides the entry point for the linkscan CLI.
//
// linkscan is a site crawling and link classification tool. It walks a
// site from a seed URL, classifies every discovered link as internal,
// subdomain, or external, and renders the results as JSON, CSV, table,
// HTML, Markdown, or XLSX reports.
//
// Usage:
//
//	linkscan scrape <url>
//	linkscan links <url>
//	linkscan extract <url> <rules.json>
//
// See --help for all available options.
package main

// main is the entry point for linkscan.
func main() {
	Execute()
}

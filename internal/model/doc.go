// Package model defines the core data structures used throughout linkscan.
//
// This package contains the following main types:
//   - Link: One classified hyperlink with its resolved URL and DOM context
//   - PageRecord: Per-page crawl summary with link counters
//   - Comment: A developer comment extracted from markup or scripts
//   - CrawlResult: The complete output of one crawl invocation
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, filter, validate, report, database)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// snapshot storage.
package model

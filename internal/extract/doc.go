// Package extract provides single-page extraction outside the crawl loop.
//
// Three modes are supported:
//   - Rules: a JSON rules file maps output fields to CSS selectors and
//     attributes, applied in one pass against a fetched page.
//   - Content: a readability-based page summary with title, text length
//     and a bounded content preview, optionally including page comments.
//   - Selector: one record per element matching a user CSS selector,
//     carrying text, outer markup and attributes.
//
// All modes operate on an already fetched Response and never fetch
// themselves. Per-element failures are skipped; only configuration input
// (rules file, selector syntax) produces errors.
package extract

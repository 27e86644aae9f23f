// Package crawler walks a website breadth-first and turns every page into
// classified link records.
//
// # Architecture
//
// The package is designed around the Engine type, which coordinates the
// crawl. A shared CrawlState holds the frontier queue, the visited set and
// the page budget; the Extractor turns one fetched page into model.Link
// values with domain, type and source classification already applied.
//
// Design decision: the crawl is breadth-first with a page budget charged at
// claim time because:
//  1. Shallow pages are usually the interesting ones, so they should win
//     when the budget cuts the crawl short.
//  2. Charging the budget before the fetch keeps dead pages from letting
//     the crawl run past its configured size.
//  3. Claims serialize through one mutex, so concurrent workers cannot
//     overshoot the budget.
//
// # Components
//
//   - Engine: coordinates the crawl and assembles the CrawlResult
//   - CrawlState: frontier queue, visited set and budget accounting
//   - Extractor: per-page link extraction and classification
//
// # Concurrency
//
// With WithWorkers(n), pages of one depth level are fetched as a bounded
// wave of goroutines and the next level starts only after the wave
// finishes. Level synchronization keeps the visit order breadth-first, so
// sequential and concurrent crawls of the same site agree on which pages
// the budget admits.
//
// # Usage
//
//	engine := crawler.NewEngine(httpFetcher, crawler.WithMaxDepth(3))
//	result, err := engine.Crawl(ctx, "https://example.com")
//
// Cancelling the context stops the crawl after the current page; the
// partial result is returned alongside the context error and is marked
// interrupted.
package crawler

// Package fetcher retrieves pages for the crawl engine and the validator.
//
// Two implementations exist behind the Fetcher interface: HTTPFetcher for
// plain HTTP(S) with charset decoding and optional request pacing, and
// RenderFetcher for JavaScript-heavy pages via headless Chrome with an HTTP
// fallback. Both funnel markup through ParseResponse, and all element access
// goes through the Response/Element surface so nothing outside this package
// handles DOM types directly.
package fetcher

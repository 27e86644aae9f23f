// Package validate probes extracted links for reachability.
//
// Validation runs after the crawl and its deduplication pass, so each
// unique URL is probed at most once. Probes are HEAD requests issued in
// link order; results are written back onto the links themselves as
// status code, accessibility, and error message.
package validate

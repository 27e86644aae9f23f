package model

// CrawlInfo aggregates run-level counters for one crawl.
type CrawlInfo struct {
	// StartURL is the seed URL the crawl began from.
	StartURL string `json:"start_url"`

	// BaseDomain is the host of the seed URL. Link classification is
	// relative to this domain.
	BaseDomain string `json:"base_domain"`

	// PagesCrawled counts claimed pages, including fetch attempts that
	// failed. It never exceeds the configured page limit.
	PagesCrawled int `json:"pages_crawled"`

	// MaxDepth is the configured depth bound.
	MaxDepth int `json:"max_depth"`

	// TotalLinks is the number of links in the final result, after filters
	// and deduplication.
	TotalLinks int `json:"total_links"`

	// FilesFound is the number of links matching the extension filter.
	// Zero when no extension filter is configured.
	FilesFound int `json:"files_found"`

	// DurationSeconds is the wall-clock duration of the crawl.
	DurationSeconds float64 `json:"duration_seconds"`

	// Interrupted is set when the crawl was cancelled before the frontier
	// was exhausted. The rest of the result holds everything accumulated up
	// to that point.
	Interrupted bool `json:"interrupted,omitempty"`
}

// CrawlResult is the complete output of one crawl invocation.
type CrawlResult struct {
	// CrawlInfo holds the run-level counters.
	CrawlInfo CrawlInfo `json:"crawl_info"`

	// Pages lists every successfully fetched page in visit order.
	Pages []PageRecord `json:"pages"`

	// Links lists the filtered links accumulated across all pages.
	Links []Link `json:"links"`

	// Files lists the links matching the extension filter. Present only
	// when an extension filter was configured.
	Files []Link `json:"files,omitempty"`
}

// AccessibleLinks counts validated links whose probe succeeded with a status
// below 400. Unvalidated links are not counted.
func (r *CrawlResult) AccessibleLinks() int {
	n := 0
	for i := range r.Links {
		if r.Links[i].IsAccessible != nil && *r.Links[i].IsAccessible {
			n++
		}
	}
	return n
}

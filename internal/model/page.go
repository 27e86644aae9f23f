package model

// PageRecord summarizes one crawled page. The link counts are taken over the
// page's full extracted link set, before any filter pipeline runs, so the
// record reflects what was actually on the page.
type PageRecord struct {
	// URL is the page URL as it was dequeued from the frontier.
	URL string `json:"url"`

	// Depth is the BFS depth the page was reached at. The seed page is 0.
	Depth int `json:"depth"`

	// Title is the text of the <title> element, trimmed. Empty when absent.
	Title string `json:"title"`

	// LinksOnPage is the number of links extracted from the page.
	LinksOnPage int `json:"links_on_page"`

	// InternalLinks counts extracted links classified as internal.
	InternalLinks int `json:"internal_links"`

	// ExternalLinks counts extracted links that are neither internal nor
	// subdomain links.
	ExternalLinks int `json:"external_links"`

	// SubdomainLinks counts extracted links pointing at subdomains.
	SubdomainLinks int `json:"subdomain_links"`

	// FilesFound counts extracted links matching the active extension
	// filter. Zero when no extension filter is configured.
	FilesFound int `json:"files_found"`

	// Comments holds the page's extracted comments when comment extraction
	// is enabled.
	Comments []Comment `json:"comments,omitempty"`

	// CommentsCount is len(Comments) after comment filters were applied.
	CommentsCount int `json:"comments_count,omitempty"`

	// CommentTypes breaks CommentsCount down by comment type.
	CommentTypes map[string]int `json:"comment_types,omitempty"`
}

// SetComments stores filtered comments on the record along with the derived
// count and per-type breakdown.
func (p *PageRecord) SetComments(comments []Comment) {
	p.Comments = comments
	p.CommentsCount = len(comments)
	p.CommentTypes = CountByType(comments)
}

// CountLinks fills the link counters from the page's extracted link set.
// A subdomain link that counts as internal contributes to both counters, so
// the three counts can sum to more than LinksOnPage.
func (p *PageRecord) CountLinks(links []Link) {
	p.LinksOnPage = len(links)
	p.InternalLinks = 0
	p.ExternalLinks = 0
	p.SubdomainLinks = 0
	for _, l := range links {
		if l.IsInternal {
			p.InternalLinks++
		}
		if l.IsSubdomain {
			p.SubdomainLinks++
		}
		if !l.IsInternal && !l.IsSubdomain {
			p.ExternalLinks++
		}
	}
}

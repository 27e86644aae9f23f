package model

// LinkType categorizes a link target by the file extension of its URL path.
// Links without a recognized extension fall back to the api/page/other rules
// implemented in the classify package.
type LinkType string

// Link type constants.
const (
	// LinkTypeImage represents image files (jpg, png, svg, ...).
	LinkTypeImage LinkType = "image"
	// LinkTypeDocument represents office and text documents (pdf, docx, ...).
	LinkTypeDocument LinkType = "document"
	// LinkTypeVideo represents video files (mp4, webm, ...).
	LinkTypeVideo LinkType = "video"
	// LinkTypeAudio represents audio files (mp3, ogg, ...).
	LinkTypeAudio LinkType = "audio"
	// LinkTypeArchive represents compressed archives (zip, tar, ...).
	LinkTypeArchive LinkType = "archive"
	// LinkTypeCode represents code and markup resources (js, css, html, ...).
	LinkTypeCode LinkType = "code"
	// LinkTypeAPI represents API-style endpoints (query strings, /api/ paths).
	LinkTypeAPI LinkType = "api"
	// LinkTypePage represents regular pages without a file extension.
	LinkTypePage LinkType = "page"
	// LinkTypeOther represents links with an unrecognized file extension.
	LinkTypeOther LinkType = "other"
)

// String returns the string representation of the LinkType.
func (t LinkType) String() string {
	return string(t)
}

// IsValid returns true if this is a known link type.
func (t LinkType) IsValid() bool {
	switch t {
	case LinkTypeImage, LinkTypeDocument, LinkTypeVideo, LinkTypeAudio,
		LinkTypeArchive, LinkTypeCode, LinkTypeAPI, LinkTypePage, LinkTypeOther:
		return true
	default:
		return false
	}
}

// SourceRegion identifies the DOM region a link was discovered in.
type SourceRegion string

// Source region constants, ordered by detection priority.
const (
	// SourceNavigation marks links found in navigation menus.
	SourceNavigation SourceRegion = "navigation"
	// SourceHeader marks links found in the page header.
	SourceHeader SourceRegion = "header"
	// SourceFooter marks links found in the page footer.
	SourceFooter SourceRegion = "footer"
	// SourceSidebar marks links found in sidebars.
	SourceSidebar SourceRegion = "sidebar"
	// SourceMainContent marks links found in the main content area.
	SourceMainContent SourceRegion = "main_content"
	// SourceBreadcrumb marks links found in breadcrumb trails.
	SourceBreadcrumb SourceRegion = "breadcrumb"
	// SourceContent is the default region when no heuristic matches.
	SourceContent SourceRegion = "content"
	// SourceUnknown marks links recovered by the fallback extractor, where
	// no element context is available.
	SourceUnknown SourceRegion = "unknown"
)

// String returns the string representation of the SourceRegion.
func (s SourceRegion) String() string {
	return string(s)
}

// IsValid returns true if this is a known source region.
func (s SourceRegion) IsValid() bool {
	switch s {
	case SourceNavigation, SourceHeader, SourceFooter, SourceSidebar,
		SourceMainContent, SourceBreadcrumb, SourceContent, SourceUnknown:
		return true
	default:
		return false
	}
}

// Link is one classified hyperlink discovered during extraction.
//
// Design decision: the resolved URL and the raw href are stored side by side
// because:
// 1. Deduplication happens on the raw href, before resolution
// 2. Classification and crawling need the absolute URL
// 3. Reports show users exactly what the markup contained
type Link struct {
	// URL is the absolute URL after resolving the href against the page URL.
	URL string `json:"url"`

	// Text is the trimmed anchor text. Empty for fallback-extracted links.
	Text string `json:"text"`

	// Domain is the host component of the resolved URL, including the port
	// when one is present.
	Domain string `json:"domain"`

	// Path is the path component of the resolved URL.
	Path string `json:"path"`

	// Query is the raw query string without the leading "?".
	Query string `json:"query"`

	// Fragment is the fragment identifier without the leading "#".
	Fragment string `json:"fragment"`

	// IsInternal reports whether the link stays on the crawl's base domain.
	// When subdomain inclusion is enabled, subdomain links count as internal.
	IsInternal bool `json:"is_internal"`

	// IsSubdomain reports whether the link points at a strict subdomain of
	// the base domain. Never true for the base domain itself.
	IsSubdomain bool `json:"is_subdomain"`

	// LinkType is the classified target type.
	LinkType LinkType `json:"link_type"`

	// Source is the DOM region the link was found in.
	Source SourceRegion `json:"source"`

	// OriginalHref is the trimmed href attribute value as written in the
	// markup.
	OriginalHref string `json:"original_href"`

	// FoundOnPage is the URL of the page the link was extracted from.
	FoundOnPage string `json:"found_on_page"`

	// StatusCode is the HTTP status returned by the validation probe.
	// Nil until the link has been validated; 0 when the probe failed.
	StatusCode *int `json:"status_code,omitempty"`

	// IsAccessible reports whether the probe returned a status below 400.
	// Nil until the link has been validated.
	IsAccessible *bool `json:"is_accessible,omitempty"`

	// Error holds the probe failure message, if any.
	Error string `json:"error,omitempty"`
}

// RecordProbe stores a validation outcome on the link. A failed probe is
// recorded as status 0 with the failure message.
func (l *Link) RecordProbe(status int, probeErr string) {
	accessible := probeErr == "" && status < 400
	l.StatusCode = &status
	l.IsAccessible = &accessible
	l.Error = probeErr
}

// Validated reports whether the link has been probed.
func (l *Link) Validated() bool {
	return l.StatusCode != nil
}

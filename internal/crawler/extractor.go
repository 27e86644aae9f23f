package crawler

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/nao1215/linkscan/internal/classify"
	"github.com/nao1215/linkscan/internal/fetcher"
	"github.com/nao1215/linkscan/internal/model"
)

// hrefAttrPattern recovers href values from raw markup when the DOM walk
// finds no anchors, which happens on pages whose links are assembled by
// templates the parser cannot see through.
var hrefAttrPattern = regexp.MustCompile(`href=["']([^"']+)["']`)

// Extractor turns a fetched page into classified links.
//
// Design decision: We classify during extraction rather than in a separate
// pass because:
//  1. Domain relationship, type, and region all need the same parsed URL
//  2. The engine filters and enqueues from one link slice
//  3. A page is extracted exactly once, so there is nothing to re-batch
type Extractor struct {
	// baseDomain is the host (including any port) of the crawl's start URL.
	baseDomain string

	// includeSubdomains widens "internal" to cover subdomain links.
	includeSubdomains bool

	logger *slog.Logger
}

// NewExtractor creates an extractor for one crawl target.
func NewExtractor(baseDomain string, includeSubdomains bool, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		baseDomain:        baseDomain,
		includeSubdomains: includeSubdomains,
		logger:            logger,
	}
}

// candidate is one href occurrence before resolution.
type candidate struct {
	rawHref string
	text    string
	element *fetcher.Element
}

// Extract returns every link on the page, classified and deduplicated by
// trimmed href (first occurrence wins, insertion order preserved). Links are
// resolved against pageURL, which is also recorded as found_on_page.
func (e *Extractor) Extract(resp *fetcher.Response, pageURL string) []model.Link {
	base, err := url.Parse(pageURL)
	if err != nil {
		e.logger.Warn("unparseable page URL, no links extracted", "url", pageURL, "error", err)
		return nil
	}

	candidates := anchorCandidates(resp)
	regions := buildRegionIndex(resp)
	if len(candidates) == 0 {
		candidates = fallbackCandidates(resp.Body)
	}

	seen := make(map[string]bool, len(candidates))
	var links []model.Link
	for _, c := range candidates {
		href := strings.TrimSpace(c.rawHref)
		if href == "" ||
			strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "javascript:") {
			continue
		}
		if seen[href] {
			continue
		}
		seen[href] = true

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}

		rel := classify.DomainRelationship(resolved.Host, e.baseDomain)
		isSubdomain := rel == classify.Subdomain
		resolvedURL := resolved.String()

		links = append(links, model.Link{
			URL:          resolvedURL,
			Text:         c.text,
			Domain:       resolved.Host,
			Path:         resolved.Path,
			Query:        resolved.RawQuery,
			Fragment:     resolved.Fragment,
			IsInternal:   rel == classify.Same || (e.includeSubdomains && isSubdomain),
			IsSubdomain:  isSubdomain,
			LinkType:     classify.LinkType(resolvedURL),
			Source:       linkSource(c, regions),
			OriginalHref: href,
			FoundOnPage:  pageURL,
		})
	}

	return links
}

// anchorCandidates collects every anchor element carrying an href.
func anchorCandidates(resp *fetcher.Response) []candidate {
	var out []candidate
	for _, el := range resp.Select("a") {
		href, ok := el.Attr("href")
		if !ok || href == "" {
			continue
		}
		out = append(out, candidate{
			rawHref: href,
			text:    el.Text(),
			element: el,
		})
	}
	return out
}

// fallbackCandidates scans raw markup for href attribute values. Recovered
// links have no text and no element, so their region stays unknown.
func fallbackCandidates(markup string) []candidate {
	var out []candidate
	for _, m := range hrefAttrPattern.FindAllStringSubmatch(markup, -1) {
		out = append(out, candidate{rawHref: m[1]})
	}
	return out
}

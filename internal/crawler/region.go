package crawler

import (
	"strings"

	"github.com/nao1215/linkscan/internal/fetcher"
	"github.com/nao1215/linkscan/internal/model"
)

// regionSelectors pairs each source region with the selectors whose anchors
// belong to it. Order is detection priority: the first region claiming an
// href keeps it.
var regionSelectors = []struct {
	region    model.SourceRegion
	selectors string
}{
	{model.SourceNavigation, `nav a, [class*="nav"] a, [id*="nav"] a, [class*="menu"] a, [id*="menu"] a`},
	{model.SourceHeader, `header a, [class*="header"] a, [id*="header"] a, [class*="banner"] a`},
	{model.SourceFooter, `footer a, [class*="footer"] a, [id*="footer"] a`},
	{model.SourceSidebar, `aside a, [class*="sidebar"] a, [id*="sidebar"] a, [class*="side"] a`},
	{model.SourceMainContent, `main a, [class*="main"] a, [class*="content"] a, article a`},
	{model.SourceBreadcrumb, `[class*="breadcrumb"] a, [id*="breadcrumb"] a, [class*="crumb"] a`},
}

// ancestorKeywords maps class/id substrings to regions, checked in priority
// order against the combined tokens of up to five ancestor elements.
var ancestorKeywords = []struct {
	region   model.SourceRegion
	keywords []string
}{
	{model.SourceNavigation, []string{"nav", "navigation", "menu"}},
	{model.SourceHeader, []string{"header", "banner", "top"}},
	{model.SourceFooter, []string{"footer", "bottom"}},
	{model.SourceSidebar, []string{"sidebar", "aside", "side"}},
	{model.SourceMainContent, []string{"main", "article", "content", "body"}},
	{model.SourceBreadcrumb, []string{"breadcrumb", "breadcrumbs", "crumb"}},
}

// Anchor-text and href-path keyword tables for the last heuristic stage.
var (
	textKeywords = []struct {
		region model.SourceRegion
		words  []string
	}{
		{model.SourceNavigation, []string{"home", "index", "main"}},
		{model.SourceFooter, []string{"contact", "about", "privacy", "terms"}},
		{model.SourceHeader, []string{"login", "register", "account", "profile"}},
		{model.SourceMainContent, []string{"read more", "continue", "next", "previous"}},
	}

	hrefKeywords = []struct {
		region model.SourceRegion
		paths  []string
	}{
		{model.SourceFooter, []string{"/contact", "/about", "/privacy", "/terms"}},
		{model.SourceHeader, []string{"/login", "/register", "/account", "/profile"}},
		{model.SourceNavigation, []string{"/home", "/index"}},
	}
)

// buildRegionIndex maps each raw href on the page to the first region whose
// selectors matched it. Computed once per page; lookups are by exact raw
// (untrimmed) href.
func buildRegionIndex(resp *fetcher.Response) map[string]model.SourceRegion {
	index := make(map[string]model.SourceRegion)
	for _, rs := range regionSelectors {
		for _, el := range resp.Select(rs.selectors) {
			href, ok := el.Attr("href")
			if !ok {
				continue
			}
			if _, claimed := index[href]; !claimed {
				index[href] = rs.region
			}
		}
	}
	return index
}

// linkSource resolves the region for one candidate: selector membership
// first, then the ancestor class/id scan, then text and href keywords, and
// finally the content default. Fallback-recovered candidates have no
// element and stay unknown.
func linkSource(c candidate, index map[string]model.SourceRegion) model.SourceRegion {
	if c.element == nil {
		return model.SourceUnknown
	}
	if region, ok := index[c.rawHref]; ok {
		return region
	}
	if region, ok := regionFromAncestors(c.element); ok {
		return region
	}
	return regionFromKeywords(c.text, c.rawHref)
}

// regionFromAncestors climbs up to five ancestors, pools their class tokens
// and ids into one lowercase string, and matches keyword groups against it
// in priority order.
func regionFromAncestors(el *fetcher.Element) (model.SourceRegion, bool) {
	var tokens []string
	cur := el.Parent()
	for depth := 0; cur != nil && depth < 5; depth++ {
		if class, ok := cur.Attr("class"); ok {
			tokens = append(tokens, strings.Fields(class)...)
		}
		if id, ok := cur.Attr("id"); ok && id != "" {
			tokens = append(tokens, id)
		}
		cur = cur.Parent()
	}
	if len(tokens) == 0 {
		return "", false
	}

	joined := strings.ToLower(strings.Join(tokens, " "))
	for _, ak := range ancestorKeywords {
		for _, kw := range ak.keywords {
			if strings.Contains(joined, kw) {
				return ak.region, true
			}
		}
	}
	return "", false
}

// regionFromKeywords guesses the region from the anchor text, then the raw
// href. Hrefs are matched as substrings, so "/about-us" still reads as an
// about path. Nothing matching means ordinary page content.
func regionFromKeywords(text, rawHref string) model.SourceRegion {
	lowText := strings.ToLower(text)
	for _, tk := range textKeywords {
		for _, w := range tk.words {
			if strings.Contains(lowText, w) {
				return tk.region
			}
		}
	}

	lowHref := strings.ToLower(rawHref)
	for _, hk := range hrefKeywords {
		for _, p := range hk.paths {
			if strings.Contains(lowHref, p) {
				return hk.region
			}
		}
	}

	return model.SourceContent
}

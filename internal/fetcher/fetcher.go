package fetcher

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves pages for the crawl engine and probes URLs for the
// validator. Implementations decide how a page is obtained (plain HTTP or a
// headless browser); callers only see the parsed Response.
type Fetcher interface {
	// Fetch retrieves the page at rawURL and returns the parsed response.
	Fetch(ctx context.Context, rawURL string) (*Response, error)

	// Probe issues a lightweight liveness check (HEAD) against rawURL and
	// returns the final status code.
	Probe(ctx context.Context, rawURL string) (int, error)
}

// Response is a fetched page: the decoded markup together with its parsed
// document. Element lookups go through Select so callers never touch the
// underlying DOM types.
type Response struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the decoded markup as UTF-8 text.
	Body string

	doc *goquery.Document
}

// ParseResponse parses markup into a Response. Both fetchers funnel through
// it, and tests use it to build responses without a server.
func ParseResponse(pageURL string, statusCode int, contentType, body string) (*Response, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Op: "parse", Err: err}
	}
	return &Response{
		URL:         pageURL,
		StatusCode:  statusCode,
		ContentType: contentType,
		Body:        body,
		doc:         doc,
	}, nil
}

// Title returns the trimmed document title, or "" when absent.
func (r *Response) Title() string {
	return strings.TrimSpace(r.doc.Find("title").First().Text())
}

// Select returns the elements matching the CSS selector in document order.
// An invalid selector matches nothing.
func (r *Response) Select(selector string) []*Element {
	var out []*Element
	r.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s})
	})
	return out
}

// InlineScripts returns the non-empty bodies of the page's script elements
// in document order. Comment extraction scans each body separately.
func (r *Response) InlineScripts() []string {
	var out []string
	for _, el := range r.Select("script") {
		if body := el.ScriptBody(); strings.TrimSpace(body) != "" {
			out = append(out, body)
		}
	}
	return out
}

// Element is a single matched node. It is the only DOM surface the
// extraction code sees.
type Element struct {
	sel *goquery.Selection
}

// Attr returns the attribute value and whether the attribute exists.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// AttrOr returns the attribute value, or def when the attribute is absent.
func (e *Element) AttrOr(name, def string) string {
	return e.sel.AttrOr(name, def)
}

// Attrs returns all attributes of the element as a map. The map is never
// nil.
func (e *Element) Attrs() map[string]string {
	attrs := make(map[string]string)
	for _, n := range e.sel.Nodes {
		for _, a := range n.Attr {
			attrs[a.Key] = a.Val
		}
	}
	return attrs
}

// Text returns the element's text content with surrounding whitespace
// trimmed.
func (e *Element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

// ScriptBody returns the element's raw text content untrimmed. Comment
// positions inside inline scripts are relative to this exact string.
func (e *Element) ScriptBody() string {
	return e.sel.Text()
}

// Tag returns the lowercase tag name of the element.
func (e *Element) Tag() string {
	return goquery.NodeName(e.sel)
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	p := e.sel.Parent()
	if p.Length() == 0 {
		return nil
	}
	return &Element{sel: p}
}

// OuterHTML renders the element including its own tags.
func (e *Element) OuterHTML() (string, error) {
	return goquery.OuterHtml(e.sel)
}

package extract

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/go-readability"

	"github.com/nao1215/linkscan/internal/comments"
	"github.com/nao1215/linkscan/internal/fetcher"
	"github.com/nao1215/linkscan/internal/model"
)

// previewLimit caps content_preview at this many characters.
const previewLimit = 500

// ContentSummary is the single-page content extraction result.
type ContentSummary struct {
	// URL is the page URL the summary was built from.
	URL string `json:"url"`

	// Title is the document title.
	Title string `json:"title"`

	// TextLength is the length of the extracted text in characters.
	TextLength int `json:"text_length"`

	// StatusCode is the HTTP status of the fetched page.
	StatusCode int `json:"status_code"`

	// ContentPreview is the first 500 characters of the extracted text,
	// with "..." appended when truncated.
	ContentPreview string `json:"content_preview"`

	// Comments holds the extracted page comments when comment
	// extraction is enabled.
	Comments []model.Comment `json:"comments,omitempty"`

	// CommentsCount is set when comment extraction is enabled, even
	// when no comments matched.
	CommentsCount *int `json:"comments_count,omitempty"`

	// CommentTypes breaks the comment count down by type.
	CommentTypes map[string]int `json:"comment_types,omitempty"`
}

// SummaryOption configures Summarize.
type SummaryOption func(*summarizer)

// summarizer holds the Summarize configuration.
type summarizer struct {
	withComments bool
	commentOpts  comments.Options
}

// WithComments enables comment extraction for the summary, narrowed by the
// given filter options.
func WithComments(opts comments.Options) SummaryOption {
	return func(s *summarizer) {
		s.withComments = true
		s.commentOpts = opts
	}
}

// Summarize builds a content summary for a fetched page.
//
// The main text comes from readability extraction, falling back to the
// bare page text when the page has no recognizable article content.
func Summarize(resp *fetcher.Response, opts ...SummaryOption) *ContentSummary {
	s := &summarizer{}
	for _, opt := range opts {
		opt(s)
	}

	text := pageText(resp)
	summary := &ContentSummary{
		URL:            resp.URL,
		Title:          resp.Title(),
		TextLength:     utf8.RuneCountInString(text),
		StatusCode:     resp.StatusCode,
		ContentPreview: preview(text),
	}

	if s.withComments {
		found := comments.Filter(
			comments.FromPage(resp.Body, resp.InlineScripts()),
			s.commentOpts,
		)
		count := len(found)
		summary.Comments = found
		summary.CommentsCount = &count
		summary.CommentTypes = model.CountByType(found)
	}
	return summary
}

// pageText extracts the main text of the page. Readability output wins;
// pages without article structure degrade to the raw body text.
func pageText(resp *fetcher.Response) string {
	if pageURL, err := url.Parse(resp.URL); err == nil {
		article, err := readability.FromReader(strings.NewReader(resp.Body), pageURL)
		if err == nil {
			if text := strings.TrimSpace(article.TextContent); text != "" {
				return text
			}
		}
	}

	for _, body := range resp.Select("body") {
		if text := body.Text(); text != "" {
			return text
		}
	}
	return strings.TrimSpace(resp.Body)
}

// preview truncates text to the preview limit.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}

// Selection is one element matched by a user CSS selector.
type Selection struct {
	// Text is the element's trimmed text content.
	Text string `json:"text"`

	// HTML is the element's outer markup.
	HTML string `json:"html"`

	// Attributes holds every attribute of the element.
	Attributes map[string]string `json:"attributes"`

	// Href is the href attribute when the element carries one.
	Href string `json:"href,omitempty"`
}

// BySelector returns one record per element matching the CSS selector.
// An invalid selector is a configuration error; per-element failures are
// skipped.
func BySelector(resp *fetcher.Response, selector string) ([]Selection, error) {
	if _, err := cascadia.Compile(selector); err != nil {
		return nil, fmt.Errorf("parse selector %q: %w", selector, err)
	}

	elements := resp.Select(selector)
	selections := make([]Selection, 0, len(elements))
	for _, el := range elements {
		outer, err := el.OuterHTML()
		if err != nil {
			continue
		}
		attrs := el.Attrs()
		selections = append(selections, Selection{
			Text:       el.Text(),
			HTML:       outer,
			Attributes: attrs,
			Href:       attrs["href"],
		})
	}
	return selections, nil
}

package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nao1215/linkscan/internal/comments"
	"github.com/nao1215/linkscan/internal/fetcher"
	"github.com/nao1215/linkscan/internal/model"
)

// parseTestPage parses markup as a fetched page.
func parseTestPage(t *testing.T, markup string) *fetcher.Response {
	t.Helper()

	resp, err := fetcher.ParseResponse("https://example.com/article", 200, "text/html", markup)
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}
	return resp
}

// TestSummarize tests the content summary mode.
func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("summarizes page content", func(t *testing.T) {
		t.Parallel()

		resp := parseTestPage(t, `<html><head><title>Field Notes</title></head><body>
			<article>
				<h1>Field Notes</h1>
				<p>The survey started at dawn and covered the north ridge.</p>
				<p>Every marker was photographed and logged on site.</p>
			</article>
		</body></html>`)

		summary := Summarize(resp)
		if summary.URL != "https://example.com/article" {
			t.Errorf("unexpected URL: %q", summary.URL)
		}
		if summary.Title != "Field Notes" {
			t.Errorf("unexpected title: %q", summary.Title)
		}
		if summary.StatusCode != 200 {
			t.Errorf("unexpected status: %d", summary.StatusCode)
		}
		if summary.TextLength == 0 {
			t.Error("expected non-zero text length")
		}
		if !strings.Contains(summary.ContentPreview, "north ridge") {
			t.Errorf("expected preview to contain article text, got %q", summary.ContentPreview)
		}
		if strings.HasSuffix(summary.ContentPreview, "...") {
			t.Error("expected short content to not be truncated")
		}
		if summary.CommentsCount != nil {
			t.Error("expected no comment fields without the comments option")
		}
	})

	t.Run("truncates long content", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("the survey continued across the valley floor ", 30)
		resp := parseTestPage(t, `<html><head><title>Long</title></head><body>
			<article><p>`+long+`</p></article>
		</body></html>`)

		summary := Summarize(resp)
		if summary.TextLength <= previewLimit {
			t.Fatalf("expected text longer than the preview limit, got %d", summary.TextLength)
		}
		if !strings.HasSuffix(summary.ContentPreview, "...") {
			t.Error("expected truncated preview to end with ellipsis")
		}
		if got := utf8.RuneCountInString(summary.ContentPreview); got != previewLimit+3 {
			t.Errorf("expected preview of %d characters, got %d", previewLimit+3, got)
		}
	})

	t.Run("includes comments when enabled", func(t *testing.T) {
		t.Parallel()

		resp := parseTestPage(t, `<html><head><title>Sample</title></head><body>
			<!-- promo note -->
			<p>Visible text</p>
			<script>
			// api key here
			</script>
		</body></html>`)

		summary := Summarize(resp, WithComments(comments.Options{}))
		if summary.CommentsCount == nil {
			t.Fatal("expected comments count to be set")
		}
		if *summary.CommentsCount != len(summary.Comments) {
			t.Errorf("count %d does not match %d comments",
				*summary.CommentsCount, len(summary.Comments))
		}
		// One HTML comment, plus the script comment reported from the
		// inline script body and again from the whole-page pass.
		if *summary.CommentsCount != 3 {
			t.Errorf("expected 3 comments, got %d", *summary.CommentsCount)
		}
		if summary.CommentTypes["html"] != 1 {
			t.Errorf("expected 1 html comment, got %d", summary.CommentTypes["html"])
		}
	})

	t.Run("applies comment filters", func(t *testing.T) {
		t.Parallel()

		resp := parseTestPage(t, `<html><head><title>Sample</title></head><body>
			<!-- promo note -->
			<script>
			// api key here
			</script>
		</body></html>`)

		summary := Summarize(resp, WithComments(comments.Options{
			Types: []model.CommentType{model.CommentHTML},
		}))
		if summary.CommentsCount == nil || *summary.CommentsCount != 1 {
			t.Fatalf("expected 1 html comment, got %+v", summary.CommentsCount)
		}
		if summary.Comments[0].Content != "promo note" {
			t.Errorf("unexpected comment content: %q", summary.Comments[0].Content)
		}
	})
}

// TestBySelector tests selector-based element extraction.
func TestBySelector(t *testing.T) {
	t.Parallel()

	t.Run("extracts matching elements", func(t *testing.T) {
		t.Parallel()

		resp := parseTestPage(t, `<html><body>
			<a class="card" href="/one">First card</a>
			<a class="card" href="/two">Second card</a>
			<div class="card">Plain card</div>
		</body></html>`)

		selections, err := BySelector(resp, ".card")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(selections) != 3 {
			t.Fatalf("expected 3 selections, got %d", len(selections))
		}
		if selections[0].Text != "First card" {
			t.Errorf("unexpected text: %q", selections[0].Text)
		}
		if !strings.Contains(selections[0].HTML, `href="/one"`) {
			t.Errorf("expected outer markup, got %q", selections[0].HTML)
		}
		if selections[0].Href != "/one" || selections[1].Href != "/two" {
			t.Error("expected anchor selections to carry href")
		}
		if selections[2].Href != "" {
			t.Errorf("expected no href on div selection, got %q", selections[2].Href)
		}
		if selections[2].Attributes["class"] != "card" {
			t.Errorf("unexpected attributes: %v", selections[2].Attributes)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()

		resp := parseTestPage(t, `<html><body><p>nothing here</p></body></html>`)

		selections, err := BySelector(resp, ".absent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(selections) != 0 {
			t.Errorf("expected no selections, got %d", len(selections))
		}
	})

	t.Run("invalid selector", func(t *testing.T) {
		t.Parallel()

		resp := parseTestPage(t, `<html><body></body></html>`)

		if _, err := BySelector(resp, "[["); err == nil {
			t.Error("expected error for invalid selector")
		}
	})
}

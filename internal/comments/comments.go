package comments

import (
	"regexp"
	"strings"

	"github.com/nao1215/linkscan/internal/model"
)

// Comment patterns. The JavaScript patterns are deliberately simple text
// scans, not a tokenizer: protocol separators like "https://" inside string
// literals will match the single-line pattern. That trade-off keeps the
// scanner fast and predictable on arbitrary markup.
var (
	htmlCommentPattern = regexp.MustCompile(`(?s)<!--\s*(.*?)\s*-->`)
	jsSinglePattern    = regexp.MustCompile(`(?m)//\s*(.*)$`)
	jsMultiPattern     = regexp.MustCompile(`(?s)/\*\s*(.*?)\s*\*/`)
)

// Options narrows which comments Filter reports.
type Options struct {
	// Types keeps only comments of the listed types. Empty keeps all.
	Types []model.CommentType

	// MinLength drops comments whose content is shorter than this many
	// bytes. Zero keeps all.
	MinLength int
}

// ParseTypeToken expands one CLI comment-type token into concrete comment
// types. "javascript" covers both JavaScript syntaxes; unknown tokens pass
// through literally and simply never match.
func ParseTypeToken(token string) []model.CommentType {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "javascript":
		return []model.CommentType{model.CommentJSSingle, model.CommentJSMulti}
	case "js_single":
		return []model.CommentType{model.CommentJSSingle}
	case "js_multi":
		return []model.CommentType{model.CommentJSMulti}
	case "html":
		return []model.CommentType{model.CommentHTML}
	case "":
		return nil
	default:
		return []model.CommentType{model.CommentType(strings.ToLower(strings.TrimSpace(token)))}
	}
}

// FromPage extracts every comment from a page: HTML comments from the full
// markup, JavaScript comments from each inline script body, and JavaScript
// comments from the full markup again. The doubled JavaScript pass is
// intentional: comments inside inline scripts are reported once per script
// body and once at their page position, distinguished by Location.
func FromPage(markup string, scripts []string) []model.Comment {
	var all []model.Comment
	all = append(all, scan(markup, htmlCommentPattern, model.CommentHTML, model.LocationHTMLContent)...)
	for _, body := range scripts {
		all = append(all, scanJS(body, model.LocationInlineScript)...)
	}
	all = append(all, scanJS(markup, model.LocationHTMLContent)...)
	return all
}

func scanJS(src string, location model.CommentLocation) []model.Comment {
	comments := scan(src, jsSinglePattern, model.CommentJSSingle, location)
	return append(comments, scan(src, jsMultiPattern, model.CommentJSMulti, location)...)
}

func scan(src string, pattern *regexp.Regexp, typ model.CommentType, location model.CommentLocation) []model.Comment {
	var out []model.Comment
	for _, m := range pattern.FindAllStringSubmatchIndex(src, -1) {
		content := strings.TrimSpace(src[m[2]:m[3]])
		if content == "" {
			continue
		}
		start := m[0]
		out = append(out, model.Comment{
			Content:   content,
			Type:      typ,
			LineStart: strings.Count(src[:start], "\n") + 1,
			Position:  start,
			Location:  location,
		})
	}
	return out
}

// Filter returns the comments matching the requested types and minimum
// length, preserving order.
func Filter(comments []model.Comment, opts Options) []model.Comment {
	if len(opts.Types) == 0 && opts.MinLength <= 0 {
		return comments
	}

	allowed := make(map[model.CommentType]bool, len(opts.Types))
	for _, t := range opts.Types {
		allowed[t] = true
	}

	var out []model.Comment
	for _, c := range comments {
		if len(opts.Types) > 0 && !allowed[c.Type] {
			continue
		}
		if opts.MinLength > 0 && len(c.Content) < opts.MinLength {
			continue
		}
		out = append(out, c)
	}
	return out
}

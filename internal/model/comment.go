package model

// CommentType identifies the syntax a comment was written in.
type CommentType string

// Comment type constants.
const (
	// CommentHTML represents an HTML comment (<!-- ... -->).
	CommentHTML CommentType = "html"
	// CommentJSSingle represents a single-line JavaScript comment (// ...).
	CommentJSSingle CommentType = "javascript_single"
	// CommentJSMulti represents a multi-line JavaScript comment (/* ... */).
	CommentJSMulti CommentType = "javascript_multi"
)

// String returns the string representation of the CommentType.
func (t CommentType) String() string {
	return string(t)
}

// IsValid returns true if this is a known comment type.
func (t CommentType) IsValid() bool {
	switch t {
	case CommentHTML, CommentJSSingle, CommentJSMulti:
		return true
	default:
		return false
	}
}

// CommentLocation identifies where in the page a comment was found.
type CommentLocation string

// Comment location constants.
const (
	// LocationHTMLContent marks comments found scanning the full markup.
	LocationHTMLContent CommentLocation = "html_content"
	// LocationInlineScript marks comments found inside a <script> body.
	// Line numbers for these are relative to the script body, not the page.
	LocationInlineScript CommentLocation = "inline_script"
)

// Comment is one developer comment extracted from a page.
type Comment struct {
	// Content is the comment text with surrounding whitespace removed.
	// Empty comments are never reported.
	Content string `json:"content"`

	// Type is the comment syntax.
	Type CommentType `json:"comment_type"`

	// LineStart is the 1-based line number of the match start within the
	// scanned source.
	LineStart int `json:"line_start"`

	// Position is the byte offset of the match start within the scanned
	// source.
	Position int `json:"position"`

	// Location records which scanning pass found the comment. JavaScript
	// comments inside inline scripts are reported twice: once per script
	// body and once by the whole-page pass.
	Location CommentLocation `json:"location"`
}

// CountByType returns a breakdown of comment counts keyed by comment type.
func CountByType(comments []Comment) map[string]int {
	if len(comments) == 0 {
		return nil
	}
	counts := make(map[string]int, 3)
	for _, c := range comments {
		counts[string(c.Type)]++
	}
	return counts
}

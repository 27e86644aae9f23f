package classify

import (
	"net/url"
	"path"
	"strings"

	"github.com/nao1215/linkscan/internal/model"
)

// Relationship describes how a link's domain relates to the crawl's base
// domain.
type Relationship int

// Relationship constants.
const (
	// Same means the domains are equal after www normalization. An empty
	// domain counts as Same because page-relative links stay on the page's
	// own host.
	Same Relationship = iota
	// Subdomain means the domain is a strict subdomain of the base domain.
	Subdomain
	// External means the domain belongs to another site.
	External
)

// String returns the string representation of the Relationship.
func (r Relationship) String() string {
	switch r {
	case Same:
		return "same"
	case Subdomain:
		return "subdomain"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// extensionTypes maps lowercased path extensions to link types. The map is
// consulted before any other classification rule.
var extensionTypes = map[string]model.LinkType{
	// Images
	".jpg": model.LinkTypeImage, ".jpeg": model.LinkTypeImage,
	".png": model.LinkTypeImage, ".gif": model.LinkTypeImage,
	".bmp": model.LinkTypeImage, ".svg": model.LinkTypeImage,
	".webp": model.LinkTypeImage, ".ico": model.LinkTypeImage,

	// Documents
	".pdf": model.LinkTypeDocument, ".doc": model.LinkTypeDocument,
	".docx": model.LinkTypeDocument, ".xls": model.LinkTypeDocument,
	".xlsx": model.LinkTypeDocument, ".ppt": model.LinkTypeDocument,
	".pptx": model.LinkTypeDocument, ".txt": model.LinkTypeDocument,
	".rtf": model.LinkTypeDocument,

	// Video
	".mp4": model.LinkTypeVideo, ".avi": model.LinkTypeVideo,
	".mkv": model.LinkTypeVideo, ".mov": model.LinkTypeVideo,
	".wmv": model.LinkTypeVideo, ".flv": model.LinkTypeVideo,
	".webm": model.LinkTypeVideo,

	// Audio
	".mp3": model.LinkTypeAudio, ".wav": model.LinkTypeAudio,
	".flac": model.LinkTypeAudio, ".aac": model.LinkTypeAudio,
	".ogg": model.LinkTypeAudio, ".wma": model.LinkTypeAudio,

	// Archives
	".zip": model.LinkTypeArchive, ".rar": model.LinkTypeArchive,
	".tar": model.LinkTypeArchive, ".gz": model.LinkTypeArchive,
	".7z": model.LinkTypeArchive, ".bz2": model.LinkTypeArchive,

	// Code and markup
	".js": model.LinkTypeCode, ".css": model.LinkTypeCode,
	".json": model.LinkTypeCode, ".xml": model.LinkTypeCode,
	".html": model.LinkTypeCode, ".htm": model.LinkTypeCode,
	".php": model.LinkTypeCode, ".py": model.LinkTypeCode,
	".java": model.LinkTypeCode,
}

// normalizeDomain lowercases a host and strips one leading "www." so that
// "www.example.com" and "example.com" compare equal.
func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(domain), "www.")
}

// DomainRelationship reports how domain relates to baseDomain. Both values
// are hosts as they appear in URLs, port included. An empty domain is Same:
// relative links without a host resolve onto the page's own domain.
func DomainRelationship(domain, baseDomain string) Relationship {
	if domain == "" {
		return Same
	}

	d := normalizeDomain(domain)
	base := normalizeDomain(baseDomain)
	switch {
	case d == base:
		return Same
	case strings.HasSuffix(d, "."+base):
		return Subdomain
	default:
		return External
	}
}

// pathExt returns the extension of the final path element. A trailing slash
// is ignored so "/report.pdf/" still reads as ".pdf".
func pathExt(p string) string {
	return path.Ext(strings.TrimSuffix(strings.ToLower(p), "/"))
}

// LinkType classifies a URL by the extension of its path. A known extension
// always wins; an unknown extension is "other". Without an extension the URL
// is "api" when it carries a query string or its path contains "api", and
// "page" otherwise.
func LinkType(rawURL string) model.LinkType {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.LinkTypeOther
	}

	p := strings.ToLower(u.Path)
	if ext := pathExt(p); ext != "" {
		if t, ok := extensionTypes[ext]; ok {
			return t
		}
		return model.LinkTypeOther
	}

	if u.RawQuery != "" || strings.Contains(p, "api") {
		return model.LinkTypeAPI
	}
	return model.LinkTypePage
}

// HasFileExtension reports whether the URL's path carries any extension.
// The crawl engine never enqueues such URLs: file targets are recorded as
// links but not followed.
func HasFileExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return pathExt(u.Path) != ""
}

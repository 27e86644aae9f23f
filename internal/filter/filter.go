package filter

import (
	"strings"

	"github.com/nao1215/linkscan/internal/model"
)

// Scope selects which domain relationship a link must have to pass the
// scope stage.
type Scope int

// Scope constants.
const (
	// ScopeAll passes every link.
	ScopeAll Scope = iota
	// ScopeInternal keeps links classified as internal.
	ScopeInternal
	// ScopeExternal keeps links that are neither internal nor subdomain.
	ScopeExternal
	// ScopeSubdomains keeps links pointing at subdomains.
	ScopeSubdomains
)

// String returns the string representation of the Scope.
func (s Scope) String() string {
	switch s {
	case ScopeInternal:
		return "internal"
	case ScopeExternal:
		return "external"
	case ScopeSubdomains:
		return "subdomains"
	default:
		return "all"
	}
}

// ScopeFromFlags maps the three mutually exclusive CLI scope flags to a
// Scope. When more than one flag is set, the first truthy flag wins, in the
// order internal, external, subdomains.
func ScopeFromFlags(internalOnly, externalOnly, subdomainsOnly bool) Scope {
	switch {
	case internalOnly:
		return ScopeInternal
	case externalOnly:
		return ScopeExternal
	case subdomainsOnly:
		return ScopeSubdomains
	default:
		return ScopeAll
	}
}

// Stage is one ordered step of the link filter pipeline. Stages are pure:
// they never mutate the input slice and they preserve link order.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows stages to carry their normalized configuration
// 2. It provides a Name() method for logging and debugging
// 3. It mirrors how the rest of the codebase composes processing steps
type Stage interface {
	// Apply returns the links that pass the stage.
	Apply(links []model.Link) []model.Link

	// Name returns the stage's name for logging purposes.
	Name() string
}

// Pipeline runs stages in a fixed order over a link set.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds a pipeline from the given stages. Order is preserved.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Options selects which stages the standard pipeline runs.
type Options struct {
	// Scope is the domain-relationship filter.
	Scope Scope

	// Extensions keeps links whose URL ends with one of these extensions.
	// Tokens may carry a leading dot and any casing; they are normalized.
	Extensions []string

	// Types keeps links matching these type or group tokens.
	Types []string

	// Unique keeps only the first occurrence of each URL.
	Unique bool
}

// FromOptions assembles the standard pipeline in its fixed order: scope,
// extension, type, uniqueness. Unset options contribute no stage.
func FromOptions(opts Options) *Pipeline {
	var stages []Stage
	if opts.Scope != ScopeAll {
		stages = append(stages, NewScopeStage(opts.Scope))
	}
	if len(opts.Extensions) > 0 {
		stages = append(stages, NewExtensionStage(opts.Extensions))
	}
	if len(opts.Types) > 0 {
		stages = append(stages, NewTypeStage(opts.Types))
	}
	if opts.Unique {
		stages = append(stages, NewUniqueStage())
	}
	return NewPipeline(stages...)
}

// Apply runs every stage in order and returns the surviving links. A
// pipeline with no stages returns its input unchanged.
func (p *Pipeline) Apply(links []model.Link) []model.Link {
	out := links
	for _, s := range p.stages {
		out = s.Apply(out)
	}
	return out
}

// Len returns the number of configured stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return names
}

// scopeStage keeps links matching one domain relationship.
type scopeStage struct {
	scope Scope
}

// NewScopeStage returns the scope stage for the given scope.
func NewScopeStage(scope Scope) Stage {
	return &scopeStage{scope: scope}
}

// Name returns the stage name.
func (s *scopeStage) Name() string { return "scope" }

// Apply keeps links matching the configured scope.
func (s *scopeStage) Apply(links []model.Link) []model.Link {
	if s.scope == ScopeAll {
		return links
	}

	var out []model.Link
	for _, l := range links {
		switch s.scope {
		case ScopeInternal:
			if l.IsInternal {
				out = append(out, l)
			}
		case ScopeExternal:
			if !l.IsInternal && !l.IsSubdomain {
				out = append(out, l)
			}
		case ScopeSubdomains:
			if l.IsSubdomain {
				out = append(out, l)
			}
		}
	}
	return out
}

// extensionStage keeps links whose URL ends with one of the configured
// extensions.
type extensionStage struct {
	extensions []string
}

// NewExtensionStage normalizes the tokens (trim, lowercase, strip a leading
// dot) and returns the extension stage. Empty tokens are dropped.
func NewExtensionStage(extensions []string) Stage {
	return &extensionStage{extensions: NormalizeExtensions(extensions)}
}

// Name returns the stage name.
func (s *extensionStage) Name() string { return "extension" }

// Apply keeps links whose lowercased URL ends with "." plus any configured
// extension.
func (s *extensionStage) Apply(links []model.Link) []model.Link {
	var out []model.Link
	for _, l := range links {
		if matchesExtension(l.URL, s.extensions) {
			out = append(out, l)
		}
	}
	return out
}

// typeStage keeps links whose classified type is in the expanded token set,
// or whose URL contains "." plus any raw token. The URL fallback is
// deliberately permissive: a token like "pdf" readmits every URL containing
// ".pdf" even when the classified type was filtered away.
type typeStage struct {
	raw      []string
	expanded map[model.LinkType]bool
}

// typeGroups expands the group tokens users can pass to the type filter.
var typeGroups = map[string][]model.LinkType{
	"images":    {model.LinkTypeImage},
	"documents": {model.LinkTypeDocument},
	"media":     {model.LinkTypeVideo, model.LinkTypeAudio},
	"pages":     {model.LinkTypePage},
	"files": {
		model.LinkTypeDocument, model.LinkTypeImage, model.LinkTypeVideo,
		model.LinkTypeAudio, model.LinkTypeArchive,
	},
	"code": {model.LinkTypeCode},
	"api":  {model.LinkTypeAPI},
}

// NewTypeStage normalizes the tokens (trim, lowercase), expands group
// tokens, and returns the type stage. Unknown tokens are kept literally so
// "image" matches the image type and "pdf" still drives the URL fallback.
func NewTypeStage(tokens []string) Stage {
	s := &typeStage{expanded: make(map[model.LinkType]bool)}
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		s.raw = append(s.raw, tok)
		if group, ok := typeGroups[tok]; ok {
			for _, t := range group {
				s.expanded[t] = true
			}
			continue
		}
		s.expanded[model.LinkType(tok)] = true
	}
	return s
}

// Name returns the stage name.
func (s *typeStage) Name() string { return "type" }

// Apply keeps links by expanded type match or raw-token URL match.
func (s *typeStage) Apply(links []model.Link) []model.Link {
	var out []model.Link
	for _, l := range links {
		if s.expanded[l.LinkType] {
			out = append(out, l)
			continue
		}
		lower := strings.ToLower(l.URL)
		for _, tok := range s.raw {
			if strings.Contains(lower, "."+tok) {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// uniqueStage keeps the first occurrence of each exact URL string.
type uniqueStage struct{}

// NewUniqueStage returns the uniqueness stage.
func NewUniqueStage() Stage {
	return uniqueStage{}
}

// Name returns the stage name.
func (uniqueStage) Name() string { return "uniqueness" }

// Apply keeps the first link per URL, preserving order.
func (uniqueStage) Apply(links []model.Link) []model.Link {
	return Unique(links)
}

// Unique returns the first occurrence of each exact URL string, preserving
// order. The crawl engine uses this for its single global deduplication
// pass.
func Unique(links []model.Link) []model.Link {
	seen := make(map[string]bool, len(links))
	var out []model.Link
	for _, l := range links {
		if seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		out = append(out, l)
	}
	return out
}

// NormalizeExtensions trims, lowercases, and strips a leading dot from each
// token, dropping empties.
func NormalizeExtensions(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		tok = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tok)), ".")
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ByExtension returns the links whose URL ends with "." plus any of the
// given extensions. The crawl engine uses this to collect file links per
// page, independently of the filter pipeline.
func ByExtension(links []model.Link, extensions []string) []model.Link {
	exts := NormalizeExtensions(extensions)
	if len(exts) == 0 {
		return nil
	}

	var out []model.Link
	for _, l := range links {
		if matchesExtension(l.URL, exts) {
			out = append(out, l)
		}
	}
	return out
}

func matchesExtension(rawURL string, normalized []string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range normalized {
		if strings.HasSuffix(lower, "."+ext) {
			return true
		}
	}
	return false
}

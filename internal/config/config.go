package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match the original command-line defaults of the scrape
// command, which is the primary entry point.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "linkscan"

	// DefaultMaxDepth of 2 covers the seed page plus two levels of links.
	// That is deep enough to map most small and medium sites while keeping
	// crawl times short. Deeper crawls are opt-in via --depth.
	DefaultMaxDepth = 2

	// DefaultMaxPages of 50 bounds a crawl on large or infinitely
	// generating sites. Users can raise it via --max-pages.
	DefaultMaxPages = 50

	// DefaultTimeout is set to 10 seconds per request. Pages slower than
	// that are usually misconfigured or unreachable, and a crawl visits
	// many pages, so long stalls add up quickly.
	DefaultTimeout = 10 * time.Second

	// DefaultWorkers of 1 keeps the crawl sequential. Sequential order is
	// the reference behavior; concurrency is opt-in via --workers because
	// it changes the politeness profile toward the target site.
	DefaultWorkers = 1

	// DefaultValidatePause is the pause inserted between batches of link
	// validation probes. 500ms keeps probe bursts from looking like a
	// scan to rate limiters.
	DefaultValidatePause = 500 * time.Millisecond

	// DefaultUserAgent is a browser-like User-Agent. Many sites serve
	// reduced or blocked content to obvious bot agents, and the point of
	// the tool is to see what a visitor sees.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultFormat is the default output format of the scrape command.
	// JSON is the machine-readable default because crawl results carry
	// nested page and link records that flat formats have to flatten.
	DefaultFormat = "json"

	// DefaultLinksFormat is the default output format of the links
	// command. A single page's links fit on a terminal, so the default is
	// human-readable.
	DefaultLinksFormat = "table"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 10MB is sufficient for any HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for a scan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// SeedURL is the absolute http/https URL the scan starts from.
	SeedURL string

	// MaxDepth is the maximum recursion depth for crawling.
	// Depth 0 means only fetch the seed page.
	// Higher values find more content but take longer.
	MaxDepth int

	// MaxPages is the maximum number of pages to crawl.
	// This prevents runaway crawling on large or infinitely-generating sites.
	MaxPages int

	// Timeout is the timeout for each HTTP request.
	// This applies to individual requests, not the overall crawl duration.
	Timeout time.Duration

	// Workers is the number of concurrent page fetches.
	// 1 (the default) keeps the crawl sequential and deterministic.
	Workers int

	// Delay is the minimum delay between HTTP requests during crawling.
	// This is a politeness setting to avoid overwhelming the target site.
	// Zero means no pacing.
	Delay time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default.
	MaxBodySize int64

	// Headers are custom HTTP headers sent with every request.
	// Populated from the --headers JSON object via ParseHeaders.
	Headers map[string]string

	// RenderJS enables JavaScript rendering through a headless browser.
	// Slower than plain fetching, but required for client-rendered sites.
	RenderJS bool

	// RenderWait is the extra settle time after a rendered page reports
	// ready. Only used when RenderJS is true.
	RenderWait time.Duration

	// ScreenshotFile is the path to save a full-page screenshot of the
	// seed page. Requires RenderJS; ignored with a warning otherwise.
	ScreenshotFile string

	// InternalOnly keeps only links on the crawl's base domain.
	// Mutually exclusive with ExternalOnly and SubdomainsOnly;
	// when several are set, InternalOnly wins.
	InternalOnly bool

	// ExternalOnly keeps only links pointing off the base domain.
	ExternalOnly bool

	// SubdomainsOnly keeps only links pointing at subdomains of the base
	// domain.
	SubdomainsOnly bool

	// IncludeSubdomains treats subdomain links as internal, so the crawl
	// follows them. The scrape command defaults this to true, the links
	// command to false.
	IncludeSubdomains bool

	// Extensions keeps only links whose URL ends with one of these file
	// extensions (e.g. "pdf,docx,zip"). Empty means no extension filter.
	Extensions []string

	// FilterTypes keeps only links of these types or type groups
	// (e.g. "images,documents" or "pdf,jpg"). Empty means no type filter.
	FilterTypes []string

	// UniqueLinks removes duplicate URLs from the link output.
	UniqueLinks bool

	// ValidateLinks probes every reported link with a HEAD request and
	// records its status code and accessibility. Slower.
	ValidateLinks bool

	// ValidatePause is the pause between validation probe batches.
	ValidatePause time.Duration

	// RespectRobots skips URLs disallowed by the site's robots.txt.
	RespectRobots bool

	// IncludeComments extracts HTML and JavaScript comments from each
	// crawled page and includes them in the output.
	IncludeComments bool

	// CommentType filters extracted comments to one type token:
	// html, javascript, js_single, or js_multi. Empty keeps all types.
	CommentType string

	// MinCommentLength drops extracted comments shorter than this.
	MinCommentLength int

	// LinksOnly outputs the flat link list instead of the full crawl
	// result with page metadata.
	LinksOnly bool

	// ContentOnly extracts the seed page's readable content instead of
	// its links. Only meaningful at depth 0.
	ContentOnly bool

	// Selector is a CSS selector. When set, the scan emits the matching
	// elements of the seed page instead of its links.
	Selector string

	// ShowProgress prints a link breakdown to stderr before filtering.
	ShowProgress bool

	// Summary prints crawl completion counts to stderr after the output.
	Summary bool

	// Format is the output format token: json, csv, table, html,
	// markdown (or md), or xlsx.
	Format string

	// OutputFile is the output file path. Empty writes to stdout.
	OutputFile string

	// ArchiveDir is the directory of the SQLite crawl archive.
	// Empty means the XDG data directory.
	ArchiveDir string

	// SaveToArchive saves the crawl result as an archive snapshot for
	// later comparison.
	SaveToArchive bool

	// ConfigFilePath is the path to the profile file. If empty, the tool
	// searches for .linkscan.yml in the current directory, the XDG config
	// directory, and the home directory, in that order.
	ConfigFilePath string

	// Profiles holds per-site profiles loaded from the profile file.
	Profiles *File

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// Quiet suppresses everything below slog.LevelError.
	Quiet bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// The defaults are those of the scrape command; other commands override
// individual fields through their own flag defaults.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, depth).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxDepth:          DefaultMaxDepth,
		MaxPages:          DefaultMaxPages,
		Timeout:           DefaultTimeout,
		Workers:           DefaultWorkers,
		ValidatePause:     DefaultValidatePause,
		UserAgent:         DefaultUserAgent,
		Format:            DefaultFormat,
		MaxBodySize:       DefaultMaxBodySize,
		IncludeSubdomains: true,
		UniqueLinks:       true,
		ShowProgress:      true,
		Summary:           true,
	}
}

// ParseHeaders parses the --headers flag value, a JSON object mapping
// header names to values, e.g. `{"X-Api-Key": "abc"}`.
// An empty string returns a nil map and no error. Anything that is not a
// JSON object of string values returns ErrInvalidHeaderJSON wrapped with
// the decoding cause.
func ParseHeaders(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}

	var headers map[string]string
	if err := json.Unmarshal([]byte(s), &headers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeaderJSON, err)
	}
	return headers, nil
}

// XDGDataDir returns the XDG data directory for linkscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/linkscan
// On macOS: ~/Library/Application Support/linkscan
// On Windows: %LOCALAPPDATA%\linkscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for linkscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/linkscan
// On macOS: ~/Library/Application Support/linkscan
// On Windows: %APPDATA%\linkscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for linkscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/linkscan
// On macOS: ~/Library/Caches/linkscan
// On Windows: %LOCALAPPDATA%\linkscan\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// validFormats are the accepted --format tokens. "md" is an alias kept in
// sync with report.ParseFormat.
var validFormats = map[string]bool{
	"json":     true,
	"csv":      true,
	"table":    true,
	"html":     true,
	"markdown": true,
	"md":       true,
	"xlsx":     true,
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any fetch begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have a seed URL to scan
	if c.SeedURL == "" {
		return ErrNoSeedURL
	}

	// The seed must be an absolute http/https URL; anything else cannot
	// be fetched and would only fail later with a confusing error
	if u, err := url.Parse(c.SeedURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidSeedURL, c.SeedURL)
	}

	// Depth 0 is a single-page scan; only negative depths are invalid
	if c.MaxDepth < 0 {
		return ErrInvalidDepth
	}

	// MaxPages must be positive; zero would fetch nothing
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// Workers must be positive; zero would stall the crawl
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Delay must be non-negative
	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	// ValidatePause must be non-negative
	if c.ValidatePause < 0 {
		return ErrInvalidValidatePause
	}

	// Format must be a known output format token; report.ParseFormat
	// accepts any casing, so the check here is case-insensitive too
	if !validFormats[strings.ToLower(strings.TrimSpace(c.Format))] {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}

	// MaxBodySize must be non-negative; zero means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

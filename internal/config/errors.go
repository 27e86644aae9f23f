package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and ParseHeaders() and
// provide specific information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSeedURL is returned when no seed URL is specified.
	// Every command needs exactly one URL to start from.
	ErrNoSeedURL = errors.New("no seed URL specified: provide a URL to scan")

	// ErrInvalidSeedURL is returned when the seed URL is not an absolute
	// http or https URL. Bare hosts, other schemes, and URLs without a
	// host cannot be fetched.
	ErrInvalidSeedURL = errors.New("invalid seed URL: must be an absolute http or https URL")

	// ErrInvalidDepth is returned when the crawl depth is negative.
	// Depth 0 is valid and means fetch only the seed page.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidMaxPages is returned when the page limit is not positive.
	// A limit of zero would mean no pages are fetched at all.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// One worker reproduces the sequential crawl order.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the request delay is negative.
	// A negative delay is invalid; use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidValidatePause is returned when the validation pause is
	// negative. A negative pause is invalid; use 0 to probe without pauses.
	ErrInvalidValidatePause = errors.New("invalid validate pause: must be non-negative")

	// ErrInvalidFormat is returned when the output format is not one of
	// the supported format tokens.
	ErrInvalidFormat = errors.New("invalid format: must be one of json, csv, table, html, markdown, xlsx")

	// ErrInvalidHeaderJSON is returned when the --headers value is not a
	// JSON object with string values.
	ErrInvalidHeaderJSON = errors.New("invalid headers: must be a JSON object of string values")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)

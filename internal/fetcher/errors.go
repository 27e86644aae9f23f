package fetcher

import "fmt"

// FetchError wraps a transport, decode, or render failure together with the
// URL and operation it occurred on. The crawl engine logs these and moves on;
// a failed page contributes nothing to the result.
type FetchError struct {
	// URL is the request URL the failure occurred on.
	URL string

	// Op names the failing operation: "get", "read", "parse", "probe",
	// or "render".
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

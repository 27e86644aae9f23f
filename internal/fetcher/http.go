package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Default fetch settings.
const (
	// DefaultUserAgent is the browser-like User-Agent sent when the caller
	// does not configure one.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// probeTimeout bounds a single HEAD probe. Probes are cheaper than
	// fetches and get a tighter deadline.
	probeTimeout = 5 * time.Second
)

// HTTPFetcher fetches pages over plain HTTP(S).
type HTTPFetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	headers     map[string]string
	maxBodySize int64
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders sets custom headers sent with every request. They override
// the defaults, including User-Agent.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(f *HTTPFetcher) {
		if len(headers) == 0 {
			return
		}
		f.headers = make(map[string]string, len(headers))
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// WithMaxBodySize sets the maximum response body size to read. Larger
// bodies are truncated, not rejected.
func WithMaxBodySize(n int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithDelay spaces successive requests at least d apart. Zero disables
// pacing.
func WithDelay(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(f *HTTPFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewHTTPFetcher creates an HTTP fetcher with a tuned transport.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   f.timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return f
}

// Fetch downloads rawURL, decodes the body to UTF-8, and returns the parsed
// response. Non-2xx statuses are returned as responses, not errors; only
// transport and decode failures error out.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: rawURL, Op: "get", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Op: "get", Err: err}
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Op: "get", Err: err}
	}
	defer resp.Body.Close()

	body, err := f.readBody(resp)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Op: "read", Err: err}
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	f.logger.Debug("fetched page",
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", len(body))

	return ParseResponse(finalURL, resp.StatusCode, resp.Header.Get("Content-Type"), string(body))
}

// Probe issues a HEAD request and returns the final status code after
// redirects. The body is never read.
func (f *HTTPFetcher) Probe(ctx context.Context, rawURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, &FetchError{URL: rawURL, Op: "probe", Err: err}
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, &FetchError{URL: rawURL, Op: "probe", Err: err}
	}
	resp.Body.Close()

	return resp.StatusCode, nil
}

// setHeaders applies the default browser-like headers, then the custom
// headers on top so callers can override anything.
func (f *HTTPFetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
}

// readBody undoes the content encoding, converts the charset to UTF-8, and
// reads at most maxBodySize bytes.
//
// Setting Accept-Encoding by hand disables the transport's transparent
// gzip, so all three encodings are decoded here.
func (f *HTTPFetcher) readBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)
	var closers []io.Closer

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = gz
		closers = append(closers, gz)
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		reader = fl
		closers = append(closers, fl)
	}
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	// charset.NewReader only fails when the underlying read fails; unknown
	// charsets fall back to sniffing inside the reader itself.
	decoded, err := charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	return io.ReadAll(io.LimitReader(decoded, f.maxBodySize))
}

package fetcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultRenderTimeout bounds a single headless-browser render.
const DefaultRenderTimeout = 30 * time.Second

// RenderFetcher fetches pages through headless Chrome so JavaScript-built
// markup is visible to extraction. Custom request headers are not applied in
// this mode; callers that need them use the plain HTTP fetcher.
//
// Design decision: We fall back to plain HTTP when a render fails because:
//  1. A degraded page beats no page for link extraction
//  2. Chrome startup failures are environmental, not page errors
//  3. The caller asked for the page, not for a specific engine
type RenderFetcher struct {
	fallback   *HTTPFetcher
	timeout    time.Duration
	userAgent  string
	settleWait time.Duration
	screenshot string
	chromePath string
	sessions   chan struct{}
	logger     *slog.Logger
}

// RenderOption configures a RenderFetcher.
type RenderOption func(*RenderFetcher)

// WithRenderTimeout sets the per-render timeout.
func WithRenderTimeout(d time.Duration) RenderOption {
	return func(f *RenderFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRenderUserAgent sets the browser User-Agent.
func WithRenderUserAgent(ua string) RenderOption {
	return func(f *RenderFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithSettleWait adds a fixed wait after the document reports ready, for
// pages that keep building the DOM past readyState complete.
func WithSettleWait(d time.Duration) RenderOption {
	return func(f *RenderFetcher) {
		if d > 0 {
			f.settleWait = d
		}
	}
}

// WithScreenshotFile captures a screenshot of each rendered page to path.
// Successive renders overwrite it.
func WithScreenshotFile(path string) RenderOption {
	return func(f *RenderFetcher) {
		f.screenshot = path
	}
}

// WithRenderSessions bounds how many Chrome contexts run at once.
func WithRenderSessions(n int) RenderOption {
	return func(f *RenderFetcher) {
		if n > 0 {
			f.sessions = make(chan struct{}, n)
		}
	}
}

// WithChromePath points at a specific Chrome binary instead of the first
// one found on PATH.
func WithChromePath(path string) RenderOption {
	return func(f *RenderFetcher) {
		f.chromePath = path
	}
}

// WithRenderLogger sets the logger.
func WithRenderLogger(logger *slog.Logger) RenderOption {
	return func(f *RenderFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewRenderFetcher creates a render fetcher. The fallback handles probes and
// pages Chrome could not render.
func NewRenderFetcher(fallback *HTTPFetcher, opts ...RenderOption) *RenderFetcher {
	f := &RenderFetcher{
		fallback:  fallback,
		timeout:   DefaultRenderTimeout,
		userAgent: DefaultUserAgent,
		sessions:  make(chan struct{}, 1),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch renders rawURL in headless Chrome and returns the final DOM. On
// render failure it logs a warning and retries over plain HTTP.
func (f *RenderFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	resp, err := f.render(ctx, rawURL)
	if err != nil {
		f.logger.Warn("render failed, falling back to plain HTTP",
			"url", rawURL,
			"error", err)
		return f.fallback.Fetch(ctx, rawURL)
	}
	return resp, nil
}

// Probe delegates to the plain HTTP fetcher; liveness needs no rendering.
func (f *RenderFetcher) Probe(ctx context.Context, rawURL string) (int, error) {
	return f.fallback.Probe(ctx, rawURL)
}

func (f *RenderFetcher) render(parentCtx context.Context, rawURL string) (*Response, error) {
	select {
	case f.sessions <- struct{}{}:
		defer func() { <-f.sessions }()
	case <-parentCtx.Done():
		return nil, &FetchError{URL: rawURL, Op: "render", Err: parentCtx.Err()}
	}

	ctx, cancel := context.WithTimeout(parentCtx, f.timeout)
	defer cancel()

	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(f.userAgent),
	}
	if f.chromePath != "" {
		execOpts = append(execOpts, chromedp.ExecPath(f.chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	var (
		html     string
		finalURL string
		shot     []byte
	)

	actions := []chromedp.Action{
		chromedp.Navigate(rawURL),
		waitForDocumentReady(),
	}
	if f.settleWait > 0 {
		actions = append(actions, chromedp.Sleep(f.settleWait))
	}
	actions = append(actions,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if f.screenshot != "" {
		actions = append(actions, chromedp.CaptureScreenshot(&shot))
	}

	if err := chromedp.Run(chromeCtx, actions...); err != nil {
		return nil, &FetchError{URL: rawURL, Op: "render", Err: err}
	}

	if f.screenshot != "" {
		if err := os.WriteFile(f.screenshot, shot, 0o644); err != nil {
			f.logger.Warn("could not save screenshot",
				"path", f.screenshot,
				"error", err)
		} else {
			f.logger.Info("screenshot saved", "path", f.screenshot)
		}
	}

	if finalURL == "" {
		finalURL = rawURL
	}

	f.logger.Debug("rendered page", "url", rawURL, "html_bytes", len(html))

	// Chrome exports the DOM as UTF-8 and a completed navigation reads as
	// a 200; intermediate statuses are not visible through this path.
	return ParseResponse(finalURL, 200, "text/html; charset=utf-8", html)
}

// waitForDocumentReady polls document.readyState until the page reports
// complete or the context expires.
func waitForDocumentReady() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			var readyState string
			if err := chromedp.Evaluate(`document.readyState`, &readyState).Do(ctx); err != nil {
				return err
			}
			if readyState == "complete" {
				return nil
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}

package robots

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// DefaultCacheTTL is how long fetched robots.txt rules stay cached per host.
const DefaultCacheTTL = 30 * time.Minute

// Agent evaluates robots.txt rules for crawl targets, caching the parsed
// rules per host. Every error path fails open: a site whose robots.txt
// cannot be fetched or parsed is treated as allowing everything.
type Agent struct {
	client    *http.Client
	userAgent string
	ttl       time.Duration
	logger    *slog.Logger

	mu    sync.RWMutex
	cache map[string]entry
}

type entry struct {
	fetched time.Time
	rules   *robotstxt.RobotsData
}

// Option configures an Agent.
type Option func(*Agent)

// WithHTTPClient sets the client used to fetch robots.txt files.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Agent) {
		if client != nil {
			a.client = client
		}
	}
}

// WithUserAgent sets the agent token matched against robots.txt groups.
func WithUserAgent(ua string) Option {
	return func(a *Agent) {
		if ua != "" {
			a.userAgent = ua
		}
	}
}

// WithCacheTTL sets how long cached rules stay valid.
func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Agent) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAgent creates a robots agent.
func NewAgent(opts ...Option) *Agent {
	a := &Agent{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "linkscan",
		ttl:       DefaultCacheTTL,
		logger:    slog.Default(),
		cache:     make(map[string]entry),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Allowed reports whether rawURL may be crawled under the site's
// robots.txt. Unparseable URLs and robots fetch failures are allowed.
func (a *Agent) Allowed(ctx context.Context, rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil || !target.IsAbs() {
		return true
	}

	rules, err := a.rules(ctx, target)
	if err != nil {
		a.logger.Debug("robots.txt unavailable, allowing",
			"host", target.Host,
			"error", err)
		return true
	}

	group := rules.FindGroup(a.userAgent)
	if group == nil {
		group = rules.FindGroup("*")
		if group == nil {
			return true
		}
	}

	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

// rules returns the cached robots rules for the target's host, fetching
// them when missing or expired.
func (a *Agent) rules(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	host := strings.ToLower(target.Host)

	a.mu.RLock()
	cached, ok := a.cache[host]
	a.mu.RUnlock()
	if ok && time.Since(cached.fetched) < a.ttl {
		return cached.rules, nil
	}

	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		a.cacheAllowAll(host)
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		a.cacheAllowAll(host)
		return nil, fmt.Errorf("robots.txt returned status %d", resp.StatusCode)
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		a.cacheAllowAll(host)
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	a.mu.Lock()
	a.cache[host] = entry{fetched: time.Now(), rules: data}
	a.mu.Unlock()

	return data, nil
}

// cacheAllowAll stores allow-all rules for the host so a failed robots.txt
// fetch is not retried for every page of a crawl. The failure is retried
// after the regular TTL.
func (a *Agent) cacheAllowAll(host string) {
	data, err := robotstxt.FromBytes(nil)
	if err != nil {
		return
	}
	a.mu.Lock()
	a.cache[host] = entry{fetched: time.Now(), rules: data}
	a.mu.Unlock()
}

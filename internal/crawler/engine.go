package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/linkscan/internal/classify"
	"github.com/nao1215/linkscan/internal/comments"
	"github.com/nao1215/linkscan/internal/fetcher"
	"github.com/nao1215/linkscan/internal/filter"
	"github.com/nao1215/linkscan/internal/model"
	"github.com/nao1215/linkscan/internal/robots"
)

const (
	// DefaultMaxDepth is the crawl depth used when no depth option is given.
	DefaultMaxDepth = 2
	// DefaultMaxPages is the page budget used when no budget option is given.
	DefaultMaxPages = 50
)

// Engine walks a site breadth-first from a seed URL, extracting and
// classifying the links of every page it visits.
//
// Design decision: the engine fetches through the fetcher.Fetcher interface
// instead of owning an HTTP client because:
// 1. Plain HTTP and headless-browser crawls share one crawl loop.
// 2. Tests drive the engine against httptest servers without real browsers.
// 3. Rate limiting and decoding stay the fetcher's concern, not the crawler's.
type Engine struct {
	fetcher           fetcher.Fetcher
	maxDepth          int
	maxPages          int
	includeSubdomains bool
	workers           int
	extractComments   bool
	commentOpts       comments.Options
	pipeline          *filter.Pipeline
	fileExtensions    []string
	unique            bool
	robots            *robots.Agent
	logger            *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxDepth sets how many levels past the seed page the crawl may go.
// Depth 0 crawls only the seed page itself.
func WithMaxDepth(depth int) EngineOption {
	return func(e *Engine) {
		if depth >= 0 {
			e.maxDepth = depth
		}
	}
}

// WithMaxPages caps the number of pages the crawl may claim, including
// pages whose fetch later fails.
func WithMaxPages(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

// WithIncludeSubdomains treats subdomains of the seed domain as internal,
// which also makes their pages eligible for crawling.
func WithIncludeSubdomains(include bool) EngineOption {
	return func(e *Engine) {
		e.includeSubdomains = include
	}
}

// WithWorkers sets how many pages of one depth level may be fetched
// concurrently. Values below 2 keep the crawl sequential.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithCommentExtraction enables HTML and JavaScript comment harvesting on
// every crawled page, filtered by the given options.
func WithCommentExtraction(opts comments.Options) EngineOption {
	return func(e *Engine) {
		e.extractComments = true
		e.commentOpts = opts
	}
}

// WithLinkFilters applies the pipeline to each page's links before they are
// added to the crawl result. Enqueueing always works on the unfiltered set.
func WithLinkFilters(p *filter.Pipeline) EngineOption {
	return func(e *Engine) {
		e.pipeline = p
	}
}

// WithFileExtensions collects links whose URL ends in one of the given
// extensions into the separate files list of the crawl result.
func WithFileExtensions(exts []string) EngineOption {
	return func(e *Engine) {
		e.fileExtensions = filter.NormalizeExtensions(exts)
	}
}

// WithUniqueLinks controls the global deduplication pass over the combined
// link list at the end of the crawl. It is on by default.
func WithUniqueLinks(unique bool) EngineOption {
	return func(e *Engine) {
		e.unique = unique
	}
}

// WithRobotsAgent makes the crawl skip pages disallowed by robots.txt.
// Skipped pages do not consume the page budget.
func WithRobotsAgent(agent *robots.Agent) EngineOption {
	return func(e *Engine) {
		e.robots = agent
	}
}

// WithEngineLogger sets the logger used for per-page progress and warnings.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a crawl engine that fetches pages through f.
func NewEngine(f fetcher.Fetcher, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher:           f,
		maxDepth:          DefaultMaxDepth,
		maxPages:          DefaultMaxPages,
		includeSubdomains: true,
		workers:           1,
		unique:            true,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Crawl walks the site starting at startURL and returns the collected pages,
// links and files. When ctx is cancelled mid-crawl, Crawl returns the partial
// result gathered so far together with the context's error, and the result is
// marked interrupted.
func (e *Engine) Crawl(ctx context.Context, startURL string) (*model.CrawlResult, error) {
	seed, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parse start URL: %w", err)
	}
	if seed.Scheme != "http" && seed.Scheme != "https" {
		return nil, fmt.Errorf("start URL must be http or https, got %q", startURL)
	}

	began := time.Now()
	extractor := NewExtractor(seed.Host, e.includeSubdomains, e.logger)
	state := NewCrawlState(startURL, e.maxPages)

	var crawlErr error
	if e.workers > 1 {
		crawlErr = e.crawlConcurrent(ctx, extractor, state)
	} else {
		crawlErr = e.crawlSequential(ctx, extractor, state)
	}

	links := state.Links()
	if e.unique {
		links = filter.Unique(links)
	}

	result := &model.CrawlResult{
		CrawlInfo: model.CrawlInfo{
			StartURL:        startURL,
			BaseDomain:      seed.Host,
			PagesCrawled:    state.Claimed(),
			MaxDepth:        e.maxDepth,
			TotalLinks:      len(links),
			DurationSeconds: time.Since(began).Seconds(),
			Interrupted:     crawlErr != nil,
		},
		Pages: state.Pages(),
		Links: links,
	}
	if len(e.fileExtensions) > 0 {
		files := state.Files()
		result.Files = files
		result.CrawlInfo.FilesFound = len(files)
	}
	return result, crawlErr
}

// crawlSequential visits one claimed page at a time until the queue drains,
// the page budget runs out, or ctx is cancelled.
func (e *Engine) crawlSequential(ctx context.Context, extractor *Extractor, state *CrawlState) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		item, ok := state.Claim(e.maxDepth)
		if !ok {
			return nil
		}
		if e.robots != nil && !e.robots.Allowed(ctx, item.URL) {
			e.logger.Info("robots.txt disallows page, skipping", "url", item.URL)
			state.Unclaim()
			continue
		}
		e.visit(ctx, extractor, state, item)
	}
}

// crawlConcurrent fetches each depth level as a wave of goroutines, waiting
// for the whole wave before claiming the next level. Keeping levels
// synchronized preserves the breadth-first visit order of the sequential
// crawl, so the page budget trims the same frontier either way.
func (e *Engine) crawlConcurrent(ctx context.Context, extractor *Extractor, state *CrawlState) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := state.ClaimBatch(e.maxDepth)
		if len(batch) == 0 {
			return nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for _, item := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if e.robots != nil && !e.robots.Allowed(gctx, item.URL) {
					e.logger.Info("robots.txt disallows page, skipping", "url", item.URL)
					state.Unclaim()
					return nil
				}
				e.visit(gctx, extractor, state, item)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
}

// visit fetches one page, records its links and enqueues its crawlable
// children. Fetch failures are logged and swallowed so a dead page cannot
// abort the crawl; the failed claim still counts against the page budget.
func (e *Engine) visit(ctx context.Context, extractor *Extractor, state *CrawlState, item QueueItem) {
	e.logger.Info("crawling page", "url", item.URL, "depth", item.Depth)

	resp, err := e.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		e.logger.Warn("failed to crawl page", "url", item.URL, "error", err)
		return
	}

	pageLinks := extractor.Extract(resp, item.URL)

	page := model.PageRecord{
		URL:   item.URL,
		Depth: item.Depth,
		Title: resp.Title(),
	}
	page.CountLinks(pageLinks)

	if e.extractComments {
		found := comments.FromPage(resp.Body, resp.InlineScripts())
		page.SetComments(comments.Filter(found, e.commentOpts))
	}

	var files []model.Link
	if len(e.fileExtensions) > 0 {
		files = filter.ByExtension(pageLinks, e.fileExtensions)
		page.FilesFound = len(files)
	}

	reported := pageLinks
	if e.pipeline != nil {
		reported = e.pipeline.Apply(pageLinks)
	}

	// Children come from the unfiltered link set: a display filter such as
	// --types must not narrow what the crawl explores.
	var next []QueueItem
	if item.Depth < e.maxDepth {
		for _, l := range pageLinks {
			if !l.IsInternal {
				continue
			}
			if classify.HasFileExtension(l.URL) {
				continue
			}
			next = append(next, QueueItem{URL: l.URL, Depth: item.Depth + 1})
		}
	}

	state.Record(page, reported, files, next)
}

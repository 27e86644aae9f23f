package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkscan/internal/comments"
	"github.com/nao1215/linkscan/internal/config"
	"github.com/nao1215/linkscan/internal/crawler"
	"github.com/nao1215/linkscan/internal/database"
	"github.com/nao1215/linkscan/internal/extract"
	"github.com/nao1215/linkscan/internal/fetcher"
	"github.com/nao1215/linkscan/internal/filter"
	"github.com/nao1215/linkscan/internal/log"
	"github.com/nao1215/linkscan/internal/model"
	"github.com/nao1215/linkscan/internal/report"
	"github.com/nao1215/linkscan/internal/robots"
	"github.com/nao1215/linkscan/internal/validate"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Crawl a site and extract every link it exposes",
		Long: `Scrape crawls a website breadth-first from the seed URL and extracts
every link found on the way.

Each link is classified as internal, subdomain, or external and typed by
what it points at (page, image, document, and so on). The crawl can work
on a single page (--depth 0) or walk an entire site.

Examples:
  # Extract all links from a single page
  linkscan scrape https://example.com --depth 0

  # Crawl an entire site
  linkscan scrape https://example.com --depth 3 --max-pages 100

  # Find downloadable files across a site
  linkscan scrape https://example.com -e pdf,docx,zip --links-only

  # External links with validation, as CSV
  linkscan scrape https://example.com --external-only --validate -f csv

  # JavaScript-heavy app with comment extraction
  linkscan scrape https://spa.example.com --js --include-comments

  # Extract elements matching a CSS selector from the seed page
  linkscan scrape https://example.com --selector "div.product"

Configuration file (.linkscan.yml) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      depth: 3
      delay: 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: runScrapeCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl depth (0 crawls only the seed page)")
	cmd.Flags().IntP("max-pages", "m", config.DefaultMaxPages,
		"Maximum number of pages to crawl")
	cmd.Flags().Int("workers", config.DefaultWorkers,
		"Number of concurrent page fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each request")
	cmd.Flags().Duration("delay", 0,
		"Pause between requests (e.g., 500ms)")
	cmd.Flags().String("headers", "",
		`Custom headers as a JSON object (e.g., '{"Authorization": "Bearer token"}')`)

	// Scope flags
	cmd.Flags().Bool("include-subdomains", true,
		"Treat subdomains as internal links")
	cmd.Flags().Bool("internal-only", false,
		"Only report internal links")
	cmd.Flags().Bool("external-only", false,
		"Only report external links")
	cmd.Flags().Bool("subdomains-only", false,
		"Only report subdomain links")

	// Filtering flags
	cmd.Flags().StringSliceP("extensions", "e", nil,
		"Collect links with these file extensions (e.g., pdf,docx,zip)")
	cmd.Flags().StringSlice("filter", nil,
		"Keep links of these types or groups (e.g., images,documents)")
	cmd.Flags().Bool("unique", true,
		"Remove duplicate links")

	// Analysis flags
	cmd.Flags().Bool("validate", false,
		"Probe each link and record whether it is accessible (slower)")
	cmd.Flags().Bool("respect-robots", false,
		"Honor robots.txt rules while crawling")

	// Comment extraction flags
	cmd.Flags().Bool("include-comments", false,
		"Extract HTML and JavaScript comments from crawled pages")
	cmd.Flags().String("comment-type", "",
		"Keep one comment type: html, javascript, js_single, js_multi")
	cmd.Flags().Int("min-comment-length", 0,
		"Minimum comment length to include")

	// Rendering flags
	cmd.Flags().Bool("js", false,
		"Render pages in a headless browser before extraction")
	cmd.Flags().String("screenshot", "",
		"Save a screenshot of the page to this path (requires --js)")

	// Single page extraction flags
	cmd.Flags().StringP("selector", "s", "",
		"CSS selector to extract elements from the seed page (no crawl)")
	cmd.Flags().Bool("content-only", false,
		"Extract the seed page's content instead of links (no crawl)")

	// Output flags
	cmd.Flags().Bool("links-only", false,
		"Output only links, not page metadata")
	cmd.Flags().Bool("summary", true,
		"Show crawl summary on stderr")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format: json, csv, table, html, markdown, xlsx")
	cmd.Flags().StringP("output", "o", "",
		"Write results to the given file path (creates directories if needed)")

	// Archive flags
	cmd.Flags().Bool("archive", false,
		"Archive the crawl result for later comparison with the compare command")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkscan.yml in current, config, or home directory)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScrapeConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger)
}

// buildScrapeConfig creates a Config from cobra command flags.
func buildScrapeConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]

	// Get flag values
	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	headerJSON, err := cmd.Flags().GetString("headers")
	if err != nil {
		return nil, err
	}
	cfg.Headers, err = config.ParseHeaders(headerJSON)
	if err != nil {
		return nil, err
	}

	cfg.IncludeSubdomains, err = cmd.Flags().GetBool("include-subdomains")
	if err != nil {
		return nil, err
	}

	cfg.InternalOnly, err = cmd.Flags().GetBool("internal-only")
	if err != nil {
		return nil, err
	}

	cfg.ExternalOnly, err = cmd.Flags().GetBool("external-only")
	if err != nil {
		return nil, err
	}

	cfg.SubdomainsOnly, err = cmd.Flags().GetBool("subdomains-only")
	if err != nil {
		return nil, err
	}

	cfg.Extensions, err = cmd.Flags().GetStringSlice("extensions")
	if err != nil {
		return nil, err
	}

	cfg.FilterTypes, err = cmd.Flags().GetStringSlice("filter")
	if err != nil {
		return nil, err
	}

	cfg.UniqueLinks, err = cmd.Flags().GetBool("unique")
	if err != nil {
		return nil, err
	}

	cfg.ValidateLinks, err = cmd.Flags().GetBool("validate")
	if err != nil {
		return nil, err
	}

	cfg.RespectRobots, err = cmd.Flags().GetBool("respect-robots")
	if err != nil {
		return nil, err
	}

	cfg.IncludeComments, err = cmd.Flags().GetBool("include-comments")
	if err != nil {
		return nil, err
	}

	cfg.CommentType, err = cmd.Flags().GetString("comment-type")
	if err != nil {
		return nil, err
	}

	cfg.MinCommentLength, err = cmd.Flags().GetInt("min-comment-length")
	if err != nil {
		return nil, err
	}

	cfg.RenderJS, err = cmd.Flags().GetBool("js")
	if err != nil {
		return nil, err
	}

	cfg.ScreenshotFile, err = cmd.Flags().GetString("screenshot")
	if err != nil {
		return nil, err
	}

	cfg.Selector, err = cmd.Flags().GetString("selector")
	if err != nil {
		return nil, err
	}

	cfg.ContentOnly, err = cmd.Flags().GetBool("content-only")
	if err != nil {
		return nil, err
	}

	cfg.LinksOnly, err = cmd.Flags().GetBool("links-only")
	if err != nil {
		return nil, err
	}

	cfg.Summary, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.SaveToArchive, err = cmd.Flags().GetBool("archive")
	if err != nil {
		return nil, err
	}
	cfg.ArchiveDir = config.XDGDataDir()

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadProfiles(cfg); err != nil {
		return nil, err
	}
	applyProfile(cmd, cfg)

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.Quiet = getBoolFlag(cmd, "quiet")

	return cfg, nil
}

// loadProfiles resolves and loads the per-site profile file.
// If the user explicitly specified a config file path, error if not found.
// If no path specified, silently use empty profiles if no file found.
func loadProfiles(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		profiles, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Profiles = profiles
		return nil
	}
	if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Use empty profiles if no file found and user didn't explicitly specify one
	cfg.Profiles = &config.File{
		Sites: make(map[string]config.Profile),
	}
	return nil
}

// applyProfile overlays the seed domain's site profile under the explicit
// flags: flags the user set keep their values, profile values fill the rest.
func applyProfile(cmd *cobra.Command, cfg *config.Config) {
	if cfg.Profiles == nil {
		return
	}
	seed, err := url.Parse(cfg.SeedURL)
	if err != nil || seed.Host == "" {
		return
	}
	profile := cfg.Profiles.ProfileFor(seed.Host)

	if profile.Depth != nil && !cmd.Flags().Changed("depth") {
		cfg.MaxDepth = *profile.Depth
	}
	if profile.Delay != 0 && !cmd.Flags().Changed("delay") {
		cfg.Delay = profile.Delay.Std()
	}
	if profile.IncludeSubdomains != nil && !cmd.Flags().Changed("include-subdomains") {
		cfg.IncludeSubdomains = *profile.IncludeSubdomains
	}

	if len(profile.Headers) == 0 && profile.Cookie == "" {
		return
	}
	merged := make(map[string]string, len(profile.Headers)+len(cfg.Headers)+1)
	for k, v := range profile.Headers {
		merged[k] = v
	}
	if profile.Cookie != "" {
		merged["Cookie"] = profile.Cookie
	}
	// Headers passed with --headers win per key.
	for k, v := range cfg.Headers {
		merged[k] = v
	}
	cfg.Headers = merged
}

// runScrape executes the crawl and writes the result.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	httpFetcher, pageFetcher := buildFetchers(cfg, logger)

	if cfg.RenderJS && len(cfg.Headers) > 0 {
		fmt.Fprintln(os.Stderr, "Warning: Custom headers not supported in JS mode")
	}

	// --content-only and --selector extract from the seed page alone.
	if cfg.ContentOnly || cfg.Selector != "" {
		return runSinglePage(ctx, cfg, pageFetcher)
	}

	if cfg.ScreenshotFile != "" && !cfg.RenderJS {
		fmt.Fprintln(os.Stderr, "Warning: Screenshots require --js flag")
	}

	logger.Info("starting crawl",
		"url", cfg.SeedURL,
		"depth", cfg.MaxDepth,
		"maxPages", cfg.MaxPages,
		"workers", cfg.Workers,
	)

	engine := crawler.NewEngine(pageFetcher, engineOptions(cfg, logger)...)

	result, err := engine.Crawl(ctx, cfg.SeedURL)
	if err != nil {
		if result == nil {
			return err
		}
		// Interrupted crawls still report what they gathered.
		fmt.Fprintln(os.Stderr, "\nCrawling interrupted by user")
	}

	if cfg.ValidateLinks && len(result.Links) > 0 && ctx.Err() == nil {
		validator := validate.NewValidator(httpFetcher,
			validate.WithPause(cfg.ValidatePause),
			validate.WithLogger(logger),
		)
		if err := validator.Links(ctx, result.Links); err != nil {
			logger.Warn("link validation stopped early", "error", err)
		}
	}

	if cfg.SaveToArchive {
		if result.CrawlInfo.Interrupted {
			logger.Info("interrupted crawl not archived")
		} else if err := archiveResult(ctx, cfg, result, logger); err != nil {
			logger.Error("failed to archive crawl", "error", err)
		}
	}

	if err := writeOutput(cfg, result, cfg.LinksOnly); err != nil {
		return err
	}

	if cfg.Summary {
		printSummary(cfg, result)
	}
	return nil
}

// buildFetchers creates the HTTP fetcher and, when JS rendering is on, the
// headless-browser fetcher wrapping it. The HTTP fetcher always exists
// because validation probes bypass the browser.
func buildFetchers(cfg *config.Config, logger *slog.Logger) (*fetcher.HTTPFetcher, fetcher.Fetcher) {
	httpOpts := []fetcher.HTTPOption{
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithHTTPLogger(logger),
	}
	if len(cfg.Headers) > 0 {
		httpOpts = append(httpOpts, fetcher.WithHeaders(cfg.Headers))
		logger.Debug("using custom request headers", log.HeaderGroup("headers", cfg.Headers))
	}
	if cfg.Delay > 0 {
		httpOpts = append(httpOpts, fetcher.WithDelay(cfg.Delay))
	}
	httpFetcher := fetcher.NewHTTPFetcher(httpOpts...)

	if !cfg.RenderJS {
		return httpFetcher, httpFetcher
	}

	renderOpts := []fetcher.RenderOption{
		fetcher.WithRenderUserAgent(cfg.UserAgent),
		fetcher.WithRenderLogger(logger),
	}
	if cfg.RenderWait > 0 {
		renderOpts = append(renderOpts, fetcher.WithSettleWait(cfg.RenderWait))
	}
	if cfg.ScreenshotFile != "" {
		renderOpts = append(renderOpts, fetcher.WithScreenshotFile(cfg.ScreenshotFile))
	}
	return httpFetcher, fetcher.NewRenderFetcher(httpFetcher, renderOpts...)
}

// engineOptions maps the configuration onto crawl engine options.
func engineOptions(cfg *config.Config, logger *slog.Logger) []crawler.EngineOption {
	opts := []crawler.EngineOption{
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithIncludeSubdomains(cfg.IncludeSubdomains),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithUniqueLinks(cfg.UniqueLinks),
		crawler.WithEngineLogger(logger),
	}

	pipe := filter.FromOptions(filter.Options{
		Scope:      filter.ScopeFromFlags(cfg.InternalOnly, cfg.ExternalOnly, cfg.SubdomainsOnly),
		Extensions: cfg.Extensions,
		Types:      cfg.FilterTypes,
	})
	if pipe.Len() > 0 {
		opts = append(opts, crawler.WithLinkFilters(pipe))
	}

	if len(cfg.Extensions) > 0 {
		opts = append(opts, crawler.WithFileExtensions(cfg.Extensions))
	}
	if cfg.IncludeComments {
		opts = append(opts, crawler.WithCommentExtraction(commentOptions(cfg)))
	}
	if cfg.RespectRobots {
		agent := robots.NewAgent(
			robots.WithUserAgent(cfg.UserAgent),
			robots.WithLogger(logger),
		)
		opts = append(opts, crawler.WithRobotsAgent(agent))
	}
	return opts
}

// commentOptions maps the comment flags onto extraction options.
func commentOptions(cfg *config.Config) comments.Options {
	return comments.Options{
		Types:     comments.ParseTypeToken(cfg.CommentType),
		MinLength: cfg.MinCommentLength,
	}
}

// runSinglePage serves --content-only and --selector: it fetches the seed
// URL alone and extracts from that one page.
func runSinglePage(ctx context.Context, cfg *config.Config, f fetcher.Fetcher) error {
	resp, err := f.Fetch(ctx, cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", cfg.SeedURL, err)
	}

	if cfg.ScreenshotFile != "" {
		if cfg.RenderJS {
			fmt.Fprintf(os.Stderr, "Screenshot saved to: %s\n", cfg.ScreenshotFile)
		} else {
			fmt.Fprintln(os.Stderr, "Warning: Screenshots require --js flag")
		}
	}

	if cfg.Selector != "" {
		selections, err := extract.BySelector(resp, cfg.Selector)
		if err != nil {
			return err
		}
		return writeRecordSet(cfg, selections, selectionRecords(selections))
	}

	var opts []extract.SummaryOption
	if cfg.IncludeComments {
		opts = append(opts, extract.WithComments(commentOptions(cfg)))
	}
	summary := extract.Summarize(resp, opts...)
	return writeRecordSet(cfg, []*extract.ContentSummary{summary}, summaryRecords(summary, cfg.IncludeComments))
}

// selectionRecords flattens selector matches for the tabular formats.
func selectionRecords(selections []extract.Selection) report.RecordSet {
	set := report.RecordSet{Columns: []string{"text", "html", "attributes", "href"}}
	for i := range selections {
		set.Rows = append(set.Rows, map[string]any{
			"text":       selections[i].Text,
			"html":       selections[i].HTML,
			"attributes": selections[i].Attributes,
			"href":       selections[i].Href,
		})
	}
	return set
}

// summaryRecords flattens the content summary for the tabular formats.
// Full comment bodies stay JSON-only; the tabular formats carry the counts.
func summaryRecords(summary *extract.ContentSummary, withComments bool) report.RecordSet {
	columns := []string{"url", "title", "text_length", "status_code", "content_preview"}
	row := map[string]any{
		"url":             summary.URL,
		"title":           summary.Title,
		"text_length":     summary.TextLength,
		"status_code":     summary.StatusCode,
		"content_preview": summary.ContentPreview,
	}
	if withComments {
		columns = append(columns, "comments_count", "comment_types")
		if summary.CommentsCount != nil {
			row["comments_count"] = *summary.CommentsCount
		}
		row["comment_types"] = summary.CommentTypes
	}
	return report.RecordSet{Columns: columns, Rows: []map[string]any{row}}
}

// archiveResult stores the finished crawl in the snapshot archive.
func archiveResult(ctx context.Context, cfg *config.Config, result *model.CrawlResult, logger *slog.Logger) error {
	archive, err := database.Open(cfg.ArchiveDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	id, err := archive.SaveSnapshot(ctx, result)
	if err != nil {
		return err
	}
	logger.Info("crawl archived", "snapshotID", id, "domain", result.CrawlInfo.BaseDomain)
	fmt.Fprintf(os.Stderr, "Crawl archived as snapshot %d\n", id)
	return nil
}

// printSummary reports the crawl counters on stderr so data output on
// stdout stays clean.
func printSummary(cfg *config.Config, result *model.CrawlResult) {
	fmt.Fprintf(os.Stderr, "\nCrawl complete!\n")
	fmt.Fprintf(os.Stderr, "Pages crawled: %d\n", result.CrawlInfo.PagesCrawled)
	fmt.Fprintf(os.Stderr, "Total links found: %d\n", result.CrawlInfo.TotalLinks)
	if len(cfg.Extensions) > 0 {
		fmt.Fprintf(os.Stderr, "Files with specified extensions: %d\n", result.CrawlInfo.FilesFound)
	}
	if cfg.ValidateLinks {
		fmt.Fprintf(os.Stderr, "Accessible links: %d/%d\n", result.AccessibleLinks(), len(result.Links))
	}
}

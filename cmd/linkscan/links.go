package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkscan/internal/config"
	"github.com/nao1215/linkscan/internal/crawler"
	"github.com/nao1215/linkscan/internal/filter"
	"github.com/nao1215/linkscan/internal/model"
	"github.com/nao1215/linkscan/internal/validate"
)

// NewLinksCmd creates the links command.
func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links <url>",
		Short: "Extract all links from a single webpage",
		Long: `Links fetches one page and extracts every link on it, without crawling
further. Subdomains count as external unless --include-subdomains is set.

Examples:
  linkscan links https://example.com
  linkscan links https://example.com --internal-only -f json
  linkscan links https://example.com --subdomains-only
  linkscan links https://example.com --include-subdomains --internal-only
  linkscan links https://example.com --validate --filter images
  linkscan links https://example.com --extensions pdf,docx,zip
  linkscan links https://example.com --external-only -o external_links.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runLinksCmd,
	}

	// Fetch flags
	cmd.Flags().Bool("js", false,
		"Render the page in a headless browser before extraction")
	cmd.Flags().String("headers", "",
		`Custom headers as a JSON object (e.g., '{"Authorization": "Bearer token"}')`)

	// Scope flags
	cmd.Flags().Bool("include-subdomains", false,
		"Treat subdomains as internal links")
	cmd.Flags().Bool("internal-only", false,
		"Only report internal links")
	cmd.Flags().Bool("external-only", false,
		"Only report external links")
	cmd.Flags().Bool("subdomains-only", false,
		"Only report subdomain links")

	// Filtering flags
	cmd.Flags().StringSliceP("extensions", "e", nil,
		"Keep links with these file extensions (e.g., pdf,docx,zip)")
	cmd.Flags().StringSlice("filter", nil,
		"Keep links of these types or groups (e.g., images,documents)")
	cmd.Flags().Bool("unique", true,
		"Remove duplicate links")

	// Analysis flags
	cmd.Flags().Bool("validate", false,
		"Probe each link and record whether it is accessible (slower)")
	cmd.Flags().Bool("show-progress", true,
		"Print a scope and type breakdown before filtering")

	// Output flags
	cmd.Flags().StringP("format", "f", config.DefaultLinksFormat,
		"Output format: json, csv, table, html, markdown, xlsx")
	cmd.Flags().StringP("output", "o", "",
		"Write results to the given file path (creates directories if needed)")

	return cmd
}

// runLinksCmd executes the links command.
func runLinksCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildLinksConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	// Validation of a link-heavy page can run for a while, so interrupts
	// cancel it the same way they cancel a crawl.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runLinks(ctx, cfg, logger)
}

// buildLinksConfig creates a Config from cobra command flags.
func buildLinksConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]
	cfg.Format = config.DefaultLinksFormat

	// Get flag values
	var err error

	cfg.RenderJS, err = cmd.Flags().GetBool("js")
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

	cfg.ShowProgress, err = cmd.Flags().GetBool("show-progress")
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

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.Quiet = getBoolFlag(cmd, "quiet")

	return cfg, nil
}

// runLinks fetches one page, extracts its links, and writes the filtered
// set.
func runLinks(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	httpFetcher, pageFetcher := buildFetchers(cfg, logger)

	if cfg.RenderJS && len(cfg.Headers) > 0 {
		fmt.Fprintln(os.Stderr, "Warning: Custom headers not supported in JS mode")
	}

	resp, err := pageFetcher.Fetch(ctx, cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", cfg.SeedURL, err)
	}

	seed, err := url.Parse(cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	extractor := crawler.NewExtractor(seed.Host, cfg.IncludeSubdomains, logger)
	allLinks := extractor.Extract(resp, cfg.SeedURL)

	if cfg.ShowProgress && len(allLinks) > 0 {
		printLinkBreakdown(allLinks)
	}

	pipe := filter.FromOptions(filter.Options{
		Scope:      filter.ScopeFromFlags(cfg.InternalOnly, cfg.ExternalOnly, cfg.SubdomainsOnly),
		Extensions: cfg.Extensions,
		Types:      cfg.FilterTypes,
		Unique:     cfg.UniqueLinks,
	})
	links := pipe.Apply(allLinks)

	if cfg.ValidateLinks && len(links) > 0 {
		validator := validate.NewValidator(httpFetcher,
			validate.WithPause(cfg.ValidatePause),
			validate.WithLogger(logger),
		)
		if err := validator.Links(ctx, links); err != nil {
			logger.Warn("link validation stopped early", "error", err)
		}
	}

	fmt.Fprintf(os.Stderr, "\nFound %d links\n", len(links))
	return writeOutput(cfg, &model.CrawlResult{Links: links}, true)
}

// printLinkBreakdown reports scope and type counts for the unfiltered link
// set on stderr. Subdomain links that count as internal are tallied as
// internal.
func printLinkBreakdown(links []model.Link) {
	fmt.Fprintf(os.Stderr, "Found %d total links before filtering\n", len(links))

	var internal, subdomain, external int
	for i := range links {
		switch {
		case links[i].IsInternal:
			internal++
		case links[i].IsSubdomain:
			subdomain++
		default:
			external++
		}
	}
	fmt.Fprintf(os.Stderr, "  • Internal: %d\n", internal)
	fmt.Fprintf(os.Stderr, "  • Subdomains: %d\n", subdomain)
	fmt.Fprintf(os.Stderr, "  • External: %d\n", external)

	typeCounts := make(map[string]int)
	for i := range links {
		typeCounts[string(links[i].LinkType)]++
	}
	types := make([]string, 0, len(typeCounts))
	for t := range typeCounts {
		types = append(types, t)
	}
	slices.Sort(types)

	fmt.Fprintln(os.Stderr, "Link types found:")
	for _, t := range types {
		fmt.Fprintf(os.Stderr, "  • %s: %d\n", t, typeCounts[t])
	}
}

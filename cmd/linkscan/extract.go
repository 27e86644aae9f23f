package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkscan/internal/config"
	"github.com/nao1215/linkscan/internal/extract"
	"github.com/nao1215/linkscan/internal/report"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <url> <rules.json>",
		Short: "Extract structured data from a page using custom rules",
		Long: `Extract fetches one page and pulls out the fields described by a JSON
rules file. Each rule names a CSS selector, the value to read (element
text or an attribute), and whether to collect every match or just the
first one.

Example rules.json:
  {
    "title": {"selector": "h1", "attribute": "text"},
    "price": {"selector": ".price", "attribute": "text"},
    "image": {"selector": "img.product", "attribute": "src"},
    "tags":  {"selector": ".tag", "attribute": "text", "all": true}
  }

Examples:
  linkscan extract https://example.com rules.json
  linkscan extract https://shop.example.com rules.json --js -f csv
  linkscan extract https://spa.example.com rules.json --js --wait 2s`,
		Args: cobra.ExactArgs(2),
		RunE: runExtractCmd,
	}

	// Fetch flags
	cmd.Flags().Bool("js", false,
		"Render the page in a headless browser before extraction")
	cmd.Flags().DurationP("wait", "w", 0,
		"Extra settle time after the page reports ready (requires --js)")
	cmd.Flags().String("headers", "",
		`Custom headers as a JSON object (e.g., '{"Authorization": "Bearer token"}')`)

	// Output flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format: json, csv, table, html, markdown, xlsx")
	cmd.Flags().StringP("output", "o", "",
		"Write results to the given file path (creates directories if needed)")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, rulesPath, err := buildExtractConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Rules problems surface before any fetch happens.
	rules, err := extract.LoadRules(rulesPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runExtract(ctx, cfg, rules, logger)
}

// buildExtractConfig creates a Config from cobra command flags and returns
// the rules file path.
func buildExtractConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]

	// Get flag values
	var err error

	cfg.RenderJS, err = cmd.Flags().GetBool("js")
	if err != nil {
		return nil, "", err
	}

	cfg.RenderWait, err = cmd.Flags().GetDuration("wait")
	if err != nil {
		return nil, "", err
	}

	headerJSON, err := cmd.Flags().GetString("headers")
	if err != nil {
		return nil, "", err
	}
	cfg.Headers, err = config.ParseHeaders(headerJSON)
	if err != nil {
		return nil, "", err
	}

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, "", err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, "", err
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.Quiet = getBoolFlag(cmd, "quiet")

	return cfg, args[1], nil
}

// runExtract fetches the page and applies the extraction rules.
func runExtract(ctx context.Context, cfg *config.Config, rules extract.Rules, logger *slog.Logger) error {
	_, pageFetcher := buildFetchers(cfg, logger)

	if cfg.RenderJS && len(cfg.Headers) > 0 {
		fmt.Fprintln(os.Stderr, "Warning: Custom headers not supported in JS mode")
	}

	resp, err := pageFetcher.Fetch(ctx, cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", cfg.SeedURL, err)
	}

	fields := rules.Apply(resp)
	return writeRecordSet(cfg, []map[string]any{fields}, fieldRecords(fields))
}

// fieldRecords flattens the extracted fields into one record with sorted
// columns.
func fieldRecords(fields map[string]any) report.RecordSet {
	columns := make([]string, 0, len(fields))
	for field := range fields {
		columns = append(columns, field)
	}
	slices.Sort(columns)
	return report.RecordSet{Columns: columns, Rows: []map[string]any{fields}}
}

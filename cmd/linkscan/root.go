// Package main provides the entry point for the linkscan CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkscan/internal/log"
)

// NewRootCmd creates the root command for linkscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkscan",
		Short: "Crawl websites and classify every link they expose",
		Long: `linkscan crawls a website from a seed URL and classifies each discovered
link as internal, subdomain, or external. It can validate link health,
extract developer comments from pages, pull structured data with CSS
selectors, and archive crawls for later comparison.

By default, pages are fetched over plain HTTP. Use --js to render
JavaScript-heavy pages in a headless browser.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a boolean flag from the command, falling back to
// the root persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the redacting structured logger driven by the
// persistent --verbose and --quiet flags.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getBoolFlag(cmd, "verbose")
	quiet := getBoolFlag(cmd, "quiet")
	return log.NewSecureLogger(os.Stderr, log.LevelFromFlags(verbose, quiet))
}

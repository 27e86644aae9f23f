package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkscan/internal/config"
	"github.com/nao1215/linkscan/internal/database"
)

// NewCompareCmd creates the compare command.
// This command compares archived crawl snapshots of the same domain.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <domain>",
		Short: "Compare archived crawl snapshots of a domain",
		Long: `Compare shows how a domain changed between two archived crawls.

It reads snapshots stored by 'linkscan scrape --archive' and reports:
- Links that appeared since the baseline crawl
- Links that disappeared since the baseline crawl
- The change in crawled page count

By default the latest two snapshots are compared. The comparison needs at
least two snapshots of the domain in the archive.

Examples:
  # Compare the latest two snapshots of a domain
  linkscan compare example.com

  # List the snapshot history of a domain
  linkscan compare --list example.com

  # Compare the latest snapshot against a specific one
  linkscan compare --with-id 5 example.com

  # Output the comparison in JSON format
  linkscan compare --json example.com

  # List all archived domains
  linkscan compare --list-domains`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List snapshot history for the specified domain")
	cmd.Flags().BoolP("list-domains", "L", false,
		"List all domains with archived crawls")

	// Comparison target flags
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with a specific snapshot by ID (use --list to see available IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-domains flag first (requires the archive but no domain)
	listDomains, err := cmd.Flags().GetBool("list-domains")
	if err != nil {
		return err
	}

	// Validate arguments before opening the archive (unless --list-domains)
	var domain string
	if !listDomains {
		if len(args) == 0 {
			return errors.New("domain is required (use --list-domains to see archived domains)")
		}
		domain = normalizeDomain(args[0])
	}

	// Use XDG data directory for the archive
	archive, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	ctx := context.Background()

	if listDomains {
		return listArchivedDomains(ctx, archive)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listSnapshotHistory(ctx, archive, domain)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}

	return runComparison(ctx, archive, domain, withID, jsonOutput)
}

// normalizeDomain accepts a bare domain or a full URL and returns the host
// part, matching how snapshots record their base domain.
func normalizeDomain(arg string) string {
	arg = strings.TrimSpace(arg)
	for _, prefix := range []string{"http://", "https://"} {
		arg = strings.TrimPrefix(arg, prefix)
	}
	if i := strings.IndexByte(arg, '/'); i >= 0 {
		arg = arg[:i]
	}
	return arg
}

// listArchivedDomains lists all domains that have snapshots in the archive.
func listArchivedDomains(ctx context.Context, archive *database.Archive) error {
	domains, err := archive.ListDomains(ctx)
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}

	if len(domains) == 0 {
		fmt.Println("No archived crawls found.")
		fmt.Println("\nUse 'linkscan scrape --archive <url>' to archive a crawl.")
		return nil
	}

	fmt.Printf("Archived domains (%d):\n\n", len(domains))
	for _, domain := range domains {
		fmt.Printf("  • %s\n", domain)
	}
	fmt.Println("\nUse 'linkscan compare --list <domain>' to see crawl history for a domain.")

	return nil
}

// listSnapshotHistory lists all archived snapshots for a specific domain.
func listSnapshotHistory(ctx context.Context, archive *database.Archive, domain string) error {
	history, err := archive.History(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to get crawl history: %w", err)
	}

	if len(history) == 0 {
		fmt.Printf("No crawl history found for %s\n", domain)
		fmt.Println("\nUse 'linkscan scrape --archive' to archive a crawl of this domain.")
		return nil
	}

	fmt.Printf("Crawl history for %s (%d snapshots):\n\n", domain, len(history))
	fmt.Printf("  %-6s  %-20s  %-8s  %-8s  %s\n", "ID", "Date", "Pages", "Links", "Seed URL")
	fmt.Println("  " + strings.Repeat("-", 70))

	for _, meta := range history {
		fmt.Printf("  %-6d  %-20s  %-8d  %-8d  %s\n",
			meta.ID,
			meta.CreatedAt.Format("2006-01-02 15:04:05"),
			meta.PagesCrawled,
			meta.LinksFound,
			meta.SeedURL,
		)
	}

	fmt.Println("\nUse 'linkscan compare <domain>' to compare the latest two snapshots.")
	fmt.Println("Use 'linkscan compare --with-id <id> <domain>' to compare against a specific snapshot.")

	return nil
}

// runComparison performs the actual comparison between snapshots.
func runComparison(ctx context.Context, archive *database.Archive, domain string, withID int64, jsonOutput bool) error {
	snapshots, err := archive.LatestSnapshots(ctx, domain, 2)
	if err != nil {
		return fmt.Errorf("failed to get snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		return fmt.Errorf("no crawl history found for %s", domain)
	}

	// The latest snapshot is always one side of the comparison
	latest := &snapshots[0]

	var baseline *database.Snapshot
	if withID > 0 {
		// Pin the baseline to the specified snapshot
		baseline, err = archive.SnapshotByID(ctx, withID)
		if err != nil {
			return fmt.Errorf("failed to get snapshot with ID %d: %w", withID, err)
		}
		if baseline == nil {
			return fmt.Errorf("snapshot with ID %d not found", withID)
		}
		// Validate that the snapshot belongs to the same domain
		if baseline.BaseDomain != domain {
			return fmt.Errorf("snapshot %d belongs to %s, not %s", withID, baseline.BaseDomain, domain)
		}
		if baseline.ID == latest.ID {
			return fmt.Errorf("snapshot %d is the latest snapshot; nothing to compare against", withID)
		}
	} else {
		// Default: compare with the previous snapshot
		if len(snapshots) < 2 {
			return fmt.Errorf("at least 2 snapshots are required for comparison (found %d)", len(snapshots))
		}
		baseline = &snapshots[1]
	}

	diff := database.Compare(baseline, latest)

	if jsonOutput {
		return outputDiffJSON(diff)
	}
	return outputDiffText(diff)
}

// outputDiffJSON outputs the snapshot diff in JSON format.
func outputDiffJSON(diff *database.SnapshotDiff) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diff)
}

// outputDiffText outputs the snapshot diff in human-readable text format.
func outputDiffText(diff *database.SnapshotDiff) error {
	fmt.Printf("Crawl Comparison: %s\n", diff.Domain)
	fmt.Println(strings.Repeat("=", 60))

	// Snapshot identities
	fmt.Printf("\nBaseline: snapshot %d (%s)\n",
		diff.BaselineID, diff.BaselineAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Latest:   snapshot %d (%s)\n",
		diff.LatestID, diff.LatestAt.Format("2006-01-02 15:04:05"))

	// Change summary
	fmt.Printf("\nPages crawled: %s\n", formatDelta(diff.PagesDelta))
	fmt.Printf("Links added:   %d\n", len(diff.AddedLinks))
	fmt.Printf("Links removed: %d\n", len(diff.RemovedLinks))

	if len(diff.AddedLinks) > 0 {
		fmt.Printf("\nAdded Links (%d):\n", len(diff.AddedLinks))
		for _, link := range diff.AddedLinks {
			fmt.Printf("  [+] %s\n", link)
		}
	}

	if len(diff.RemovedLinks) > 0 {
		fmt.Printf("\nRemoved Links (%d):\n", len(diff.RemovedLinks))
		for _, link := range diff.RemovedLinks {
			fmt.Printf("  [-] %s\n", link)
		}
	}

	if len(diff.AddedLinks) == 0 && len(diff.RemovedLinks) == 0 {
		fmt.Println("\nNo link changes between snapshots.")
	}

	return nil
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

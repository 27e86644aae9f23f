package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "linkscan" {
			t.Errorf("expected use 'linkscan', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has quiet flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("quiet")
		if flag == nil {
			t.Fatal("expected quiet flag")
		}
		if flag.Shorthand != "q" {
			t.Errorf("expected shorthand 'q', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		subcommands := cmd.Commands()
		if len(subcommands) == 0 {
			t.Error("expected subcommands")
		}

		// Check for scrape, links, extract, compare, and init commands
		want := map[string]bool{
			"scrape <url>":               false,
			"links <url>":                false,
			"extract <url> <rules.json>": false,
			"compare <domain>":           false,
			"init":                       false,
		}
		for _, sub := range subcommands {
			if _, ok := want[sub.Use]; ok {
				want[sub.Use] = true
			}
		}
		for use, found := range want {
			if !found {
				t.Errorf("expected subcommand %q", use)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestGetBoolFlag tests the persistent flag retrieval.
func TestGetBoolFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewScrapeCmd()
		if getBoolFlag(cmd, "verbose") {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns false for unknown flag", func(t *testing.T) {
		cmd := NewScrapeCmd()
		if getBoolFlag(cmd, "no-such-flag") {
			t.Error("expected false for unknown flag")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("verbose", "true")

		scrapeCmd, _, err := root.Find([]string{"scrape"})
		if err != nil {
			t.Fatalf("failed to find scrape command: %v", err)
		}

		if !getBoolFlag(scrapeCmd, "verbose") {
			t.Error("expected true from parent verbose flag")
		}
	})

	t.Run("returns value from parent quiet flag", func(t *testing.T) {
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("quiet", "true")

		linksCmd, _, err := root.Find([]string{"links"})
		if err != nil {
			t.Fatalf("failed to find links command: %v", err)
		}

		if !getBoolFlag(linksCmd, "quiet") {
			t.Error("expected true from parent quiet flag")
		}
	})
}

// TestSetupLogger tests the logger setup.
func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("creates logger without flags", func(t *testing.T) {
		t.Parallel()
		logger := setupLogger(NewScrapeCmd())
		if logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("creates logger for verbose mode", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("verbose", "true")
		logger := setupLogger(root)
		if logger == nil {
			t.Error("expected non-nil logger")
		}
	})
}

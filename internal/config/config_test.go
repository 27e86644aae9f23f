package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	// Verify each default value explicitly
	// This serves as living documentation of the defaults
	t.Run("default MaxDepth is 2", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxDepth != 2 {
			t.Errorf("expected MaxDepth to be 2, got %d", cfg.MaxDepth)
		}
	})

	t.Run("default MaxPages is 50", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 50 {
			t.Errorf("expected MaxPages to be 50, got %d", cfg.MaxPages)
		}
	})

	t.Run("default Timeout is 10 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected Timeout to be 10s, got %v", cfg.Timeout)
		}
	})

	t.Run("default Workers is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != 1 {
			t.Errorf("expected Workers to be 1, got %d", cfg.Workers)
		}
	})

	t.Run("default ValidatePause is 500ms", func(t *testing.T) {
		t.Parallel()
		if cfg.ValidatePause != 500*time.Millisecond {
			t.Errorf("expected ValidatePause to be 500ms, got %v", cfg.ValidatePause)
		}
	})

	t.Run("default Format is json", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != "json" {
			t.Errorf("expected Format to be 'json', got %q", cfg.Format)
		}
	})

	t.Run("default IncludeSubdomains is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.IncludeSubdomains {
			t.Error("expected IncludeSubdomains to be true")
		}
	})

	t.Run("default UniqueLinks is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.UniqueLinks {
			t.Error("expected UniqueLinks to be true")
		}
	})

	t.Run("default UserAgent is browser-like", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent == "" {
			t.Error("expected non-empty UserAgent")
		}
	})

	t.Run("default Summary is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.Summary {
			t.Error("expected Summary to be true")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.SeedURL = "https://example.com"
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty seed URL returns ErrNoSeedURL", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.SeedURL = ""

		if err := cfg.Validate(); !errors.Is(err, ErrNoSeedURL) {
			t.Errorf("expected ErrNoSeedURL, got %v", err)
		}
	})

	t.Run("malformed seed URLs return ErrInvalidSeedURL", func(t *testing.T) {
		t.Parallel()

		// No scheme, wrong scheme, no host, unparsable
		bad := []string{
			"example.com",
			"ftp://example.com",
			"https://",
			"://missing-scheme",
			"mailto:me@example.com",
		}
		for _, seed := range bad {
			cfg := validConfig()
			cfg.SeedURL = seed

			if err := cfg.Validate(); !errors.Is(err, ErrInvalidSeedURL) {
				t.Errorf("seed %q: expected ErrInvalidSeedURL, got %v", seed, err)
			}
		}
	})

	t.Run("http seed URL is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.SeedURL = "http://example.com/path?q=1"

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("depth zero is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxDepth = 0

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("negative depth returns ErrInvalidDepth", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxDepth = -1

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("expected ErrInvalidDepth, got %v", err)
		}
	})

	t.Run("zero max pages returns ErrInvalidMaxPages", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxPages = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxPages) {
			t.Errorf("expected ErrInvalidMaxPages, got %v", err)
		}
	})

	t.Run("zero workers returns ErrInvalidWorkers", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Workers = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkers) {
			t.Errorf("expected ErrInvalidWorkers, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative delay returns ErrInvalidDelay", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = -time.Second

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("expected ErrInvalidDelay, got %v", err)
		}
	})

	t.Run("negative validate pause returns ErrInvalidValidatePause", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.ValidatePause = -time.Millisecond

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidValidatePause) {
			t.Errorf("expected ErrInvalidValidatePause, got %v", err)
		}
	})

	t.Run("unknown format returns ErrInvalidFormat", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Format = "xml"

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})

	t.Run("format check ignores case and spacing", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Format = "  Markdown "

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("md format alias is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Format = "md"

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("negative max body size returns ErrInvalidMaxBodySize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", err)
		}
	})
}

// TestParseHeaders tests parsing of the --headers JSON object value.
func TestParseHeaders(t *testing.T) {
	t.Parallel()

	t.Run("empty string returns nil map and no error", func(t *testing.T) {
		t.Parallel()

		headers, err := ParseHeaders("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if headers != nil {
			t.Errorf("expected nil map, got %v", headers)
		}
	})

	t.Run("valid JSON object parses", func(t *testing.T) {
		t.Parallel()

		headers, err := ParseHeaders(`{"X-Api-Key": "abc", "Accept-Language": "de"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if headers["X-Api-Key"] != "abc" {
			t.Errorf("expected X-Api-Key to be 'abc', got %q", headers["X-Api-Key"])
		}
		if headers["Accept-Language"] != "de" {
			t.Errorf("expected Accept-Language to be 'de', got %q", headers["Accept-Language"])
		}
	})

	t.Run("invalid JSON returns ErrInvalidHeaderJSON", func(t *testing.T) {
		t.Parallel()

		_, err := ParseHeaders(`{"X-Api-Key": `)
		if !errors.Is(err, ErrInvalidHeaderJSON) {
			t.Errorf("expected ErrInvalidHeaderJSON, got %v", err)
		}
	})

	t.Run("non-string values return ErrInvalidHeaderJSON", func(t *testing.T) {
		t.Parallel()

		_, err := ParseHeaders(`{"X-Retries": 3}`)
		if !errors.Is(err, ErrInvalidHeaderJSON) {
			t.Errorf("expected ErrInvalidHeaderJSON, got %v", err)
		}
	})

	t.Run("JSON array returns ErrInvalidHeaderJSON", func(t *testing.T) {
		t.Parallel()

		_, err := ParseHeaders(`["X-Api-Key", "abc"]`)
		if !errors.Is(err, ErrInvalidHeaderJSON) {
			t.Errorf("expected ErrInvalidHeaderJSON, got %v", err)
		}
	})
}

// TestFileProfileFor tests the ProfileFor merge behavior.
func TestFileProfileFor(t *testing.T) {
	t.Parallel()

	intPtr := func(n int) *int { return &n }
	boolPtr := func(b bool) *bool { return &b }

	t.Run("returns defaults when site not found", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: Profile{
				Depth:  intPtr(3),
				Cookie: "default_cookie=abc",
			},
			Sites: map[string]Profile{},
		}

		p := file.ProfileFor("unknown.example.com")
		if p.Depth == nil || *p.Depth != 3 {
			t.Errorf("expected depth 3, got %v", p.Depth)
		}
		if p.Cookie != "default_cookie=abc" {
			t.Errorf("expected default cookie, got %q", p.Cookie)
		}
	})

	t.Run("returns site-specific profile", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: Profile{
				Depth:  intPtr(3),
				Cookie: "default_cookie=abc",
			},
			Sites: map[string]Profile{
				"example.com": {
					Depth:  intPtr(5),
					Cookie: "session=xyz",
					Delay:  Duration(2 * time.Second),
				},
			},
		}

		p := file.ProfileFor("example.com")
		if p.Depth == nil || *p.Depth != 5 {
			t.Errorf("expected depth 5, got %v", p.Depth)
		}
		if p.Cookie != "session=xyz" {
			t.Errorf("expected site cookie, got %q", p.Cookie)
		}
		if p.Delay.Std() != 2*time.Second {
			t.Errorf("expected delay 2s, got %v", p.Delay.Std())
		}
	})

	t.Run("depth zero override wins over defaults", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: Profile{Depth: intPtr(3)},
			Sites: map[string]Profile{
				"example.com": {Depth: intPtr(0)},
			},
		}

		p := file.ProfileFor("example.com")
		if p.Depth == nil || *p.Depth != 0 {
			t.Errorf("expected depth 0 override, got %v", p.Depth)
		}
	})

	t.Run("include_subdomains false override wins over defaults", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: Profile{IncludeSubdomains: boolPtr(true)},
			Sites: map[string]Profile{
				"example.com": {IncludeSubdomains: boolPtr(false)},
			},
		}

		p := file.ProfileFor("example.com")
		if p.IncludeSubdomains == nil || *p.IncludeSubdomains {
			t.Errorf("expected include_subdomains false, got %v", p.IncludeSubdomains)
		}
	})

	t.Run("merges headers from defaults and site", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: Profile{
				Headers: map[string]string{
					"X-Default": "value1",
				},
			},
			Sites: map[string]Profile{
				"example.com": {
					Headers: map[string]string{
						"X-Custom": "value2",
					},
				},
			},
		}

		p := file.ProfileFor("example.com")
		if p.Headers["X-Default"] != "value1" {
			t.Errorf("expected default header, got %v", p.Headers)
		}
		if p.Headers["X-Custom"] != "value2" {
			t.Errorf("expected custom header, got %v", p.Headers)
		}
	})

	t.Run("site headers override default headers", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: Profile{
				Headers: map[string]string{
					"Authorization": "default-token",
				},
			},
			Sites: map[string]Profile{
				"example.com": {
					Headers: map[string]string{
						"Authorization": "site-token",
					},
				},
			},
		}

		p := file.ProfileFor("example.com")
		if p.Headers["Authorization"] != "site-token" {
			t.Errorf("expected site token to override, got %q", p.Headers["Authorization"])
		}
	})

	t.Run("merge does not mutate default headers", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: Profile{
				Headers: map[string]string{"X-Default": "value1"},
			},
			Sites: map[string]Profile{
				"example.com": {
					Headers: map[string]string{"X-Custom": "value2"},
				},
			},
		}

		_ = file.ProfileFor("example.com")
		if _, ok := file.Defaults.Headers["X-Custom"]; ok {
			t.Error("expected defaults headers to stay untouched")
		}
	})

	t.Run("www prefix is ignored during lookup", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Sites: map[string]Profile{
				"example.com": {Cookie: "session=xyz"},
			},
		}

		p := file.ProfileFor("www.example.com")
		if p.Cookie != "session=xyz" {
			t.Errorf("expected www lookup to match bare domain, got %q", p.Cookie)
		}
	})

	t.Run("bare domain matches www-keyed profile", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Sites: map[string]Profile{
				"www.example.com": {Cookie: "session=abc"},
			},
		}

		p := file.ProfileFor("example.com")
		if p.Cookie != "session=abc" {
			t.Errorf("expected bare lookup to match www key, got %q", p.Cookie)
		}
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Sites: map[string]Profile{
				"example.com": {Cookie: "session=xyz"},
			},
		}

		p := file.ProfileFor("EXAMPLE.com")
		if p.Cookie != "session=xyz" {
			t.Errorf("expected case-insensitive lookup, got %q", p.Cookie)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile("/nonexistent/path/.linkscan.yml")
		if err == nil {
			t.Fatal("expected error for non-existent file")
		}
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cf != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML profiles", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".linkscan.yml")

		content := `defaults:
  delay: "1s"
  cookie: "default=abc"
sites:
  example.com:
    depth: 0
    delay: "750ms"
    cookie: "session=xyz"
    include_subdomains: false
    headers:
      Authorization: "Bearer token"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Defaults.Delay.Std() != time.Second {
			t.Errorf("expected default delay 1s, got %v", cf.Defaults.Delay.Std())
		}
		if cf.Defaults.Cookie != "default=abc" {
			t.Errorf("expected default cookie, got %q", cf.Defaults.Cookie)
		}

		site, ok := cf.Sites["example.com"]
		if !ok {
			t.Fatal("expected example.com in sites")
		}
		if site.Depth == nil || *site.Depth != 0 {
			t.Errorf("expected site depth 0, got %v", site.Depth)
		}
		if site.Delay.Std() != 750*time.Millisecond {
			t.Errorf("expected site delay 750ms, got %v", site.Delay.Std())
		}
		if site.IncludeSubdomains == nil || *site.IncludeSubdomains {
			t.Errorf("expected include_subdomains false, got %v", site.IncludeSubdomains)
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected Authorization header")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".linkscan.yml")

		content := `invalid: yaml: content: [}`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for non-duration delay", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".linkscan.yml")

		content := `defaults:
  delay: "fast"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for unparsable delay")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".linkscan.yml")

		content := `defaults:
  cookie: "default=abc"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "custom.yml")

		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		result := FindConfigFile(configPath)
		if result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		result := FindConfigFile("/nonexistent/path/config.yml")
		if result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("returns empty when no config found", func(_ *testing.T) {
		result := FindConfigFile("")
		// This may or may not find a config depending on the system
		// Just ensure it doesn't panic
		_ = result
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir returns non-empty path", func(t *testing.T) {
		t.Parallel()

		dir := XDGDataDir()
		if dir == "" {
			t.Error("expected non-empty XDG data dir")
		}
	})

	t.Run("XDGConfigDir returns non-empty path", func(t *testing.T) {
		t.Parallel()

		dir := XDGConfigDir()
		if dir == "" {
			t.Error("expected non-empty XDG config dir")
		}
	})

	t.Run("XDGCacheDir returns non-empty path", func(t *testing.T) {
		t.Parallel()

		dir := XDGCacheDir()
		if dir == "" {
			t.Error("expected non-empty XDG cache dir")
		}
	})
}

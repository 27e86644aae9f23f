package config

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that decodes from YAML duration strings
// such as "500ms" or "2s". A bare integer would otherwise decode as
// nanoseconds, which nobody means.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the profile duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Profile holds site-specific configuration for a single domain.
// This allows customizing crawl behavior per site without repeating
// flags on every invocation. Profile values fill in settings the user
// did not set explicitly; CLI flags always win.
type Profile struct {
	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the crawl depth for this site. A pointer because
	// depth 0 (seed page only) is a meaningful override.
	Depth *int `yaml:"depth,omitempty"`

	// Delay overrides the pause between requests to this site,
	// e.g. "500ms" or "2s".
	Delay Duration `yaml:"delay,omitempty"`

	// IncludeSubdomains overrides whether subdomain links count as
	// internal for this site. A pointer because false is a meaningful
	// override.
	IncludeSubdomains *bool `yaml:"include_subdomains,omitempty"`
}

// File represents the structure of the .linkscan.yml profile file.
type File struct {
	// Sites maps domains to their site-specific profiles.
	// Keys should be the domain without the scheme (e.g., "example.com").
	Sites map[string]Profile `yaml:"sites,omitempty"`

	// Defaults contains the default profile applied to all sites unless
	// overridden in the site-specific profile.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// ProfileFor returns the profile for a specific domain.
// It merges the site-specific profile with defaults. Lookup is
// case-insensitive and tolerates a leading "www.", so a profile keyed
// "example.com" also applies to "www.example.com".
func (cf *File) ProfileFor(domain string) Profile {
	// Start with defaults
	result := cf.Defaults

	site, ok := cf.lookup(domain)
	if !ok {
		return result
	}

	// Override with site-specific profile where present
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.Depth != nil {
		result.Depth = site.Depth
	}
	if site.Delay != 0 {
		result.Delay = site.Delay
	}
	if site.IncludeSubdomains != nil {
		result.IncludeSubdomains = site.IncludeSubdomains
	}
	if len(site.Headers) > 0 {
		merged := make(map[string]string, len(result.Headers)+len(site.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range site.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}

	return result
}

// lookup finds the site profile for a domain, trying the exact key first
// and then the key with a leading "www." stripped from both sides.
func (cf *File) lookup(domain string) (Profile, bool) {
	key := strings.ToLower(strings.TrimSpace(domain))
	if p, ok := cf.Sites[key]; ok {
		return p, true
	}

	bare := strings.TrimPrefix(key, "www.")
	if p, ok := cf.Sites[bare]; ok {
		return p, true
	}
	if p, ok := cf.Sites["www."+bare]; ok {
		return p, true
	}
	return Profile{}, false
}

// Package config provides configuration structures and utilities for linkscan.
// It defines the main configuration options for crawling, link filtering,
// validation, and report generation, plus optional per-site YAML profiles.
package config

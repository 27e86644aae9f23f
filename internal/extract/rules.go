package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/andybalholm/cascadia"

	"github.com/nao1215/linkscan/internal/fetcher"
)

// Rules file errors. Both are configuration errors: the caller surfaces
// them before any fetch happens.
var (
	// ErrRulesNotFound is returned when the rules file does not exist.
	ErrRulesNotFound = errors.New("rules file not found")

	// ErrInvalidRules is returned when the rules file is not a JSON
	// object of rule objects.
	ErrInvalidRules = errors.New("invalid JSON in rules file")
)

// Rule describes how one output field is pulled out of a page.
type Rule struct {
	// Selector is the CSS selector locating the element(s). A rule
	// without a selector is skipped.
	Selector string `json:"selector"`

	// Attribute names the value to read: "text" (the default) takes the
	// trimmed element text, any other value reads that attribute.
	Attribute string `json:"attribute"`

	// All collects a value per matching element instead of just the
	// first match.
	All bool `json:"all"`
}

// Rules maps output field names to extraction rules.
//
// A rules file looks like:
//
//	{
//	  "title": {"selector": "h1", "attribute": "text"},
//	  "image": {"selector": "img.product", "attribute": "src"},
//	  "tags":  {"selector": ".tag", "attribute": "text", "all": true}
//	}
type Rules map[string]Rule

// LoadRules reads and parses a rules file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRulesNotFound, path)
		}
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}

	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRules, path)
	}
	return rules, nil
}

// Apply runs every rule against the page and returns the extracted fields.
//
// Per-rule failures never abort the whole extraction: an invalid selector
// yields a nil field, a missing first match yields a nil field, and a
// missing attribute yields "".
func (r Rules) Apply(resp *fetcher.Response) map[string]any {
	results := make(map[string]any, len(r))
	for field, rule := range r {
		if rule.Selector == "" {
			continue
		}
		results[field] = applyRule(resp, rule)
	}
	return results
}

// applyRule evaluates one rule against the page.
func applyRule(resp *fetcher.Response, rule Rule) any {
	if _, err := cascadia.Compile(rule.Selector); err != nil {
		return nil
	}

	attribute := rule.Attribute
	if attribute == "" {
		attribute = "text"
	}

	elements := resp.Select(rule.Selector)
	if rule.All {
		values := make([]string, 0, len(elements))
		for _, el := range elements {
			values = append(values, ruleValue(el, attribute))
		}
		return values
	}
	if len(elements) == 0 {
		return nil
	}
	return ruleValue(elements[0], attribute)
}

// ruleValue reads the configured value from one element.
func ruleValue(el *fetcher.Element, attribute string) string {
	if attribute == "text" {
		return el.Text()
	}
	return el.AttrOr(attribute, "")
}

package rule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pombredanne/multifast/pkg/types"
)

// FilterConfig specifies include and exclude patterns for rule filtering.
type FilterConfig struct {
	Include []string // Regex patterns - only matching rules included
	Exclude []string // Regex patterns - matching rules excluded
}

// ParsePatterns splits a comma-separated string into individual patterns.
// Patterns are trimmed of whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude patterns to rules.
// Include is applied first, then exclude.
// Empty include means "include all".
// A pattern matches a rule if it matches either the rule's ID or its Name,
// since rule sets loaded from a directory (rule.NewLoader) name rules more
// memorably than their dotted ID and users filtering on the CLI shouldn't
// have to know which one a given ruleset author chose.
// Returns error if any pattern is invalid regex.
func Filter(rules []*types.Rule, config FilterConfig) ([]*types.Rule, error) {
	if len(rules) == 0 {
		return rules, nil
	}

	includeRegexes, err := compilePatterns(config.Include)
	if err != nil {
		return nil, err
	}

	excludeRegexes, err := compilePatterns(config.Exclude)
	if err != nil {
		return nil, err
	}

	filtered := rules
	if len(includeRegexes) > 0 {
		filtered = selectMatching(rules, includeRegexes, true)
	}
	if len(excludeRegexes) > 0 {
		filtered = selectMatching(filtered, excludeRegexes, false)
	}

	return filtered, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	regexes := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

// selectMatching keeps (want=true) or drops (want=false) rules whose ID or
// Name matches any of regexes.
func selectMatching(rules []*types.Rule, regexes []*regexp.Regexp, want bool) []*types.Rule {
	result := make([]*types.Rule, 0, len(rules))
	for _, r := range rules {
		if matchesAny(r, regexes) == want {
			result = append(result, r)
		}
	}
	return result
}

func matchesAny(r *types.Rule, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(r.ID) || re.MatchString(r.Name) {
			return true
		}
	}
	return false
}

package classpack

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ShouldExcludeClass reports whether token matches any exclusion rule.
// Prefix and suffix rules are literal, never regex.
func ShouldExcludeClass(token string, rules ExcludeRules) bool {
	for _, p := range rules.Prefixes {
		if p != "" && strings.HasPrefix(token, p) {
			return true
		}
	}
	for _, s := range rules.Suffixes {
		if s != "" && strings.HasSuffix(token, s) {
			return true
		}
	}
	if slices.Contains(rules.Classes, token) {
		return true
	}
	for _, re := range rules.Patterns {
		if re != nil && re.MatchString(token) {
			return true
		}
	}
	return false
}

// NormalizeClassString splits raw on whitespace runs and partitions the tokens.
// Included classes are deduplicated and sorted; excluded tokens keep their
// original order.
func NormalizeClassString(raw string, rules ExcludeRules) (key string, classes, excluded []string) {
	seen := make(map[string]bool)
	for _, token := range strings.Fields(raw) {
		if ShouldExcludeClass(token, rules) {
			excluded = append(excluded, token)
			continue
		}
		if !seen[token] {
			seen[token] = true
			classes = append(classes, token)
		}
	}
	slices.Sort(classes)
	return strings.Join(classes, " "), classes, excluded
}

// CompileExcludeRules builds rules from string patterns
func CompileExcludeRules(prefixes, suffixes, classes, patterns []string) (ExcludeRules, error) {
	rules := ExcludeRules{
		Prefixes: prefixes,
		Suffixes: suffixes,
		Classes:  classes,
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return ExcludeRules{}, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		rules.Patterns = append(rules.Patterns, re)
	}
	return rules, nil
}

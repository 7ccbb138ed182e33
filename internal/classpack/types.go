// Package classpack detects repeated utility-class patterns in rendered web
// output and decides which ones are safe and profitable to consolidate.
package classpack

import (
	"regexp"
	"slices"
)

// SourceType tags the rendering context a pattern was observed in
type SourceType string

// Source contexts
const (
	SourceHTML SourceType = "html" // Server-rendered markup
	SourceJS   SourceType = "js"   // Client script bundles
	SourceRSC  SourceType = "rsc"  // React server component payload
)

// IsMarkup reports whether the context is server-rendered markup
func (s SourceType) IsMarkup() bool {
	return s == SourceHTML
}

// IsScript reports whether the context is evaluated by the client runtime
func (s SourceType) IsScript() bool {
	return s == SourceJS || s == SourceRSC
}

// Location records where a class string was found (diagnostic only)
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// ClassOccurrence aggregates every observation of one normalized pattern
type ClassOccurrence struct {
	ClassString     string              // First-seen raw text: "flex  gap-2 items-center"
	NormalizedKey   string              // Sorted included classes: "flex gap-2 items-center"
	Count           int                 // Number of observations
	Classes         []string            // Included classes, sorted
	ExcludedClasses []string            // Excluded tokens, original order
	Locations       []Location          // Provenance
	SourceTypes     map[SourceType]bool // Contexts this pattern was seen in
}

// HasSource reports whether the pattern was observed in the given context
func (o *ClassOccurrence) HasSource(s SourceType) bool {
	return o.SourceTypes[s]
}

// InMarkup reports whether the pattern was seen in server-rendered markup
func (o *ClassOccurrence) InMarkup() bool {
	for s, ok := range o.SourceTypes {
		if ok && s.IsMarkup() {
			return true
		}
	}
	return false
}

// InScript reports whether the pattern was seen in a client-script context
func (o *ClassOccurrence) InScript() bool {
	for s, ok := range o.SourceTypes {
		if ok && s.IsScript() {
			return true
		}
	}
	return false
}

// ConsolidationCandidate is an occurrence promoted for transformation
type ConsolidationCandidate struct {
	ClassOccurrence
	Frequency  int    // Copied from Count
	BytesSaved int    // Net savings with the final name
	HashName   string // "cp-a"
}

// DynamicBasePattern is the static prefix of a template-literal class string
// whose suffix is computed at runtime.
type DynamicBasePattern struct {
	BaseClasses   []string // Sorted included base classes
	NormalizedKey string
	Location      Location
}

// ExcludeRules lists class tokens that must be preserved verbatim
type ExcludeRules struct {
	Prefixes []string
	Suffixes []string
	Classes  []string
	Patterns []*regexp.Regexp
}

// NamingMode selects how identifiers are generated
type NamingMode string

// Naming modes
const (
	NamingSequential NamingMode = "sequential"
	NamingHash       NamingMode = "hash"
)

// Config holds detection configuration
type Config struct {
	MinOccurrences                  int        `validate:"min=1"`
	MinClasses                      int        `validate:"min=1"`
	MinBytesSaved                   int        `validate:"min=0"`
	HashPrefix                      string     `validate:"required"`
	HashLength                      int        `validate:"min=3,max=32"`
	Naming                          NamingMode `validate:"omitempty,oneof=sequential hash"`
	Exclude                         ExcludeRules
	SSR                             bool // Enable hydration-safety filtering
	ForceAll                        bool // Bypass savings and hydration filters
	SkipPatternsWithExcludedClasses bool
}

// DefaultConfig returns the detection defaults
func DefaultConfig() Config {
	return Config{
		MinOccurrences: 2,
		MinClasses:     2,
		MinBytesSaved:  10,
		HashPrefix:     "cp-",
		HashLength:     6,
		Naming:         NamingSequential,
	}
}

// Summary aggregates a candidate list for reporting
type Summary struct {
	TotalPatterns        int     `json:"totalPatterns"`
	TotalOccurrences     int     `json:"totalOccurrences"`
	TotalBytesSaved      int     `json:"totalBytesSaved"`
	AvgFrequency         float64 `json:"avgFrequency"`
	AvgClassesPerPattern float64 `json:"avgClassesPerPattern"`
}

// Occurrences maps normalized keys to their aggregated occurrence
type Occurrences map[string]*ClassOccurrence

// Record normalizes raw and folds one observation into the map.
// Returns nil when raw has no included classes.
func (m Occurrences) Record(raw string, loc Location, source SourceType, rules ExcludeRules) *ClassOccurrence {
	key, classes, excluded := NormalizeClassString(raw, rules)
	if key == "" {
		return nil
	}

	occ, exists := m[key]
	if !exists {
		occ = &ClassOccurrence{
			ClassString:     raw,
			NormalizedKey:   key,
			Classes:         classes,
			ExcludedClasses: excluded,
			SourceTypes:     make(map[SourceType]bool),
		}
		m[key] = occ
	}

	occ.Count++
	occ.Locations = append(occ.Locations, loc)
	if source != "" {
		occ.SourceTypes[source] = true
	}
	return occ
}

// SortedKeys returns the normalized keys in lexicographic order
func (m Occurrences) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

package classpack

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yacobolo/classpack/internal/classpack"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version    string            `json:"version"`
	Timestamp  string            `json:"timestamp"`
	DryRun     bool              `json:"dryRun"`
	Summary    classpack.Summary `json:"summary"`
	Stats      JSONStats         `json:"stats"`
	Patterns   []JSONPattern     `json:"patterns"`
	Unresolved []string          `json:"unresolved"`
	Warnings   []string          `json:"warnings"`
}

// JSONStats contains scan and rewrite counts
type JSONStats struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesScanned    int `json:"filesScanned"`
	FilesSkipped    int `json:"filesSkipped"`
	PatternsFound   int `json:"patternsFound"`
	Hazards         int `json:"hydrationHazards"`
	FilesChanged    int `json:"filesChanged"`
	Replacements    int `json:"replacements"`
	CSSBytes        int `json:"cssBytes"`
}

// JSONPattern represents a single consolidated pattern
type JSONPattern struct {
	Name        string                 `json:"name"`
	ClassString string                 `json:"classString"`
	Classes     []string               `json:"classes"`
	Excluded    []string               `json:"excluded"`
	Frequency   int                    `json:"frequency"`
	BytesSaved  int                    `json:"bytesSaved"`
	Sources     []classpack.SourceType `json:"sources"`
}

// WriteJSON writes the result as JSON
func WriteJSON(w io.Writer, result *Result) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts Result to JSONOutput
func buildJSONOutput(result *Result) JSONOutput {
	patterns := make([]JSONPattern, len(result.Candidates))
	for i, c := range result.Candidates {
		patterns[i] = JSONPattern{
			Name:        c.HashName,
			ClassString: c.ClassString,
			Classes:     c.Classes,
			Excluded:    nonNil(c.ExcludedClasses),
			Frequency:   c.Frequency,
			BytesSaved:  c.BytesSaved,
			Sources:     sortedSources(c.SourceTypes),
		}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		DryRun:    result.DryRun,
		Summary:   result.Summary,
		Stats: JSONStats{
			FilesDiscovered: result.Stats.FilesDiscovered,
			FilesScanned:    result.Stats.FilesScanned,
			FilesSkipped:    result.Stats.FilesSkipped,
			PatternsFound:   result.PatternsFound,
			Hazards:         result.Hazards,
			FilesChanged:    len(result.Changes),
			Replacements:    result.Replacements,
			CSSBytes:        len(result.CSS),
		},
		Patterns:   patterns,
		Unresolved: nonNil(result.Unresolved),
		Warnings:   nonNil(result.Warnings),
	}
}

// sortedSources lists the contexts a pattern was seen in
func sortedSources(set map[classpack.SourceType]bool) []classpack.SourceType {
	out := []classpack.SourceType{}
	for _, s := range []classpack.SourceType{classpack.SourceHTML, classpack.SourceJS, classpack.SourceRSC} {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}

// nonNil keeps empty lists as [] in JSON
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

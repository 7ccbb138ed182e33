package classpack

import (
	"encoding/json"

	"github.com/yacobolo/classpack/internal/classpack"
)

// ManifestVersion is bumped on incompatible manifest changes
const ManifestVersion = 1

// Manifest records every generated class name and what it stands for
type Manifest struct {
	Version  int                      `json:"version"`
	Prefix   string                   `json:"prefix"`
	Naming   classpack.NamingMode     `json:"naming"`
	Summary  classpack.Summary        `json:"summary"`
	Patterns map[string]ManifestEntry `json:"patterns"`
}

// ManifestEntry describes one generated class
type ManifestEntry struct {
	Classes    []string `json:"classes"`
	Excluded   []string `json:"excluded,omitempty"`
	Frequency  int      `json:"frequency"`
	BytesSaved int      `json:"bytesSaved"`
}

// BuildManifest keys the result's candidates by generated name
func BuildManifest(result *Result, detection classpack.Config) Manifest {
	naming := detection.Naming
	if naming == "" {
		naming = classpack.NamingSequential
	}

	m := Manifest{
		Version:  ManifestVersion,
		Prefix:   detection.HashPrefix,
		Naming:   naming,
		Summary:  result.Summary,
		Patterns: make(map[string]ManifestEntry, len(result.Candidates)),
	}
	for _, c := range result.Candidates {
		m.Patterns[c.HashName] = ManifestEntry{
			Classes:    c.Classes,
			Excluded:   c.ExcludedClasses,
			Frequency:  c.Frequency,
			BytesSaved: c.BytesSaved,
		}
	}
	return m
}

// WriteManifest writes m as indented JSON
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, string(data)+"\n")
}

package classpack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yacobolo/classpack/internal/classpack"
)

// ErrNoInput is returned when no build output matches the include globs
var ErrNoInput = errors.New("no build output files matched")

// Config holds the pipeline configuration
type Config struct {
	BuildDir   string   // Root of the build output
	Includes   []string // Glob patterns relative to BuildDir
	Stylesheet string   // Compiled utility stylesheet; required to optimize
	CSSOut     string   // Generated stylesheet path
	Manifest   string   // JSON manifest path; empty skips it
	DryRun     bool     // Compute changes without writing anything

	Detection classpack.Config
	Logger    *slog.Logger
}

// DefaultConfig returns the pipeline defaults
func DefaultConfig() Config {
	return Config{
		BuildDir:  ".",
		Includes:  []string{"**/*.html", "**/*.js", "**/*.rsc"},
		CSSOut:    "classpack.css",
		Detection: classpack.DefaultConfig(),
	}
}

// Result contains pipeline statistics and output
type Result struct {
	Stats         ScanStats
	PatternsFound int // Distinct normalized patterns
	Hazards       int // Patterns excluded as hydration hazards
	Candidates    []classpack.ConsolidationCandidate
	Summary       classpack.Summary
	Unresolved    []string // Patterns dropped for classes missing from the stylesheet
	CSS           string
	Changes       []FileChange
	Replacements  int
	FilesWritten  int
	Warnings      []string
	DryRun        bool
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Analyze scans the build output and reports what would be consolidated.
// Nothing is written.
func Analyze(ctx context.Context, config Config) (*Result, error) {
	result, _, err := analyze(ctx, config)
	return result, err
}

func analyze(ctx context.Context, config Config) (*Result, *ScanResult, error) {
	log := config.logger()
	result := &Result{DryRun: config.DryRun}

	// 1. Scan build output
	scan, err := ScanFiles(ctx, config.BuildDir, config.Includes, config.Detection.Exclude, log)
	if err != nil {
		return nil, nil, err
	}
	result.Stats = scan.Stats
	if len(scan.Files) == 0 {
		return nil, nil, fmt.Errorf("%w in %s", ErrNoInput, config.BuildDir)
	}
	result.PatternsFound = len(scan.Occurrences)

	// 2. Hydration hazards only matter when markup is hydrated
	var hazards map[string]bool
	if config.Detection.SSR {
		hazards = classpack.DetectHydrationHazards(scan.Occurrences, scan.DynamicBases)
		result.Hazards = len(hazards)
		log.Debug("detected hydration hazards", "patterns", len(hazards))
	}

	// 3. Detect candidates
	candidates := classpack.DetectConsolidatablePatterns(scan.Occurrences, config.Detection, hazards)
	log.Debug("detected candidates", "count", len(candidates))

	// 4. Drop what the stylesheet cannot back
	if config.Stylesheet != "" {
		sheet, err := loadStylesheet(config.Stylesheet)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("loaded stylesheet", "path", config.Stylesheet, "classes", sheet.Len())

		var unresolved []string
		candidates, unresolved = classpack.ResolvableCandidates(candidates, sheet)
		result.Unresolved = unresolved
		if len(unresolved) > 0 {
			log.Warn("dropped patterns with classes missing from stylesheet", "count", len(unresolved))
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%d pattern(s) reference classes not found in %s", len(unresolved), config.Stylesheet))
		}

		css, missing := classpack.GenerateCSS(candidates, sheet)
		if len(missing) > 0 {
			return nil, nil, fmt.Errorf("generate css: %d resolved pattern(s) lost their rules", len(missing))
		}
		result.CSS = css
	}

	result.Candidates = candidates
	result.Summary = classpack.Summarize(candidates)
	return result, scan, nil
}

// Optimize rewrites the build output to use consolidated class names, then
// writes the generated stylesheet and the manifest.
func Optimize(ctx context.Context, config Config) (*Result, error) {
	if config.Stylesheet == "" {
		return nil, errors.New("optimize: stylesheet is required")
	}
	if config.CSSOut == "" {
		return nil, errors.New("optimize: css output path is required")
	}
	log := config.logger()

	result, scan, err := analyze(ctx, config)
	if err != nil {
		return nil, err
	}

	// 5. Transform
	result.Changes = planChanges(scan.Files, result.Candidates, config.Detection.Exclude)
	for _, c := range result.Changes {
		result.Replacements += c.Replacements
	}
	log.Debug("planned rewrites", "files", len(result.Changes), "replacements", result.Replacements)

	if config.DryRun {
		return result, nil
	}

	// 6. Write files
	for _, c := range result.Changes {
		if err := writeFile(c.Path, c.After); err != nil {
			return nil, fmt.Errorf("write failed: %w", err)
		}
		result.FilesWritten++
	}

	if err := writeFile(config.CSSOut, cssHeader+result.CSS); err != nil {
		return nil, fmt.Errorf("write css: %w", err)
	}
	log.Info("wrote stylesheet", "path", config.CSSOut, "bytes", len(cssHeader)+len(result.CSS))

	if config.Manifest != "" {
		if err := WriteManifest(config.Manifest, BuildManifest(result, config.Detection)); err != nil {
			return nil, fmt.Errorf("write manifest: %w", err)
		}
		log.Info("wrote manifest", "path", config.Manifest, "patterns", len(result.Candidates))
	}

	return result, nil
}

const cssHeader = "/* Code generated by classpack. DO NOT EDIT. */\n"

func loadStylesheet(path string) (*classpack.Stylesheet, error) {
	// #nosec G304 - stylesheet path is user configuration
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	return classpack.ParseStylesheet(string(content)), nil
}

// writeFile replaces path, keeping the mode of an existing file
func writeFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), mode)
}

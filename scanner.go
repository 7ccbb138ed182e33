package classpack

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/classpack/internal/classpack"
)

// IgnoreFile lists build-output paths (gitignore syntax) that are never scanned
const IgnoreFile = ".classpackignore"

// FileKind classifies a build artifact by how it reaches the page
type FileKind int

// File kinds
const (
	KindUnknown FileKind = iota
	KindHTML             // Server-rendered markup
	KindScript           // Client bundle
	KindRSC              // Server component payload
)

// ClassMatch is one class attribute value found in a file
type ClassMatch struct {
	Value   string               // Attribute value as written
	Start   int                  // Byte offset of Value
	End     int                  // Byte offset just past Value
	Line    int                  // 1-based
	Source  classpack.SourceType // Context the value renders in
	Dynamic bool                 // Static prefix of a template literal; never rewritten
}

// ScannedFile holds a file's content and its class matches
type ScannedFile struct {
	Path    string
	Kind    FileKind
	Content string
	Matches []ClassMatch
}

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually scanned (after filtering)
	FilesSkipped    int // Files skipped due to filtering
}

// ScanResult is the materialized view handed to detection
type ScanResult struct {
	Files        []*ScannedFile
	Occurrences  classpack.Occurrences
	DynamicBases []classpack.DynamicBasePattern
	Stats        ScanStats
}

// scanPattern represents a regex pattern for finding class attribute values.
// The first capture group is the value. Attribute patterns require whitespace
// before the name so bound or prefixed attributes (:class, data-class) are
// never read as markup classes.
type scanPattern struct {
	name     string
	regex    *regexp.Regexp
	source   classpack.SourceType
	template bool // Value is a template literal body
}

var (
	htmlPatterns = []scanPattern{
		{
			name:   "class attribute with double quotes",
			regex:  regexp.MustCompile(`(?:^|[\s<])class="([^"]*)"`),
			source: classpack.SourceHTML,
		},
		{
			name:   "class attribute with single quotes",
			regex:  regexp.MustCompile(`(?:^|[\s<])class='([^']*)'`),
			source: classpack.SourceHTML,
		},
		{
			name:   "escaped flight payload in inline script",
			regex:  regexp.MustCompile(`\\"className\\":\\"([^"\\]*)\\"`),
			source: classpack.SourceRSC,
		},
	}

	scriptPatterns = []scanPattern{
		{
			name:   "className property with double quotes",
			regex:  regexp.MustCompile(`\bclassName\s*:\s*"([^"\\]*)"`),
			source: classpack.SourceJS,
		},
		{
			name:   "className property with single quotes",
			regex:  regexp.MustCompile(`\bclassName\s*:\s*'([^'\\]*)'`),
			source: classpack.SourceJS,
		},
		{
			name:     "className property with template literal",
			regex:    regexp.MustCompile("\\bclassName\\s*:\\s*`([^`\\\\]*)`"),
			source:   classpack.SourceJS,
			template: true,
		},
	}

	rscPatterns = []scanPattern{
		{
			name:   "className in flight payload",
			regex:  regexp.MustCompile(`"className":"([^"\\]*)"`),
			source: classpack.SourceRSC,
		},
	}
)

// fileKind classifies path by extension
func fileKind(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return KindHTML
	case ".js", ".mjs", ".cjs":
		return KindScript
	case ".rsc":
		return KindRSC
	default:
		return KindUnknown
	}
}

// patternsFor returns the scan table for kind
func patternsFor(kind FileKind) []scanPattern {
	switch kind {
	case KindHTML:
		return htmlPatterns
	case KindScript:
		return scriptPatterns
	case KindRSC:
		return rscPatterns
	default:
		return nil
	}
}

// Matches returns the class matches of content. The sequence is lazy and
// holds no state between calls, so it can be ranged over any number of times.
func Matches(content string, kind FileKind) iter.Seq[ClassMatch] {
	return func(yield func(ClassMatch) bool) {
		for _, p := range patternsFor(kind) {
			if !matchPattern(content, p, yield) {
				return
			}
		}
	}
}

// matchPattern yields every match of p in content; false means stop
func matchPattern(content string, p scanPattern, yield func(ClassMatch) bool) bool {
	pos, line, lineOffset := 0, 1, 0

	for pos < len(content) {
		loc := p.regex.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			return true
		}

		start, end := pos+loc[2], pos+loc[3]
		line += strings.Count(content[lineOffset:start], "\n")
		lineOffset = start

		m := ClassMatch{
			Value:  content[start:end],
			Start:  start,
			End:    end,
			Line:   line,
			Source: p.source,
		}

		// A template literal with a placeholder only has a static prefix
		if p.template {
			if i := strings.Index(m.Value, "${"); i >= 0 {
				m.Value = m.Value[:i]
				m.End = start + i
				m.Dynamic = true
			}
		}

		if !yield(m) {
			return false
		}
		pos += loc[1]
	}
	return true
}

// loadIgnore compiles the ignore file in buildDir; nil when absent
func loadIgnore(buildDir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(buildDir, IgnoreFile))
	if err != nil {
		// No ignore file is fine
		return nil
	}
	return gi
}

// shouldSkipFile determines if a file should be excluded from scanning
func shouldSkipFile(path, buildDir string, gi *ignore.GitIgnore) bool {
	if fileKind(path) == KindUnknown {
		return true
	}

	// Minified vendor chunks and source maps never carry app classes
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".map") || strings.Contains(base, ".hot-update.") {
		return true
	}

	if gi != nil {
		rel, err := filepath.Rel(buildDir, path)
		if err == nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// expandGlobPatterns expands globs under buildDir and tracks statistics
func expandGlobPatterns(buildDir string, patterns []string) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}
	gi := loadIgnore(buildDir)

	for _, pattern := range patterns {
		// Use doublestar for ** glob support
		matches, err := doublestar.FilepathGlob(filepath.Join(buildDir, pattern))
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipFile(match, buildDir, gi) {
				stats.FilesSkipped++
				continue
			}
			allFiles = append(allFiles, match)
			stats.FilesScanned++
		}
	}

	slices.Sort(allFiles)
	return allFiles, stats, nil
}

// ScanFiles reads every matching file under buildDir in parallel and folds
// the matches into one occurrence map. Files are merged in path order so the
// first-seen raw string of each pattern is deterministic.
func ScanFiles(ctx context.Context, buildDir string, patterns []string, rules classpack.ExcludeRules, logger *slog.Logger) (*ScanResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	paths, stats, err := expandGlobPatterns(buildDir, patterns)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered build output", "files", stats.FilesScanned, "skipped", stats.FilesSkipped)

	files := make([]*ScannedFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := scanFile(path)
			if err != nil {
				// Log warning but continue
				logger.Warn("skipping unreadable file", "path", path, "error", err)
				return nil
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	result := &ScanResult{
		Occurrences: make(classpack.Occurrences),
		Stats:       stats,
	}
	for _, f := range files {
		if f == nil {
			continue
		}
		result.Files = append(result.Files, f)
		result.fold(f, rules)
	}

	logger.Debug("scanned build output",
		"files", len(result.Files),
		"patterns", len(result.Occurrences),
		"dynamic_bases", len(result.DynamicBases))

	return result, nil
}

// fold records the matches of f
func (r *ScanResult) fold(f *ScannedFile, rules classpack.ExcludeRules) {
	for _, m := range f.Matches {
		loc := classpack.Location{File: f.Path, Line: m.Line}
		if m.Dynamic {
			key, classes, _ := classpack.NormalizeClassString(m.Value, rules)
			if key != "" {
				r.DynamicBases = append(r.DynamicBases, classpack.DynamicBasePattern{
					BaseClasses:   classes,
					NormalizedKey: key,
					Location:      loc,
				})
			}
			continue
		}
		r.Occurrences.Record(m.Value, loc, m.Source, rules)
	}
}

// scanFile reads a single file and collects its matches
func scanFile(path string) (*ScannedFile, error) {
	// #nosec G304 - path comes from a glob over the configured build dir
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f := &ScannedFile{
		Path:    path,
		Kind:    fileKind(path),
		Content: string(content),
	}
	for m := range Matches(f.Content, f.Kind) {
		f.Matches = append(f.Matches, m)
	}
	return f, nil
}

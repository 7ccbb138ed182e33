package classpack

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/yacobolo/classpack/internal/classpack"
)

// FileChange is a pending rewrite of one scanned file
type FileChange struct {
	Path         string
	Before       string
	After        string
	Replacements int
}

// edit replaces content[start:end]
type edit struct {
	start, end int
	text       string
}

// indexCandidates maps normalized keys to their candidate
func indexCandidates(candidates []classpack.ConsolidationCandidate) map[string]*classpack.ConsolidationCandidate {
	byKey := make(map[string]*classpack.ConsolidationCandidate, len(candidates))
	for i := range candidates {
		byKey[candidates[i].NormalizedKey] = &candidates[i]
	}
	return byKey
}

// TransformContent rewrites every class value of content whose pattern was
// consolidated. Each match keeps its own excluded tokens after the new name.
// Returns the new content and the number of values replaced.
func TransformContent(content string, kind FileKind, candidates []classpack.ConsolidationCandidate, rules classpack.ExcludeRules) (string, int) {
	return applyMatches(content, Matches(content, kind), indexCandidates(candidates), rules)
}

func applyMatches(content string, matches iter.Seq[ClassMatch], byKey map[string]*classpack.ConsolidationCandidate, rules classpack.ExcludeRules) (string, int) {
	if len(byKey) == 0 {
		return content, 0
	}

	var edits []edit
	for m := range matches {
		if m.Dynamic {
			continue
		}
		key, _, excluded := classpack.NormalizeClassString(m.Value, rules)
		c, ok := byKey[key]
		if !ok {
			continue
		}
		text := c.HashName
		if len(excluded) > 0 {
			text += " " + strings.Join(excluded, " ")
		}
		edits = append(edits, edit{start: m.Start, end: m.End, text: text})
	}
	if len(edits) == 0 {
		return content, 0
	}

	slices.SortFunc(edits, func(a, b edit) int { return a.start - b.start })

	var sb strings.Builder
	sb.Grow(len(content))
	pos, applied := 0, 0
	for _, e := range edits {
		// Overlapping matches from different patterns: first one wins
		if e.start < pos {
			continue
		}
		sb.WriteString(content[pos:e.start])
		sb.WriteString(e.text)
		pos = e.end
		applied++
	}
	sb.WriteString(content[pos:])

	return sb.String(), applied
}

// planChanges computes the rewrite of every scanned file. Unchanged files are
// left out.
func planChanges(files []*ScannedFile, candidates []classpack.ConsolidationCandidate, rules classpack.ExcludeRules) []FileChange {
	byKey := indexCandidates(candidates)

	var changes []FileChange
	for _, f := range files {
		after, n := applyMatches(f.Content, slices.Values(f.Matches), byKey, rules)
		if n == 0 {
			continue
		}
		changes = append(changes, FileChange{
			Path:         f.Path,
			Before:       f.Content,
			After:        after,
			Replacements: n,
		})
	}
	return changes
}

// WriteDiff writes a unified diff of each change
func WriteDiff(w io.Writer, changes []FileChange) error {
	for _, c := range changes {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(c.Before),
			B:        difflib.SplitLines(c.After),
			FromFile: c.Path,
			ToFile:   c.Path + " (optimized)",
			Context:  1,
		}
		text, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			return fmt.Errorf("diff %s: %w", c.Path, err)
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	return nil
}

package classpack

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/classpack/internal/classpack"
)

func sampleResult() *Result {
	c := testCandidate("cp-a", "flex items-center gap-2")
	c.Frequency = 12
	c.BytesSaved = 228
	c.SourceTypes = map[classpack.SourceType]bool{classpack.SourceJS: true, classpack.SourceHTML: true}
	candidates := []classpack.ConsolidationCandidate{c}

	return &Result{
		Stats:         ScanStats{FilesDiscovered: 3, FilesScanned: 3},
		PatternsFound: 4,
		Candidates:    candidates,
		Summary:       classpack.Summarize(candidates),
		Unresolved:    []string{"card shadow"},
		Warnings:      []string{"1 pattern(s) reference classes not found in app.css"},
		CSS:           ".cp-a{display:flex}\n",
		Changes:       []FileChange{{Path: "index.html", Replacements: 12}},
		Replacements:  12,
		DryRun:        true,
	}
}

func TestDetermineOutputFormat(t *testing.T) {
	assert.Equal(t, OutputJSON, DetermineOutputFormat("json"))
	assert.Equal(t, OutputText, DetermineOutputFormat("text"))
	assert.Equal(t, OutputText, DetermineOutputFormat(""))
	assert.Equal(t, OutputText, DetermineOutputFormat("yaml"))
}

func TestWriteOutputText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	result := sampleResult()
	WriteOutput(&buf, result, OutputText, OutputOptions{Verbose: true})

	out := buf.String()
	assert.Contains(t, out, "Scanned 3 file(s), 4 distinct pattern(s)")
	assert.Contains(t, out, "1. cp-a flex gap-2 items-center (12x, 228 B)")
	assert.Contains(t, out, "Bytes saved:           228 B")
	assert.Contains(t, out, "unresolved: card shadow")
	assert.Contains(t, out, "Would rewrite 12 class value(s) in 1 file(s)")
	assert.Len(t, result.Warnings, 1, "rendering must not mutate the result")
}

func TestWriteOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	WriteOutput(&buf, sampleResult(), OutputJSON, OutputOptions{})

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.0", out.Version)
	assert.True(t, out.DryRun)
	assert.Equal(t, 1, out.Summary.TotalPatterns)
	assert.Equal(t, 4, out.Stats.PatternsFound)
	assert.Equal(t, 1, out.Stats.FilesChanged)
	assert.Equal(t, len(".cp-a{display:flex}\n"), out.Stats.CSSBytes)

	require.Len(t, out.Patterns, 1)
	p := out.Patterns[0]
	assert.Equal(t, "cp-a", p.Name)
	assert.Equal(t, "flex items-center gap-2", p.ClassString)
	assert.Equal(t, []string{}, p.Excluded)
	assert.Equal(t, []classpack.SourceType{classpack.SourceHTML, classpack.SourceJS}, p.Sources)
	assert.Equal(t, []string{"card shadow"}, out.Unresolved)
}

func TestWriteJSONEmptyLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &Result{}))

	assert.Contains(t, buf.String(), `"patterns": []`)
	assert.Contains(t, buf.String(), `"unresolved": []`)
	assert.Contains(t, buf.String(), `"warnings": []`)
}

package classpack

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{name: "zero", n: 0, want: "0 B"},
		{name: "bytes", n: 512, want: "512 B"},
		{name: "kibibytes", n: 1536, want: "1.5 KiB"},
		{name: "mebibytes", n: 3 << 20, want: "3.0 MiB"},
		{name: "negative", n: -20, want: "-20 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatBytes(tt.n))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "flex gap-2", truncate("flex gap-2", 20))
	assert.Equal(t, "flex...", truncate("flex items-center", 8))
}

func TestReporterPrintCandidates(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf, limit: 1}

	reporter.PrintCandidates([]ConsolidationCandidate{
		{ClassOccurrence: ClassOccurrence{NormalizedKey: "flex gap-2"}, HashName: "cp-a", Frequency: 12, BytesSaved: 72},
		{ClassOccurrence: ClassOccurrence{NormalizedKey: "p-4 rounded"}, HashName: "cp-b", Frequency: 3, BytesSaved: 21},
	})

	out := buf.String()
	assert.Contains(t, out, "1. cp-a flex gap-2 (12x, 72 B)")
	assert.Contains(t, out, "... and 1 more pattern")
	assert.NotContains(t, out, "cp-b")
}

func TestReporterPrintCandidatesEmpty(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf, limit: 10}

	reporter.PrintCandidates(nil)
	assert.Contains(t, buf.String(), "No patterns qualify")
}

func TestReporterPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf, limit: 10}

	reporter.PrintSummary(Summary{
		TotalPatterns:        2,
		TotalOccurrences:     15,
		TotalBytesSaved:      2048,
		AvgFrequency:         7.5,
		AvgClassesPerPattern: 3,
	})

	out := buf.String()
	assert.Contains(t, out, "Patterns:              2")
	assert.Contains(t, out, "Bytes saved:           2.0 KiB")
	assert.Contains(t, out, "Avg frequency:         7.5")
}

func TestShouldUseColorsForced(t *testing.T) {
	assert.True(t, ShouldUseColors(true))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColors(false))
}

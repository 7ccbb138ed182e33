package classpack

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ReportOptions controls the text report
type ReportOptions struct {
	UseColors bool
	Limit     int // Max candidates listed (0 = 10)
}

// Reporter formats detection results for a terminal
type Reporter struct {
	w         io.Writer
	useColors bool
	limit     int
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer, opts ReportOptions) *Reporter {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	return &Reporter{
		w:         w,
		useColors: ShouldUseColors(opts.UseColors),
		limit:     limit,
	}
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// FORCE_COLOR is set by GitHub Actions and most CI runners
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// PrintSummary outputs the aggregate numbers
func (r *Reporter) PrintSummary(s Summary) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleHeading, "Class Consolidation Summary", r.useColors))
	fmt.Fprintln(r.w, "---------------------------")
	fmt.Fprintf(r.w, "Patterns:              %d\n", s.TotalPatterns)
	fmt.Fprintf(r.w, "Occurrences:           %d\n", s.TotalOccurrences)
	fmt.Fprintf(r.w, "Bytes saved:           %s\n",
		RenderStyle(StyleSavings, formatBytes(s.TotalBytesSaved), r.useColors))
	fmt.Fprintf(r.w, "Avg frequency:         %.1f\n", s.AvgFrequency)
	fmt.Fprintf(r.w, "Avg classes/pattern:   %.1f\n", s.AvgClassesPerPattern)
}

// PrintCandidates lists the top candidates by savings
func (r *Reporter) PrintCandidates(candidates []ConsolidationCandidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, RenderStyle(StyleMuted, "No patterns qualify for consolidation", r.useColors))
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleHeading, "Top Patterns", r.useColors))
	fmt.Fprintln(r.w, "------------")

	for i, c := range candidates {
		if i >= r.limit {
			fmt.Fprintf(r.w, "... and %s\n", pluralizeCount(len(candidates)-r.limit, "more pattern", "more patterns"))
			break
		}
		fmt.Fprintf(r.w, "%d. %s %s (%dx, %s)\n",
			i+1,
			RenderStyle(StyleName, c.HashName, r.useColors),
			RenderStyle(StyleMuted, truncate(c.NormalizedKey, 60), r.useColors),
			c.Frequency,
			RenderStyle(StyleSavings, formatBytes(c.BytesSaved), r.useColors))
	}
}

// PrintWarnings shows pipeline warnings
func (r *Reporter) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleDropped, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")
	for _, w := range warnings {
		fmt.Fprintf(r.w, "• %s\n", w)
	}
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// formatBytes renders a byte count with a binary unit
func formatBytes(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%s%.1f MiB", sign, float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%s%.1f KiB", sign, float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%s%d B", sign, n)
	}
}

// truncate shortens s to max bytes with an ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

package classpack

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/yacobolo/classpack/internal/classpack"
)

// OutputFormat selects how a result is rendered
type OutputFormat string

// Output formats
const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// OutputOptions controls rendering
type OutputOptions struct {
	UseColors bool
	Limit     int // Max candidates listed in text output
	Verbose   bool
}

// DetermineOutputFormat selects the appropriate output format based on flags
func DetermineOutputFormat(formatFlag string) OutputFormat {
	switch formatFlag {
	case "json":
		return OutputJSON
	default:
		// Unknown formats fall back to text
		return OutputText
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *Result, format OutputFormat, opts OutputOptions) {
	switch format {
	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			// Log error but don't crash
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}

	default:
		reporter := classpack.NewReporter(w, classpack.ReportOptions{
			UseColors: opts.UseColors,
			Limit:     opts.Limit,
		})
		writeScanLine(w, result, reporter.UseColors())
		reporter.PrintCandidates(result.Candidates)
		reporter.PrintSummary(result.Summary)
		warnings := result.Warnings
		if opts.Verbose {
			warnings = append(slices.Clone(warnings), unresolvedWarnings(result.Unresolved)...)
		}
		reporter.PrintWarnings(warnings)
		writeChangeLine(w, result, reporter.UseColors())
	}
}

func writeScanLine(w io.Writer, result *Result, useColors bool) {
	line := fmt.Sprintf("Scanned %d file(s), %d distinct pattern(s)", result.Stats.FilesScanned, result.PatternsFound)
	if result.Hazards > 0 {
		line += fmt.Sprintf(", %d hydration hazard(s) excluded", result.Hazards)
	}
	fmt.Fprintln(w, classpack.RenderStyle(classpack.StyleMuted, line, useColors))
}

func writeChangeLine(w io.Writer, result *Result, useColors bool) {
	if len(result.Changes) == 0 {
		return
	}

	verb := "Rewrote"
	if result.DryRun {
		verb = "Would rewrite"
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, classpack.RenderStyle(classpack.StyleSavings,
		fmt.Sprintf("%s %d class value(s) in %d file(s)", verb, result.Replacements, len(result.Changes)), useColors))
}

func unresolvedWarnings(unresolved []string) []string {
	out := make([]string, len(unresolved))
	for i, u := range unresolved {
		out[i] = "unresolved: " + u
	}
	return out
}

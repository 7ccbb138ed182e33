package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yacobolo/classpack"
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"report"},
	Short:   "Report consolidatable class patterns without changing files",
	Long: `Scan the build output and list the class patterns that would be
consolidated, with their frequency and net byte savings.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}

	result, err := classpack.Analyze(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	writeResult(cmd.OutOrStdout(), result)
	return nil
}

// writeResult renders result unless quiet
func writeResult(w io.Writer, result *classpack.Result) {
	if getBool("quiet", false) {
		return
	}

	format := classpack.DetermineOutputFormat(getString("output-format", "text"))
	classpack.WriteOutput(w, result, format, classpack.OutputOptions{
		UseColors: getBool("color", false),
		Limit:     getInt("limit", 10),
		Verbose:   getBool("verbose", false),
	})
}

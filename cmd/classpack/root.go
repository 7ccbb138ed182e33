package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classpack",
	Short: "Consolidate repeated utility-class strings in built web output",
	Long: `Scan server-rendered HTML, client bundles and server component payloads
for class combinations that repeat, and replace each with one short generated
class backed by a generated stylesheet: "flex items-center gap-2" -> "cp-a".`,
	// Default behavior: run analyze when no subcommand is given.
	// We must call loadConfig here because PreRunE of analyzeCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runAnalyze(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", defaultConfigPath, "Config file path")
	pf.String("output-format", "text", "Output format: text|json")
	pf.Int("limit", 10, "Max patterns listed in text output")

	// Input
	pf.String("build-dir", ".", "Build output directory to scan")
	pf.StringSlice("include", nil, "Glob patterns relative to build-dir (default **/*.html, **/*.js, **/*.rsc)")
	pf.String("stylesheet", "", "Compiled utility stylesheet the generated rules are built from")

	// Detection
	pf.Int("min-occurrences", 2, "Minimum times a pattern must appear")
	pf.Int("min-classes", 2, "Minimum classes in a pattern")
	pf.Int("min-bytes-saved", 10, "Minimum net bytes a pattern must save")
	pf.String("hash-prefix", "cp-", "Prefix of generated class names")
	pf.Int("hash-length", 6, "Length of hash-mode names")
	pf.String("naming", "sequential", "Naming mode: sequential|hash")
	pf.Bool("ssr", false, "Only consolidate patterns safe for hydration")
	pf.Bool("force-all", false, "Bypass savings and hydration filters")
	pf.Bool("skip-patterns-with-excluded-classes", false, "Ignore patterns that carry excluded classes")
	pf.StringSlice("exclude-prefix", nil, "Class prefixes never consolidated")
	pf.StringSlice("exclude-suffix", nil, "Class suffixes never consolidated")
	pf.StringSlice("exclude-class", nil, "Exact classes never consolidated")
	pf.StringSlice("exclude-pattern", nil, "Regular expressions of classes never consolidated")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

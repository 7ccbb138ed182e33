package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/classpack"
)

var optimizeCmd = &cobra.Command{
	Use:     "optimize",
	Aliases: []string{"opt"},
	Short:   "Rewrite build output to use consolidated class names",
	Long: `Replace every consolidated class pattern in the build output with its
generated name, write the generated stylesheet and a JSON manifest.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runOptimize,
}

func init() {
	f := optimizeCmd.Flags()
	f.String("css-out", "classpack.css", "Generated stylesheet path")
	f.String("manifest", "", "JSON manifest path (empty = none)")
	f.Bool("dry-run", false, "Compute changes without writing files")
	f.Bool("diff", false, "Print a unified diff of the rewrites")
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}

	result, err := classpack.Optimize(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	if getBool("diff", false) {
		if err := classpack.WriteDiff(cmd.OutOrStdout(), result.Changes); err != nil {
			return err
		}
	}

	writeResult(cmd.OutOrStdout(), result)
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .classpack.yaml config file",
	Long:  `Create a .classpack.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created "+defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# classpack configuration
# Env overrides: CLASSPACK_MIN_OCCURRENCES=3, CLASSPACK_EXCLUDE__PREFIXES=js-,is-

# Input
build-dir: .next
include:
  - "server/**/*.html"
  - "server/**/*.rsc"
  - "static/chunks/**/*.js"
stylesheet: .next/static/css/app.css

# Output (optimize)
css-out: .next/static/css/classpack.css
manifest: .next/classpack-manifest.json

# Detection
min-occurrences: 2
min-classes: 2
min-bytes-saved: 10
hash-prefix: cp-
hash-length: 6           # hash naming only
naming: sequential       # sequential | hash
ssr: true                # skip patterns that would break hydration
force-all: false
skip-patterns-with-excluded-classes: false

# Classes that are never consolidated (they are kept next to the new name)
exclude:
  prefixes:
    - "js-"
  suffixes: []
  classes:
    - "group"
    - "peer"
  patterns: []           # regular expressions

# Reporting
output-format: text      # text | json
verbose: false
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}

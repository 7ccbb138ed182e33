package main

import (
	"io"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its script generator
var completionShells = map[string]func(io.Writer) error{
	"bash":       func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	"zsh":        func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Print a shell completion script",
	Long: `Print a completion script covering classpack's commands and its
detection, exclusion and output flags.

  classpack completion bash > /etc/bash_completion.d/classpack
  classpack completion zsh > "${fpath[1]}/_classpack"`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionShells[args[0]](cmd.OutOrStdout())
	},
}

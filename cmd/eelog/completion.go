package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for eelog.

Bash:
  $ source <(eelog completion bash)

Zsh:
  $ eelog completion zsh > "${fpath[1]}/_eelog"

Fish:
  $ eelog completion fish > ~/.config/fish/completions/eelog.fish

PowerShell:
  PS> eelog completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		out := cmd.OutOrStdout()

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

// fixedValues completes a flag from a closed set of values.
func fixedValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// registerFlagCompletions runs after every init has defined its flags.
func registerFlagCompletions() {
	formats := fixedValues("pretty", "json")
	for _, c := range []*cobra.Command{parseCmd, watchCmd, tailCmd} {
		_ = c.RegisterFlagCompletionFunc("format", formats)
	}
	_ = parseCmd.RegisterFlagCompletionFunc("show", fixedValues("all", "combat", "warnings"))
	_ = parseCmd.RegisterFlagCompletionFunc("sort", fixedValues(
		"target", "health", "source", "damage", "time", "max_damage", "count", "messages"))
	_ = tailCmd.RegisterFlagCompletionFunc("kinds", fixedValues("combat", "warning"))
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

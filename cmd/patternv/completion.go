package patternv

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
		Example: `
# Bash
patternv completion bash > /etc/bash_completion.d/patternv

# Zsh
patternv completion zsh > "${fpath[1]}/_patternv"

# Fish
patternv completion fish > ~/.config/fish/completions/patternv.fish

# PowerShell
patternv completion powershell > $PROFILE\patternv.ps1
`,
	}
	rootCmd.AddCommand(cmd)
}

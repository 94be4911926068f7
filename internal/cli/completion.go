package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts for wfm.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for wfm.

To install completions:

  Bash (Linux):
    wfm completion bash | sudo tee /etc/bash_completion.d/wfm > /dev/null

  Bash (macOS with Homebrew):
    wfm completion bash > $(brew --prefix)/etc/bash_completion.d/wfm

  Zsh:
    wfm completion zsh > "${fpath[1]}/_wfm"
    # or
    wfm completion zsh > ~/.zsh/completions/_wfm

  Fish:
    wfm completion fish > ~/.config/fish/completions/wfm.fish

  PowerShell:
    wfm completion powershell > wfm.ps1
    # Then add ". wfm.ps1" to your PowerShell profile`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(os.Stdout, true)
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
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

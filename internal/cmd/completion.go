package cmd

import (
	"github.com/quantmind-br/brewpkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewCompletionCmd creates the completion command
func NewCompletionCmd(log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for brewpkg.

To load completions:

Bash:
  $ source <(brewpkg completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ brewpkg completion bash > /etc/bash_completion.d/brewpkg
  # macOS:
  $ brewpkg completion bash > $(brew --prefix)/etc/bash_completion.d/brewpkg

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ brewpkg completion zsh > "${fpath[1]}/_brewpkg"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ brewpkg completion fish | source

  # To load completions for each session, execute once:
  $ brewpkg completion fish > ~/.config/fish/completions/brewpkg.fish

PowerShell:
  PS> brewpkg completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> brewpkg completion powershell > brewpkg.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			var err error
			switch shell {
			case "bash":
				err = cmd.Root().GenBashCompletion(out)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				ui.PrintError(errOut, "Failed to generate %s completion: %v", shell, err)
				return err
			}

			log.Debug().Str("shell", shell).Msg("generated shell completion")
			return nil
		},
	}

	return cmd
}

package cmd

import (
	"os"
	"strings"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/config"
	"github.com/daedaleanai/fpgaflow/util"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate completion script",
	Long: `To load completions:

Bash:

  $ source <(fpgaflow completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ fpgaflow completion bash > /etc/bash_completion.d/fpgaflow
  # macOS:
  $ fpgaflow completion bash > /usr/local/etc/bash_completion.d/fpgaflow

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ fpgaflow completion zsh > "${fpath[1]}/_fpgaflow"

  # You will need to start a new shell for this setup to take effect.

fish:

  $ fpgaflow completion fish | source

  # To load completions for each session, execute once:
  $ fpgaflow completion fish > ~/.config/fish/completions/fpgaflow.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.ExactValidArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			cmd.Root().GenFishCompletion(os.Stdout, true)
		}
	},
	Hidden: true,
}

// completeBoards suggests the boards of the configured boards directory.
func completeBoards(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	boards, err := board.LoadDir(config.GetConfig().BoardsDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	names := []string{}
	for _, name := range util.OrderedKeys(boards) {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveDefault
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

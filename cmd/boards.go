package cmd

import (
	"fmt"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/config"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/util"

	"github.com/spf13/cobra"
)

var boardsCmd = &cobra.Command{
	Use:   "boards [DIR]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Lists the available boards",
	Long:  `Lists the boards described in DIR, or in the configured boards directory.`,
	Run:   runBoards,
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

func runBoards(cmd *cobra.Command, args []string) {
	dir := config.GetConfig().BoardsDir
	if len(args) > 0 {
		dir = args[0]
	}

	boards, err := board.LoadDir(dir)
	if err != nil {
		log.Fatal("Failed to load boards: %s.\n", err)
	}
	if len(boards) == 0 {
		log.Warning("No boards found in '%s'.\n", dir)
		return
	}

	for _, entry := range util.OrderedEntries(boards) {
		b := entry.Value
		fmt.Printf("%-16s %-24s %d clocks, %d ports\n", b.Name(), b.Part(), len(b.Clocks()), len(b.Ports()))
	}
}

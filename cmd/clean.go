package cmd

import (
	"os"

	"github.com/daedaleanai/fpgaflow/config"
	"github.com/daedaleanai/fpgaflow/log"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:    "clean",
	Args:   cobra.NoArgs,
	Short:  "Removes all intermediate build results",
	Long:   `Removes the output directory with all generated files, tool logs and projects.`,
	PreRun: bindConfigFlags,
	Run:    runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	addOutputFlag(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) {
	dir := config.GetConfig().OutputDir
	log.Debug("Removing output directory '%s'.\n", dir)
	if err := os.RemoveAll(dir); err != nil {
		log.Fatal("Failed to remove '%s': %s.\n", dir, err)
	}
}

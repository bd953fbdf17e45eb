package cmd

import (
	"os"

	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/manifest"
	"github.com/daedaleanai/fpgaflow/toolflow/vivado"

	"github.com/spf13/cobra"
)

var utilizationCmd = &cobra.Command{
	Use:   "utilization LOG",
	Args:  cobra.ExactArgs(1),
	Short: "Prints the cell usage reported in a Vivado log",
	Long:  `Prints the cell usage reported in a Vivado log.`,
	Run:   runUtilization,
}

var diffCmd = &cobra.Command{
	Use:   "diff NEW OLD",
	Args:  cobra.ExactArgs(2),
	Short: "Compares the utilization of two build records",
	Long: `Compares the part, tool version and cell usage of two build records
(<board>.build.yaml). Exits with status 1 if they differ.`,
	Run: runDiff,
}

func init() {
	rootCmd.AddCommand(utilizationCmd)
	rootCmd.AddCommand(diffCmd)
}

func runUtilization(cmd *cobra.Command, args []string) {
	if !printUtilization(vivado.ParseUtilization(args[0])) {
		os.Exit(1)
	}
}

func runDiff(cmd *cobra.Command, args []string) {
	newRecord, err := manifest.Read(args[0])
	if err != nil {
		log.Fatal("Failed to read build record: %s.\n", err)
	}
	oldRecord, err := manifest.Read(args[1])
	if err != nil {
		log.Fatal("Failed to read build record: %s.\n", err)
	}

	diff := manifest.Diff(newRecord, oldRecord)
	if !diff.Differ {
		log.Success("No changes.\n")
		return
	}

	for _, line := range []string{diff.ToolVersion, diff.Part} {
		if line != "" {
			log.Warning("%s.\n", line)
		}
	}
	for _, cell := range diff.Cells {
		log.Log("%s\n", cell)
	}
	os.Exit(1)
}

package cmd

import (
	"os"

	"github.com/daedaleanai/fpgaflow/log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fpgaflow",
	Short: "Builds FPGA designs with vendor toolflows",
	Long: `fpgaflow turns a board description and HDL sources into the inputs of a
vendor toolflow (pin and timing constraints, a batch flow script), runs the
vendor tool and reports the resource utilization read back from its log.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/daedaleanai/fpgaflow/config"
	"github.com/daedaleanai/fpgaflow/convert"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/toolflow/vivado"
	"github.com/daedaleanai/fpgaflow/util"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build --board BOARD --src FILE... [--name TOP]",
	Args:  cobra.NoArgs,
	Short: "Builds a design for a board",
	Long: `Stages the design sources, generates constraints and the flow script,
runs Vivado in batch mode and reports the cell utilization of the design.`,
	PreRun: bindConfigFlags,
	Run:    runBuild,
}

var designName string
var sourceFiles []string

func init() {
	rootCmd.AddCommand(buildCmd)
	addBoardFlags(buildCmd)
	addOutputFlag(buildCmd)
	buildCmd.Flags().StringVarP(&designName, "name", "n", "", "Name of the top-level design. Defaults to the board name")
	buildCmd.Flags().StringSliceVarP(&sourceFiles, "src", "s", nil, "HDL source file, in compile order")
	buildCmd.Flags().String(useFlagName, "", "Source dialect: verilog or vhdl")
	buildCmd.Flags().Duration(timeoutFlagName, 0, "Stop the tool after the given duration")
	buildCmd.Flags().String(binaryFlagName, "", "Path of the Vivado launcher")
	buildCmd.MarkFlagRequired("src")
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg := config.GetConfig()
	b := loadBoard()

	use, err := toolflow.ParseDialect(cfg.Use)
	if err != nil {
		log.Fatal("%s.\n", err)
	}

	flow := vivado.New(b, convert.Files{Paths: sourceFiles}, vivado.Options{
		OutputDir: cfg.OutputDir,
		Runner: vivado.ProcessRunner{
			Binary:   cfg.Binary,
			Timeout:  cfg.Timeout,
			Progress: isTerminal(os.Stderr) && !log.Verbose,
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := designName
	if name == "" {
		name = b.Name()
	}
	log.Log("Building '%s' for board '%s' (%s) with %s.\n", name, b.Name(), b.Part(), flow.Name())
	start := time.Now()
	logPath, err := flow.Run(ctx, use, name)
	if err != nil {
		log.Fatal("Build failed: %s.\n", err)
	}
	log.Debug("Tool log: %s.\n", logPath)

	result, err := flow.Utilization()
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	if !printUtilization(result) {
		os.Exit(1)
	}
	if run := flow.LastRun(); run.Outcome.ExitCode != 0 {
		log.Error("Vivado exited with status %d.\n", run.Outcome.ExitCode)
		os.Exit(1)
	}
	log.Success("Done in %s.\n", time.Since(start).Round(time.Second))
}

// printUtilization prints the cell usage table. It returns false if the log could not be read.
func printUtilization(result toolflow.BuildResult) bool {
	if !result.OK() {
		log.Error("%s.\n", result.Message)
		return false
	}
	if result.Message != "" {
		log.Warning("%s.\n", result.Message)
	}
	if len(result.Syn) == 0 {
		log.Warning("The log has no cell usage report.\n")
		return true
	}

	log.Log("Cell usage:\n")
	log.IndentationLevel++
	for _, cell := range util.OrderedEntries(result.Syn) {
		log.Log("%-12s %s\n", cell.Key, cell.Value)
	}
	log.IndentationLevel--
	return true
}

package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/daedaleanai/fpgaflow/config"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/manifest"
	"github.com/daedaleanai/fpgaflow/toolflow/vivado"
	"github.com/daedaleanai/fpgaflow/util"

	"github.com/spf13/cobra"
)

var constraintsCmd = &cobra.Command{
	Use:    "constraints --board BOARD",
	Args:   cobra.NoArgs,
	Short:  "Generates the constraint file of a board",
	Long:   `Generates the pin, attribute and clock constraints of all ports in use.`,
	PreRun: bindConfigFlags,
	Run:    runConstraints,
}

var scriptCmd = &cobra.Command{
	Use:   "script --board BOARD --src FILE...",
	Args:  cobra.NoArgs,
	Short: "Generates the constraints and the Vivado flow script",
	Long: `Generates the constraints and the Vivado flow script without staging the
sources or running the tool. Sources are referenced where they are.`,
	PreRun: bindConfigFlags,
	Run:    runScript,
}

func init() {
	rootCmd.AddCommand(constraintsCmd)
	addBoardFlags(constraintsCmd)
	addOutputFlag(constraintsCmd)

	rootCmd.AddCommand(scriptCmd)
	addBoardFlags(scriptCmd)
	addOutputFlag(scriptCmd)
	scriptCmd.Flags().StringVarP(&designName, "name", "n", "", "Name of the top-level design. Defaults to the board name")
	scriptCmd.Flags().StringSliceVarP(&sourceFiles, "src", "s", nil, "HDL source file, in compile order")
}

func runConstraints(cmd *cobra.Command, args []string) {
	dir := config.GetConfig().OutputDir
	b := loadBoard()

	if err := util.EnsureDir(dir); err != nil {
		log.Fatal("Failed to create output directory '%s': %s.\n", dir, err)
	}
	file, err := vivado.WriteConstraints(dir, b)
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	log.Success("Wrote %s.\n", file)
}

func runScript(cmd *cobra.Command, args []string) {
	dir := config.GetConfig().OutputDir
	b := loadBoard()

	name := designName
	if name == "" {
		name = b.Name()
	}

	if err := util.EnsureDir(dir); err != nil {
		log.Fatal("Failed to create output directory '%s': %s.\n", dir, err)
	}
	constraints, err := vivado.WriteConstraints(dir, b)
	if err != nil {
		log.Fatal("%s.\n", err)
	}

	sources := []string{}
	for _, src := range sourceFiles {
		abs, err := filepath.Abs(src)
		if err != nil {
			log.Fatal("%s.\n", err)
		}
		sources = append(sources, abs)
	}

	provenance := manifest.GitProvenance(dir)
	script, err := vivado.WriteFlowScript(vivado.ScriptParams{
		Board:       b,
		Name:        name,
		Sources:     sources,
		Constraints: constraints,
		OutputDir:   dir,
		Created:     time.Now(),
		Program:     filepath.Base(os.Args[0]),
		Revision:    provenance.Revision,
		Dirty:       provenance.Dirty,
	})
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	log.Success("Wrote %s and %s.\n", constraints, script)
}

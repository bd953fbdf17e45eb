package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/daedaleanai/fpgaflow/config"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/manifest"
	"github.com/daedaleanai/fpgaflow/util"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:    "status",
	Args:   cobra.NoArgs,
	Short:  "Prints a status report of all builds in the output directory",
	Long:   `Prints a status report of all builds in the output directory, and whether their sources changed since.`,
	PreRun: bindConfigFlags,
	Run:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	addOutputFlag(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	dir := config.GetConfig().OutputDir
	log.Log("Output directory: '%s'\n", dir)

	records, err := filepath.Glob(filepath.Join(dir, "*"+manifest.RecordExt))
	if err != nil || len(records) == 0 {
		log.Warning("No builds found.\n")
		return
	}

	current := manifest.GitProvenance(dir)
	for _, file := range util.OrderedSlice(records) {
		log.IndentationLevel = 0
		record, err := manifest.Read(file)
		if err != nil {
			log.Error("%s.\n", err)
			continue
		}

		log.Log("\nBuild of '%s' for board '%s' (%s):\n", record.Design, record.Board, record.Part)
		log.IndentationLevel = 1
		log.Log("Finished %s, status %s.\n", record.Finished.Local().Format("2006-01-02 15:04:05"), record.Status)

		if record.TimedOut {
			log.Error("The tool was stopped at its deadline.\n")
		} else if record.ExitCode != 0 {
			log.Error("The tool exited with status %d.\n", record.ExitCode)
		}

		missing := []string{}
		for _, f := range append([]string{record.Constraints, record.Script, record.Log}, record.Sources...) {
			if _, err := os.Stat(f); err != nil {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			log.Error("Missing files: '%s'.\n", strings.Join(missing, "', '"))
		}

		switch {
		case record.Provenance.Revision == "":
			log.Log("Sources are not under version control.\n")
		case record.Provenance.Revision != current.Revision:
			log.Warning("Built from revision %s, the repository is at %s.\n", record.Provenance.Revision, current.Revision)
		case record.Provenance.Dirty || current.Dirty:
			log.Warning("Built from or compared against uncommitted changes.\n")
		default:
			log.Success("Up to date with revision %s.\n", current.Revision)
		}
	}

	log.IndentationLevel = 0
	log.Log("\n")
	if log.ErrorOccured() {
		log.Error("Errors found while checking the builds.\n")
		os.Exit(1)
	}
	log.Success("Done.\n")
}

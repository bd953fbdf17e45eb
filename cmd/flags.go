package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/config"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/util"

	"github.com/spf13/cobra"
)

const (
	boardFlagName    = "board"
	outputFlagName   = "output"
	useFlagName      = "use"
	timeoutFlagName  = "timeout"
	binaryFlagName   = "binary"
	portFlagName     = "port"
	allPortsFlagName = "all-ports"
)

// Flags that map onto configuration keys.
var configFlags = map[string]string{
	outputFlagName:  config.KeyOutputDir,
	useFlagName:     config.KeyUse,
	timeoutFlagName: config.KeyTimeout,
	binaryFlagName:  config.KeyBinary,
}

var boardName string
var portNames []string
var allPorts bool

func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&boardName, boardFlagName, "b", "", "Board description file, or the name of a board in the boards directory")
	cmd.Flags().StringSliceVarP(&portNames, portFlagName, "p", nil, "Mark a port and the clock it carries as in use")
	cmd.Flags().BoolVar(&allPorts, allPortsFlagName, false, "Mark all ports as in use")
	cmd.MarkFlagRequired(boardFlagName)
	cmd.RegisterFlagCompletionFunc(boardFlagName, completeBoards)
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(outputFlagName, "o", "", "Directory all generated files are written to")
}

// bindConfigFlags makes the flags of `cmd` override the configuration file and environment.
// Flags are bound right before the command runs since several commands share a key.
func bindConfigFlags(cmd *cobra.Command, args []string) {
	for name, key := range configFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := config.Settings().BindPFlag(key, flag); err != nil {
			log.Fatal("Failed to bind flag '%s': %s.\n", name, err)
		}
	}
}

func resolveBoardFile(name string) string {
	if util.FileExists(name) {
		return name
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, board.FileExt) {
		log.Fatal("Board file '%s' does not exist.\n", name)
	}
	file := filepath.Join(config.GetConfig().BoardsDir, name+board.FileExt)
	if !util.FileExists(file) {
		log.Fatal("Board '%s' not found in '%s'.\n", name, config.GetConfig().BoardsDir)
	}
	return file
}

// loadBoard reads the board selected with --board and applies --port and --all-ports.
func loadBoard() *board.Board {
	file := resolveBoardFile(boardName)
	log.Debug("Loading board from '%s'.\n", file)
	b, err := board.Load(file)
	if err != nil {
		log.Fatal("Failed to load board: %s.\n", err)
	}

	if allPorts {
		return b.WithAllPortsInUse()
	}
	if len(portNames) > 0 {
		used, err := b.WithPortsInUse(portNames...)
		if err != nil {
			log.Fatal("%s.\n", err)
		}
		return used
	}
	return b
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}

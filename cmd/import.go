package cmd

import (
	"os"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/board/xdc"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/util"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import-xdc XDC --device DEVICE --package PACKAGE --name NAME",
	Args:  cobra.ExactArgs(1),
	Short: "Creates a board description from a constraint file",
	Long: `Reads the PACKAGE_PIN, I/O attribute and create_clock statements of a
constraint file and prints the equivalent board description. Commented out
statements are ignored, so vendor master files import only the enabled ports.`,
	Run: runImport,
}

var importIdentity board.Identity
var importOutput string

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importIdentity.Vendor, "vendor", "xilinx", "Device vendor")
	importCmd.Flags().StringVar(&importIdentity.Family, "family", "", "Device family")
	importCmd.Flags().StringVar(&importIdentity.Device, "device", "", "Device, e.g. xc7a35t")
	importCmd.Flags().StringVar(&importIdentity.Package, "package", "", "Package, e.g. csg324")
	importCmd.Flags().StringVar(&importIdentity.Speed, "speed", "", "Speed grade, e.g. -1")
	importCmd.Flags().StringVar(&importIdentity.Name, "name", "", "Board name")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Write the board description to a file instead of stdout")
	importCmd.MarkFlagRequired("device")
	importCmd.MarkFlagRequired("package")
	importCmd.MarkFlagRequired("name")
}

func runImport(cmd *cobra.Command, args []string) {
	file, err := xdc.ParseFile(args[0])
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	log.Debug("Read %s from '%s'.\n", file.Describe(), args[0])

	b, err := file.Board(importIdentity)
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	data, err := board.Marshal(b)
	if err != nil {
		log.Fatal("%s.\n", err)
	}

	if importOutput == "" {
		os.Stdout.Write(data)
		return
	}
	if err := util.WriteFileAtomic(importOutput, data); err != nil {
		log.Fatal("Failed to write '%s': %s.\n", importOutput, err)
	}
	log.Success("Imported %d ports into %s.\n", len(b.Ports()), importOutput)
}

package main

import (
	"github.com/daedaleanai/fpgaflow/cmd"
)

func main() {
	cmd.Execute()
}

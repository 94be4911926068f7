// Command wfm is the entry point for the workflow engine and its HTTP
// control surface. All behavior lives in internal/cli; main only wires the
// exit code.
package main

import (
	"os"

	"github.com/AbdelazizMoustafa10m/wfm/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

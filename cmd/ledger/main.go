// Ledger is an interactive console for keeping a personal ledger. It features
// a line editor with persistent history recall and command completion.
package main

import (
	"os"

	"github.com/usemam/ledger/pkg/buildinfo"
	"github.com/usemam/ledger/pkg/prog"
	"github.com/usemam/ledger/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, shell.Program{})))
}

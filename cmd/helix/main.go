package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/helixarc/helix/internal/herrors"
	"github.com/helixarc/helix/internal/log"
)

// VERSION is injected by build flags.
var VERSION = "SELFBUILD"

func main() {
	app := cli.NewApp()
	app.Name = "helix"
	app.Usage = "DNA strand archival format: compile, restore, search, simulate"
	app.Version = VERSION
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "jobs, j", Value: 0, Usage: "worker parallelism, 0 = GOMAXPROCS, 1 = sequential"},
		cli.BoolFlag{Name: "quiet", Usage: "suppress info-level logging"},
		cli.BoolFlag{Name: "debug", Usage: "enable debug-level logging"},
	}
	app.Before = func(c *cli.Context) error {
		log.Configure(os.Stderr, c.GlobalBool("quiet"), c.GlobalBool("debug"))
		return nil
	}
	app.Commands = []cli.Command{
		compileCommand,
		restoreCommand,
		searchCommand,
		simulateCommand,
	}

	if err := app.Run(os.Args); err != nil {
		checkError(err)
	}
}

// checkError reports a fatal CLI error to stderr, then exits with a status
// derived from the error's Kind so scripts can distinguish failure modes (§7).
func checkError(err error) {
	if err == nil {
		return
	}
	color.Red("%v", err)
	os.Exit(exitCodeFor(err))
}

func exitCodeFor(err error) int {
	switch {
	case herrors.Is(err, herrors.ParameterMismatch):
		return 2
	case herrors.Is(err, herrors.PasswordRequired), herrors.Is(err, herrors.DecryptionFailed):
		return 3
	case herrors.Is(err, herrors.Unrecoverable):
		return 4
	case herrors.Is(err, herrors.MalformedArchive):
		return 5
	case herrors.Is(err, herrors.ConstraintUnsatisfiable):
		return 6
	case herrors.Is(err, herrors.IoError):
		return 1
	default:
		return 1
	}
}

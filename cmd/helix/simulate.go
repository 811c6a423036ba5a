package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/helixarc/helix/internal/damage"
	"github.com/helixarc/helix/internal/herrors"
	"github.com/helixarc/helix/internal/log"
)

var simulateCommand = cli.Command{
	Name:      "simulate",
	Usage:     "test-support: apply dropout and mutation to an archive",
	ArgsUsage: "<archive>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "output, o", Usage: "output path (default: <archive>.damaged)"},
		cli.Float64Flag{Name: "dropout", Usage: "percentage (0..100) of strands dropped entirely"},
		cli.Float64Flag{Name: "mutation", Usage: "per-base substitution fraction (0..1)"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return herrors.New(herrors.IoError, "simulate requires exactly one archive path")
		}
		archivePath := c.Args().Get(0)
		archiveText, err := os.ReadFile(archivePath)
		if err != nil {
			return herrors.Wrap(err, herrors.IoError, "reading archive %s", archivePath)
		}

		damaged := damage.Apply(archiveText, damage.Options{
			DropoutPct:   c.Float64("dropout"),
			MutationFrac: c.Float64("mutation"),
		})

		out := c.String("output")
		if out == "" {
			out = archivePath + ".damaged"
		}
		if err := writeAtomic(out, damaged); err != nil {
			return err
		}
		log.Info("simulated damage", "archive", archivePath, "output", out, "dropout", c.Float64("dropout"), "mutation", c.Float64("mutation"))
		return nil
	},
}

package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/helixarc/helix/internal/herrors"
	"github.com/helixarc/helix/internal/log"
	"github.com/helixarc/helix/internal/pipeline"
)

var restoreCommand = cli.Command{
	Name:      "restore",
	Usage:     "invert compile: reconstruct the original payload from an archive",
	ArgsUsage: "<archive> <output>",
	Flags:     sharedFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return herrors.New(herrors.IoError, "restore requires an archive path and an output path")
		}
		cfg, err := configFromFlags(c)
		if err != nil {
			return err
		}
		archivePath := c.Args().Get(0)
		output := c.Args().Get(1)

		archiveText, err := os.ReadFile(archivePath)
		if err != nil {
			return herrors.Wrap(err, herrors.IoError, "reading archive %s", archivePath)
		}

		payload, err := pipeline.Restore(archiveText, cfg.params())
		if err != nil {
			return err
		}

		if err := writeAtomic(output, payload); err != nil {
			return err
		}
		log.Info("restored payload", "archive", archivePath, "output", output, "bytes", len(payload))
		return nil
	},
}

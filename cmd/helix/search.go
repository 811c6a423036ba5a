package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/helixarc/helix/internal/herrors"
	"github.com/helixarc/helix/internal/log"
	"github.com/helixarc/helix/internal/pipeline"
)

var searchCommand = cli.Command{
	Name:      "search",
	Usage:     "pull one tag's strands out of a molecular soup into a new archive",
	ArgsUsage: "<archive> <tag>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "output, o", Usage: "output path (default: <archive>.<tag>.helix)"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return herrors.New(herrors.IoError, "search requires an archive path and a tag")
		}
		archivePath := c.Args().Get(0)
		tag := c.Args().Get(1)

		archiveText, err := os.ReadFile(archivePath)
		if err != nil {
			return herrors.Wrap(err, herrors.IoError, "reading archive %s", archivePath)
		}

		filtered, err := pipeline.Search(archiveText, tag)
		if err != nil {
			return err
		}

		out := c.String("output")
		if out == "" {
			out = archivePath + "." + tag + ".helix"
		}
		if err := writeAtomic(out, filtered); err != nil {
			return err
		}
		log.Info("searched soup", "archive", archivePath, "tag", tag, "output", out)
		return nil
	},
}

package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/helixarc/helix/internal/herrors"
	"github.com/helixarc/helix/internal/log"
	"github.com/helixarc/helix/internal/pipeline"
)

var compileCommand = cli.Command{
	Name:      "compile",
	Usage:     "compress, encrypt, shard, frame, and base-encode a payload into an archive",
	ArgsUsage: "<input>",
	Flags:     sharedFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return herrors.New(herrors.IoError, "compile requires exactly one input path")
		}
		cfg, err := configFromFlags(c)
		if err != nil {
			return err
		}
		input := c.Args().Get(0)

		payload, err := os.ReadFile(input)
		if err != nil {
			return herrors.Wrap(err, herrors.IoError, "reading input %s", input)
		}

		archiveText, err := pipeline.Compile(payload, cfg.params())
		if err != nil {
			return err
		}

		out := cfg.Output
		if out == "" {
			out = input + ".helix"
		}
		if err := writeAtomic(out, archiveText); err != nil {
			return err
		}
		log.Info("compiled archive", "input", input, "output", out, "bytes", len(archiveText))
		return nil
	},
}

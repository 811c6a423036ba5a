package main

import (
	"encoding/json"
	"os"

	"github.com/urfave/cli"

	"github.com/helixarc/helix/internal/pipeline"
)

// config mirrors the CLI flags shared by compile/restore, with a
// --c JSON-overlay escape hatch for scripting a long flag list.
type config struct {
	Data      int    `json:"data"`
	Parity    int    `json:"parity"`
	ShardSize int    `json:"shardsize"`
	Tag       string `json:"tag"`
	Password  string `json:"password"`
	PrimerFwd string `json:"primerfwd"`
	PrimerRev string `json:"primerrev"`
	Jobs      int    `json:"jobs"`
	Output    string `json:"output"`
	Quiet     bool   `json:"quiet"`
	Debug     bool   `json:"debug"`
}

func configFromFlags(c *cli.Context) (config, error) {
	cfg := config{
		Data:      c.Int("data"),
		Parity:    c.Int("parity"),
		ShardSize: c.Int("shardsize"),
		Tag:       c.String("tag"),
		Password:  c.String("password"),
		PrimerFwd: c.String("primer-fwd"),
		PrimerRev: c.String("primer-rev"),
		Jobs:      c.GlobalInt("jobs"),
		Output:    c.String("output"),
		Quiet:     c.GlobalBool("quiet"),
		Debug:     c.GlobalBool("debug"),
	}
	if path := c.String("c"); path != "" {
		if err := parseJSONConfig(&cfg, path); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

func parseJSONConfig(cfg *config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(cfg)
}

func (cfg config) params() pipeline.Params {
	return pipeline.Params{
		Data:      cfg.Data,
		Parity:    cfg.Parity,
		ShardSize: cfg.ShardSize,
		Tag:       cfg.Tag,
		Password:  cfg.Password,
		PrimerFwd: cfg.PrimerFwd,
		PrimerRev: cfg.PrimerRev,
		Jobs:      cfg.Jobs,
	}
}

var sharedFlags = []cli.Flag{
	cli.IntFlag{Name: "data, d", Value: pipeline.DefaultData, Usage: "number of data shards per block (D)"},
	cli.IntFlag{Name: "parity, p", Value: pipeline.DefaultParity, Usage: "number of parity shards per block (P)"},
	cli.IntFlag{Name: "shardsize, s", Value: pipeline.DefaultShard, Usage: "shard size in bytes (S)"},
	cli.StringFlag{Name: "tag, t", Value: pipeline.DefaultTag, Usage: "molecular tag identifying this archive within a soup"},
	cli.StringFlag{Name: "password", Usage: "password; omit for a plaintext archive", EnvVar: "HELIX_PASSWORD"},
	cli.StringFlag{Name: "primer-fwd", Value: pipeline.DefaultPrimerFwd, Usage: "forward primer sequence"},
	cli.StringFlag{Name: "primer-rev", Value: pipeline.DefaultPrimerRev, Usage: "reverse primer sequence"},
	cli.StringFlag{Name: "output, o", Usage: "compile output path (default: <input>.helix); restore takes its output as a positional argument"},
	cli.StringFlag{Name: "c", Usage: "path to a JSON file overlaying these flags"},
}

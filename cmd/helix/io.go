package main

import (
	"os"
	"path/filepath"

	"github.com/helixarc/helix/internal/herrors"
)

// writeAtomic writes data to a temp file in the same directory as path and
// renames it into place, so a crash or a fatal worker error never leaves a
// partial output file (§5 "no partial output files").
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".helix-tmp-*")
	if err != nil {
		return herrors.Wrap(err, herrors.IoError, "creating temp file in %s", dir)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return herrors.Wrap(err, herrors.IoError, "writing %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return herrors.Wrap(err, herrors.IoError, "closing %s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return herrors.Wrap(err, herrors.IoError, "renaming %s to %s", tmpPath, path)
	}
	return nil
}

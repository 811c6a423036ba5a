// Package compress is Helix's lossless compression layer (C5). It uses
// github.com/klauspost/compress/zstd rather than a streaming-socket
// compressor, because zstd's self-framing (a magic number plus an optional
// content-size field in the frame header) is a closer fit for "decoder
// reads a length or sentinel" than a block codec shaped around a live
// net.Conn stream with per-write framing.
package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/helixarc/helix/internal/herrors"
	"github.com/helixarc/helix/internal/iocopy"
)

// Compress returns the zstd-compressed form of src, feeding src to the
// encoder through iocopy.Copy. The whole compressed output is accumulated
// in memory and returned as one slice.
func Compress(src io.Reader) ([]byte, error) {
	var out writeBuffer
	enc, err := zstd.NewWriter(&out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, herrors.Wrap(err, herrors.IoError, "constructing zstd encoder")
	}
	if _, err := iocopy.Copy(enc, src); err != nil {
		enc.Close()
		return nil, herrors.Wrap(err, herrors.IoError, "compressing payload")
	}
	if err := enc.Close(); err != nil {
		return nil, herrors.Wrap(err, herrors.IoError, "flushing zstd encoder")
	}
	return out.b, nil
}

// Decompress inverts Compress.
func Decompress(compressed []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, herrors.Wrap(err, herrors.IoError, "constructing zstd decoder")
	}
	defer dec.Close()
	out, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, herrors.Wrap(err, herrors.MalformedArchive, "decompressing payload")
	}
	return out, nil
}

// writeBuffer is a minimal io.Writer accumulator; avoids pulling in
// bytes.Buffer's full API surface for what is a one-shot append sink.
type writeBuffer struct{ b []byte }

func (w *writeBuffer) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// Package erasure wraps github.com/klauspost/reedsolomon to provide Helix's
// shard-level erasure coding (C3): split a block into D data shards, produce
// P parity shards, and reconstruct from any D surviving shards of the D+P.
package erasure

import (
	"github.com/klauspost/reedsolomon"

	"github.com/helixarc/helix/internal/herrors"
)

// Codec encodes/reconstructs blocks of (Data+Parity) shards, each
// ShardSize bytes.
type Codec struct {
	Data      int
	Parity    int
	ShardSize int

	enc reedsolomon.Encoder
}

// New builds a Codec for the given archive-wide D/P/S parameters.
func New(data, parity, shardSize int) (*Codec, error) {
	if data <= 0 || parity < 0 || shardSize <= 0 {
		return nil, herrors.New(herrors.ParameterMismatch, "invalid erasure parameters D=%d P=%d S=%d", data, parity, shardSize)
	}
	enc, err := reedsolomon.New(data, max1(parity))
	if err != nil {
		return nil, herrors.Wrap(err, herrors.ParameterMismatch, "constructing reed-solomon codec D=%d P=%d", data, parity)
	}
	return &Codec{Data: data, Parity: parity, ShardSize: shardSize, enc: enc}, nil
}

// max1 works around klauspost/reedsolomon rejecting zero parity shards by
// constructing a one-parity codec when Parity == 0: EncodeBlock computes
// the extra parity shard and then drops it, and Reconstruct treats it as
// always missing.
func max1(parity int) int {
	if parity == 0 {
		return 1
	}
	return parity
}

// EncodeBlock splits plaintext (Data*ShardSize bytes) into Data shards and
// computes Parity parity shards, returning Data+Parity shards of ShardSize
// bytes each.
func (c *Codec) EncodeBlock(plaintext []byte) ([][]byte, error) {
	if len(plaintext) != c.Data*c.ShardSize {
		return nil, herrors.New(herrors.ParameterMismatch, "block size %d does not match D*S=%d", len(plaintext), c.Data*c.ShardSize)
	}
	total := c.Data + max1(c.Parity)
	shards := make([][]byte, total)
	for i := 0; i < c.Data; i++ {
		shards[i] = plaintext[i*c.ShardSize : (i+1)*c.ShardSize]
	}
	for i := c.Data; i < total; i++ {
		shards[i] = make([]byte, c.ShardSize)
	}
	if err := c.enc.Encode(shards); err != nil {
		return nil, herrors.Wrap(err, herrors.IoError, "reed-solomon encode")
	}
	if c.Parity == 0 {
		shards = shards[:c.Data]
	}
	return shards, nil
}

// Reconstruct takes Data+Parity shards (nil entries mark erasures) and
// recovers the original Data*ShardSize plaintext bytes. It fails with
// Unrecoverable if fewer than Data shards survived.
func (c *Codec) Reconstruct(shards [][]byte) ([]byte, error) {
	total := c.Data + max1(c.Parity)
	work := make([][]byte, total)
	present := 0
	for i := 0; i < len(shards) && i < total; i++ {
		if shards[i] != nil {
			work[i] = shards[i]
			present++
		}
	}
	if present < c.Data {
		return nil, herrors.New(herrors.Unrecoverable, "Insufficient redundancy: only %d/%d shards survived, need %d", present, total, c.Data)
	}

	if err := c.enc.ReconstructData(work); err != nil {
		return nil, herrors.Wrap(err, herrors.Unrecoverable, "Insufficient redundancy: reed-solomon reconstruction failed")
	}

	out := make([]byte, 0, c.Data*c.ShardSize)
	for i := 0; i < c.Data; i++ {
		out = append(out, work[i]...)
	}
	return out, nil
}
